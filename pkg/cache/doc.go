// Package cache stores classification records under a time to live.
//
// The store is memoization only. Entries expire passively: badger drops a
// record once its TTL passes and the next lookup reports a miss. There is
// no eviction goroutine and no compare-and-set; the last writer of a key
// wins.
//
// The disk backend holds a directory lock, so only one process can use a
// given cache directory at a time. The memory backend is private to the
// process.
package cache
