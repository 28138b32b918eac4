// Package registry maps names to items behind a read-write lock.
//
// A single registration may claim several names. Lookup of any one of them
// returns the shared item together with the whole group, which lets the
// classifier run one augmenter for all the fields it produces.
package registry
