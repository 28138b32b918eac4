// Package filesystem provides the filesystem seam used for reading the
// device tree and rewriting JSON configuration.
//
// Both the host and the in-memory test filesystems are afero backed, so
// fake sysfs trees in tests go through the same code as /sys.
package filesystem
