// Package testutil provides fixtures shared by the package tests: an
// in-memory device tree builder and a scripted command runner.
//
// Usage guidelines:
//   - Build trees with NewTree and the USB/PCI helpers, never on the host
//   - StandardTree gives the hub and serial adapter layout most tests need
//   - FakeRunner records every command line so tests can assert that a
//     cache hit ran nothing
package testutil
