// Package sysfs reads raw device attributes from the device tree.
//
// Each node of the tree is a directory. Its ilk is decided by marker
// files: idVendor and idProduct mark a USB device, vendor and device a PCI
// function, anything else is "other". Attribute values are the trimmed
// contents of per-attribute files.
//
// The package also knows the tree shape: parents stop below the configured
// root, children are the device directories one level down, and tty class
// devices are found beneath a USB device's interfaces.
package sysfs
