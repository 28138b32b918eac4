// Package classifier turns a volatile device path into a durable attribute
// record.
//
// GetDeviceData reads the base record from the device tree on a cache
// miss, then fills requested extra fields through a registry of
// augmenters and writes the whole record back under the classifier's TTL.
// A cached record that already holds every requested field is returned
// without running any command.
//
// Default augmenters:
//
//	tty, tty_symlink      serial special file found through major:minor
//	nodepath              node ids from the top of the tree down to the node
//	vendor, product_text,
//	device_class,
//	interface_class_list  one lsusb -v run per USB device
//
// The classifier also implements selector.Tree so that selectors read node
// ids through the cache.
package classifier
