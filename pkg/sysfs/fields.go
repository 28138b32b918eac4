package sysfs

import (
	"fmt"
	"regexp"
	"strings"
)

// Ilk is the device family of a tree node
type Ilk string

const (
	IlkUSB   Ilk = "usb"
	IlkPCI   Ilk = "pci"
	IlkOther Ilk = "other"
)

// UnknownCode fills the vendor and product slots of nodes that have none
const UnknownCode = "????"

// Record keys shared by the extractor, the classifier and label templates
const (
	FieldIlk                = "ilk"
	FieldNodeID             = "node_id"
	FieldDirpath            = "dirpath"
	FieldDirname            = "dirname"
	FieldIDVendor           = "idVendor"
	FieldIDProduct          = "idProduct"
	FieldBusnum             = "busnum"
	FieldDevnum             = "devnum"
	FieldVendor             = "vendor"
	FieldProductText        = "product_text"
	FieldDeviceClass        = "device_class"
	FieldInterfaceClassList = "interface_class_list"
	FieldTTY                = "tty"
	FieldTTYSymlink         = "tty_symlink"
	FieldNodepath           = "nodepath"
	FieldSlot               = "slot"
)

var nodeIDPattern = regexp.MustCompile(`^(usb|pci|other)\(([0-9a-fA-F?]{4}):([0-9a-fA-F?]{4})\)$`)

// NodeID formats the canonical device kind identity ilk(vendor:product)
func NodeID(ilk Ilk, vendor, product string) string {
	if vendor == "" {
		vendor = UnknownCode
	}
	if product == "" {
		product = UnknownCode
	}
	return fmt.Sprintf("%s(%s:%s)", ilk, vendor, product)
}

// ValidNodeID reports whether s has the ilk(vvvv:pppp) shape
func ValidNodeID(s string) bool {
	return nodeIDPattern.MatchString(s)
}

// ParseNodeID splits a node id into its parts
func ParseNodeID(s string) (ilk Ilk, vendor, product string, ok bool) {
	m := nodeIDPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", "", false
	}
	return Ilk(m[1]), m[2], m[3], true
}

// stripHexPrefix turns the PCI "0x8086" file format into "8086"
func stripHexPrefix(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
}
