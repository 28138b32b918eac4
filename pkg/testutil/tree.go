package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
)

// DefaultRoot is the root used by NewTree
const DefaultRoot = "/sys/devices"

// Tree builds a fake device tree on an in-memory filesystem
type Tree struct {
	FS   filesystem.FS
	Root string
	t    testing.TB
}

// NewTree returns an empty tree rooted at DefaultRoot
func NewTree(t testing.TB) *Tree {
	t.Helper()
	tree := &Tree{FS: filesystem.NewMemory(), Root: DefaultRoot, t: t}
	tree.Dir("")
	return tree
}

// Path joins rel onto the root
func (tr *Tree) Path(rel string) string {
	return filepath.Join(tr.Root, rel)
}

// Dir creates a plain directory and returns its path
func (tr *Tree) Dir(rel string) string {
	tr.t.Helper()
	path := tr.Path(rel)
	require.NoError(tr.t, tr.FS.MkdirAll(path, 0755))
	return path
}

// Attr writes an attribute file with a trailing newline, as sysfs does
func (tr *Tree) Attr(rel, name, value string) {
	tr.t.Helper()
	dir := tr.Dir(rel)
	require.NoError(tr.t, tr.FS.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0644))
}

// USB creates a USB device node
func (tr *Tree) USB(rel, vendor, product string, busnum, devnum int) string {
	tr.t.Helper()
	tr.Attr(rel, "idVendor", vendor)
	tr.Attr(rel, "idProduct", product)
	tr.Attr(rel, "busnum", fmt.Sprint(busnum))
	tr.Attr(rel, "devnum", fmt.Sprint(devnum))
	return tr.Path(rel)
}

// PCI creates a PCI function node with the 0x prefixed id files
func (tr *Tree) PCI(rel, vendor, device string) string {
	tr.t.Helper()
	tr.Attr(rel, "vendor", "0x"+vendor)
	tr.Attr(rel, "device", "0x"+device)
	tr.Attr(rel, "class", "0x0c0330")
	return tr.Path(rel)
}

// SerialPort adds a usb-serial style tty below the interface iface of the
// device at devRel: iface/<name>/tty/<name>/dev
func (tr *Tree) SerialPort(devRel, iface, name string, major, minor int) {
	tr.t.Helper()
	tr.Attr(filepath.Join(devRel, iface, name), "port_number", "0")
	tr.Attr(filepath.Join(devRel, iface, name, "tty", name), "dev", fmt.Sprintf("%d:%d", major, minor))
}

// Standard tree paths, relative to the root
const (
	HostBridge    = "pci0000:00"
	XHCI          = "pci0000:00/0000:00:14.0"
	RootHub       = XHCI + "/usb1"
	Hub           = RootHub + "/1-1"
	HubPort2      = Hub + "/1-1.2"
	HubPort3      = Hub + "/1-1.3"
	DirectSerial  = RootHub + "/1-2"
	SATA          = "pci0000:00/0000:00:17.0"
	SerialVendor  = "1a86"
	SerialProduct = "7523"
)

// StandardTree builds an xHCI controller with a root hub, an external hub
// carrying two CH340 serial adapters and a third adapter plugged in
// directly.
func StandardTree(t testing.TB) *Tree {
	t.Helper()
	tree := NewTree(t)
	tree.Dir(HostBridge)
	tree.PCI(XHCI, "8086", "a36d")
	tree.PCI(SATA, "8086", "a352")
	tree.USB(RootHub, "1d6b", "0002", 1, 1)
	tree.Attr(RootHub+"/1-0:1.0", "bInterfaceClass", "09")
	tree.USB(Hub, "05e3", "0610", 1, 2)
	tree.USB(HubPort2, SerialVendor, SerialProduct, 1, 5)
	tree.SerialPort(HubPort2, "1-1.2:1.0", "ttyUSB0", 188, 0)
	tree.USB(HubPort3, SerialVendor, SerialProduct, 1, 6)
	tree.SerialPort(HubPort3, "1-1.3:1.0", "ttyUSB1", 188, 1)
	tree.USB(DirectSerial, SerialVendor, SerialProduct, 1, 3)
	tree.SerialPort(DirectSerial, "1-2:1.0", "ttyUSB2", 188, 2)
	return tree
}
