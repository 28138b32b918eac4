package testutil

// LspciOutput is lspci -D -vmm for StandardTree
const LspciOutput = `Slot:	0000:00:14.0
Class:	USB controller
Vendor:	Intel Corporation
Device:	Cannon Lake PCH USB 3.1 xHCI Host Controller
SVendor:	Dell
SDevice:	Device 0869
Rev:	10
ProgIf:	30
NUMANode:	0

Slot:	0000:00:17.0
Class:	SATA controller
Vendor:	Intel Corporation
Device:	Cannon Lake Mobile PCH SATA AHCI Controller
Rev:	10
ProgIf:	01
`

// LsusbSerialOutput is lsusb -v for a CH340 adapter
const LsusbSerialOutput = `
Bus 001 Device 005: ID 1a86:7523 QinHeng Electronics CH340 serial converter
Device Descriptor:
  bDeviceClass          255 Vendor Specific Class
  idVendor           0x1a86 QinHeng Electronics
  idProduct          0x7523 CH340 serial converter
    Interface Descriptor:
      bInterfaceClass       255 Vendor Specific Class
`

// LsusbRootHubOutput is lsusb -v for the root hub of StandardTree
const LsusbRootHubOutput = `
Bus 001 Device 001: ID 1d6b:0002 Linux Foundation 2.0 root hub
Device Descriptor:
  bDeviceClass            9 Hub
  idVendor           0x1d6b Linux Foundation
  idProduct          0x0002 2.0 root hub
    Interface Descriptor:
      bInterfaceClass         9 Hub
`

// LsusbHubOutput is lsusb -v for the external hub of StandardTree
const LsusbHubOutput = `
Bus 001 Device 002: ID 05e3:0610 Genesys Logic, Inc. Hub
Device Descriptor:
  bDeviceClass            9 Hub
  idVendor           0x05e3 Genesys Logic, Inc.
  idProduct          0x0610 Hub
    Interface Descriptor:
      bInterfaceClass         9 Hub
`

// LsDevOutput is ls -l /dev listing the three adapters of StandardTree
const LsDevOutput = `total 0
crw-rw---- 1 root dialout 188,   0 Oct 16 10:00 ttyUSB0
crw-rw---- 1 root dialout 188,   1 Oct 16 10:00 ttyUSB1
crw-rw---- 1 root dialout 188,   2 Oct 16 10:00 ttyUSB2
crw--w---- 1 root tty       4,   0 Oct 16 10:00 tty0
`

// LsSerialByIDOutput is ls -l /dev/serial/by-id
const LsSerialByIDOutput = `total 0
lrwxrwxrwx 1 root root 13 Oct 16 10:00 usb-1a86_USB_Serial-if00-port0 -> ../../ttyUSB0
`

// ScriptStandard scripts the commands StandardTree classification needs
func (f *FakeRunner) ScriptStandard() *FakeRunner {
	return f.
		On("lspci -D -vmm", LspciOutput).
		On("lsusb -v -s 001:001", LsusbRootHubOutput).
		On("lsusb -v -s 001:002", LsusbHubOutput).
		On("lsusb -v -s 001:005", LsusbSerialOutput).
		On("lsusb -v -s 001:006", LsusbSerialOutput).
		On("lsusb -v -s 001:003", LsusbSerialOutput).
		On("ls -l /dev", LsDevOutput).
		On("ls -l /dev/serial/by-id", LsSerialByIDOutput)
}
