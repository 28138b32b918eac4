package hosttools

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

// PCIInventory maps a PCI slot (e.g. 0000:00:14.0) to its lspci -vmm keys
type PCIInventory map[string]map[string]string

// ParsePCIInventory parses lspci -D -vmm output: blocks separated by blank
// lines, each line "Key:\tvalue". Blocks without a Slot are dropped.
func ParsePCIInventory(text string) PCIInventory {
	inventory := PCIInventory{}
	block := map[string]string{}

	flush := func() {
		if slot, ok := block["Slot"]; ok && slot != "" {
			inventory[slot] = block
		}
		block = map[string]string{}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		block[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	flush()

	return inventory
}

// USBDetails holds the fields read from lsusb -v for one device
type USBDetails struct {
	IDVendor         string
	IDProduct        string
	Vendor           string
	ProductText      string
	DeviceClass      string
	InterfaceClasses []string
}

// InterfaceClassList joins the interface classes with commas
func (d USBDetails) InterfaceClassList() string {
	return strings.Join(d.InterfaceClasses, ",")
}

// descriptorLine matches "  idVendor   0x1a86 QinHeng Electronics"
var descriptorLine = regexp.MustCompile(`^\s*(idVendor|idProduct|bDeviceClass|bInterfaceClass)\s+(\S+)\s*(.*)$`)

// ParseUSBVerbose parses lsusb -v -s BUS:DEV output. The text after a
// numeric code is used as the value; a bare code is used as is.
func ParseUSBVerbose(text string) USBDetails {
	var details USBDetails

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		m := descriptorLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		code, description := m[2], strings.TrimSpace(m[3])
		switch m[1] {
		case "idVendor":
			details.IDVendor = strings.TrimPrefix(code, "0x")
			details.Vendor = description
		case "idProduct":
			details.IDProduct = strings.TrimPrefix(code, "0x")
			details.ProductText = description
		case "bDeviceClass":
			details.DeviceClass = describe(code, description)
		case "bInterfaceClass":
			details.InterfaceClasses = append(details.InterfaceClasses, describe(code, description))
		}
	}

	return details
}

func describe(code, description string) string {
	if description != "" {
		return description
	}
	return code
}

// Entry is one line of an ls -l listing
type Entry struct {
	Type   byte
	Name   string
	Major  int
	Minor  int
	Target string
}

var (
	// crw-rw---- 1 root dialout 188,   0 Oct 16 10:00 ttyUSB0
	charDeviceLine = regexp.MustCompile(`^c\S*\s+\d+\s+\S+\s+\S+\s+(\d+),\s*(\d+)\s+.*\s(\S+)$`)
	// lrwxrwxrwx 1 root root 13 Oct 16 10:00 usb-1a86_USB_Serial-if00-port0 -> ../../ttyUSB0
	symlinkLine = regexp.MustCompile(`^l\S*\s+.*\s(\S+) -> (\S+)$`)
)

// ParseListing extracts character devices and symlinks from ls -l output.
// Other lines are ignored.
func ParseListing(text string) []Entry {
	var entries []Entry

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if m := charDeviceLine.FindStringSubmatch(line); m != nil {
			major, _ := strconv.Atoi(m[1])
			minor, _ := strconv.Atoi(m[2])
			entries = append(entries, Entry{Type: 'c', Name: m[3], Major: major, Minor: minor})
			continue
		}
		if m := symlinkLine.FindStringSubmatch(line); m != nil {
			entries = append(entries, Entry{Type: 'l', Name: m[1], Target: m[2]})
		}
	}

	return entries
}
