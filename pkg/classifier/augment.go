package classifier

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/sysfs"
)

var usbVerboseFields = []string{
	sysfs.FieldVendor,
	sysfs.FieldProductText,
	sysfs.FieldDeviceClass,
	sysfs.FieldInterfaceClassList,
}

// augmentTTY resolves the serial special file of a USB device. Devices
// without bus numbers or without a tty get empty values.
func (c *Classifier) augmentTTY(ctx context.Context, path string, record Record) error {
	record[sysfs.FieldTTY] = ""
	record[sysfs.FieldTTYSymlink] = ""

	if record[sysfs.FieldIlk] != string(sysfs.IlkUSB) {
		return nil
	}
	if record[sysfs.FieldBusnum] == "" || record[sysfs.FieldDevnum] == "" {
		return nil
	}

	ttys, err := c.extractor.FindTTYs(path)
	if err != nil || len(ttys) == 0 {
		return err
	}

	entries, err := c.tools.List(ctx, c.devDir)
	if err != nil {
		return err
	}

	var name string
	for _, tty := range ttys {
		for _, entry := range entries {
			if entry.Type == 'c' && entry.Major == tty.Major && entry.Minor == tty.Minor {
				name = entry.Name
				break
			}
		}
		if name != "" {
			break
		}
	}
	if name == "" {
		c.logger.Debug().
			Str("path", path).
			Str("tty", ttys[0].Name).
			Msg("tty has no special file")
		return nil
	}
	record[sysfs.FieldTTY] = filepath.Join(c.devDir, name)

	if c.byIDDir == "" {
		return nil
	}
	if _, err := c.fs.Stat(c.byIDDir); err != nil {
		return nil
	}
	links, err := c.tools.List(ctx, c.byIDDir)
	if err != nil {
		return err
	}
	for _, link := range links {
		if link.Type == 'l' && filepath.Base(link.Target) == name {
			record[sysfs.FieldTTYSymlink] = filepath.Join(c.byIDDir, link.Name)
			break
		}
	}
	return nil
}

// augmentNodepath walks up from path until it reaches a memoized node or
// the top of the tree, then resolves node ids on the way back down.
func (c *Classifier) augmentNodepath(ctx context.Context, path string, record Record) error {
	var pending []string
	prefix := ""

	cur := path
	for {
		if value, ok := c.memoized(cur); ok {
			prefix = value
			break
		}
		pending = append(pending, cur)
		parent, ok := c.extractor.Parent(cur)
		if !ok {
			break
		}
		cur = parent
	}

	for i := len(pending) - 1; i >= 0; i-- {
		var nodeID string
		if pending[i] == path {
			nodeID = record[sysfs.FieldNodeID]
		} else {
			id, err := c.NodeID(ctx, pending[i])
			if err != nil {
				return err
			}
			nodeID = id
		}
		if prefix == "" {
			prefix = nodeID
		} else {
			prefix = prefix + "/" + nodeID
		}
		c.memoize(pending[i], prefix)
	}

	record[sysfs.FieldNodepath] = prefix
	return nil
}

func (c *Classifier) memoized(path string) (string, bool) {
	c.memoMu.Lock()
	defer c.memoMu.Unlock()
	entry, ok := c.nodepaths[path]
	if !ok {
		return "", false
	}
	if c.ttl > 0 && c.now().Sub(entry.at) >= c.ttl {
		delete(c.nodepaths, path)
		return "", false
	}
	return entry.value, true
}

func (c *Classifier) memoize(path, nodepath string) {
	c.memoMu.Lock()
	defer c.memoMu.Unlock()
	c.nodepaths[path] = memoEntry{value: nodepath, at: c.now()}
}

// augmentUSBVerbose fills the four descriptive fields from one lsusb run.
// Other ilks get empty values for whatever they lack.
func (c *Classifier) augmentUSBVerbose(ctx context.Context, path string, record Record) error {
	fillEmpty := func() {
		for _, field := range usbVerboseFields {
			if _, ok := record[field]; !ok {
				record[field] = ""
			}
		}
	}

	if record[sysfs.FieldIlk] != string(sysfs.IlkUSB) {
		fillEmpty()
		return nil
	}
	busnum, err1 := strconv.Atoi(strings.TrimSpace(record[sysfs.FieldBusnum]))
	devnum, err2 := strconv.Atoi(strings.TrimSpace(record[sysfs.FieldDevnum]))
	if err1 != nil || err2 != nil {
		fillEmpty()
		return nil
	}

	details, err := c.tools.USBVerbose(ctx, busnum, devnum)
	if err != nil {
		return err
	}
	record[sysfs.FieldVendor] = details.Vendor
	record[sysfs.FieldProductText] = details.ProductText
	record[sysfs.FieldDeviceClass] = details.DeviceClass
	record[sysfs.FieldInterfaceClassList] = details.InterfaceClassList()
	return nil
}
