package sysfs

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
)

// Base attribute files read for each ilk. Missing files are skipped.
var (
	usbAttributes = []string{
		"idVendor", "idProduct", "busnum", "devnum", "devpath",
		"manufacturer", "product", "serial", "speed", "bDeviceClass",
	}
	pciAttributes = []string{
		"class", "subsystem_vendor", "subsystem_device", "revision",
	}
)

// pciRootPattern matches host bridge directories such as pci0000:00 which
// carry no marker files but lead to PCI functions.
var pciRootPattern = regexp.MustCompile(`^pci[0-9a-fA-F]{4}:[0-9a-fA-F]{2}$`)

const maxTTYDepth = 6

// Extractor reads attributes and tree structure below a fixed root
type Extractor struct {
	fs     filesystem.FS
	root   string
	logger zerolog.Logger
}

// NewExtractor creates an extractor for the tree rooted at root
func NewExtractor(fsys filesystem.FS, root string) *Extractor {
	return &Extractor{
		fs:     fsys,
		root:   filepath.Clean(root),
		logger: logging.GetLogger("sysfs.extractor"),
	}
}

// Root returns the tree root
func (e *Extractor) Root() string {
	return e.root
}

// Ilk probes the marker files of path
func (e *Extractor) Ilk(path string) Ilk {
	if e.exists(path, "idVendor") && e.exists(path, "idProduct") {
		return IlkUSB
	}
	if e.exists(path, "vendor") && e.exists(path, "device") {
		return IlkPCI
	}
	return IlkOther
}

// IsDevice reports whether path is a usb or pci node
func (e *Extractor) IsDevice(path string) bool {
	return e.Ilk(path) != IlkOther
}

// ReadAttribute returns the trimmed content of path/name. ok is false when
// the attribute file does not exist.
func (e *Extractor) ReadAttribute(path, name string) (value string, ok bool, err error) {
	data, err := e.fs.ReadFile(filepath.Join(path, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to read attribute %s of %s", name, path)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Extract builds the base record of path: ilk, node_id, location fields
// and the ilk specific attribute set.
func (e *Extractor) Extract(path string) (map[string]string, error) {
	path = filepath.Clean(path)
	if _, err := e.fs.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "no device node at %s", path)
	}

	ilk := e.Ilk(path)
	record := map[string]string{
		FieldIlk:     string(ilk),
		FieldDirpath: path,
		FieldDirname: filepath.Base(path),
	}

	var vendor, product string
	switch ilk {
	case IlkUSB:
		if err := e.readInto(record, path, usbAttributes); err != nil {
			return nil, err
		}
		vendor, product = record[FieldIDVendor], record[FieldIDProduct]
	case IlkPCI:
		if err := e.readInto(record, path, pciAttributes); err != nil {
			return nil, err
		}
		v, _, err := e.ReadAttribute(path, "vendor")
		if err != nil {
			return nil, err
		}
		d, _, err := e.ReadAttribute(path, "device")
		if err != nil {
			return nil, err
		}
		vendor, product = stripHexPrefix(v), stripHexPrefix(d)
		record[FieldIDVendor] = vendor
		record[FieldIDProduct] = product
		record[FieldSlot] = filepath.Base(path)
	}
	record[FieldNodeID] = NodeID(ilk, vendor, product)

	e.logger.Trace().
		Str("path", path).
		Str("nodeID", record[FieldNodeID]).
		Msg("Extracted base attributes")

	return record, nil
}

func (e *Extractor) readInto(record map[string]string, path string, names []string) error {
	for _, name := range names {
		value, ok, err := e.ReadAttribute(path, name)
		if err != nil {
			return err
		}
		if ok {
			record[name] = value
		}
	}
	return nil
}

// Parent returns the parent of path. ok is false once the parent would be
// the tree root or path lies outside the tree.
func (e *Extractor) Parent(path string) (string, bool) {
	path = filepath.Clean(path)
	if !e.within(path) {
		return "", false
	}
	parent := filepath.Dir(path)
	if parent == e.root || !e.within(parent) {
		return "", false
	}
	return parent, true
}

// Children lists the device directories directly below path
func (e *Extractor) Children(path string) ([]string, error) {
	entries, err := e.fs.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", path)
	}

	var children []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(path, entry.Name())
		if e.IsDevice(child) {
			children = append(children, child)
		}
	}
	return children, nil
}

// Walk lists every device node below start in depth-first name order.
// Host bridge directories are traversed but not reported.
func (e *Extractor) Walk(start string) ([]string, error) {
	var nodes []string
	var visit func(dir string) error
	visit = func(dir string) error {
		entries, err := e.fs.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			child := filepath.Join(dir, entry.Name())
			switch {
			case e.IsDevice(child):
				nodes = append(nodes, child)
				if err := visit(child); err != nil {
					return err
				}
			case pciRootPattern.MatchString(entry.Name()):
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := visit(filepath.Clean(start)); err != nil {
		return nil, err
	}
	return nodes, nil
}

// TTYNode is a tty class device found below a device node
type TTYNode struct {
	Name  string
	Major int
	Minor int
}

// FindTTYs searches the interfaces of path for tty class devices. Nested
// devices (for example the ports of a hub) are not searched.
func (e *Extractor) FindTTYs(path string) ([]TTYNode, error) {
	var found []TTYNode
	seen := map[string]bool{}

	var visit func(dir string, depth int) error
	visit = func(dir string, depth int) error {
		if depth > maxTTYDepth {
			return nil
		}
		entries, err := e.fs.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			child := filepath.Join(dir, entry.Name())
			if e.IsDevice(child) {
				continue
			}
			name := entry.Name()
			if strings.HasPrefix(name, "tty") && name != "tty" && !seen[name] {
				if node, ok := e.readTTY(child, name); ok {
					seen[name] = true
					found = append(found, node)
				}
			}
			if err := visit(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(filepath.Clean(path), 0); err != nil {
		return nil, err
	}
	return found, nil
}

func (e *Extractor) readTTY(dir, name string) (TTYNode, bool) {
	dev, ok, err := e.ReadAttribute(dir, "dev")
	if err != nil || !ok {
		return TTYNode{}, false
	}
	majorText, minorText, found := strings.Cut(dev, ":")
	if !found {
		return TTYNode{}, false
	}
	major, err := strconv.Atoi(majorText)
	if err != nil {
		return TTYNode{}, false
	}
	minor, err := strconv.Atoi(minorText)
	if err != nil {
		return TTYNode{}, false
	}
	return TTYNode{Name: name, Major: major, Minor: minor}, true
}

func (e *Extractor) exists(path, name string) bool {
	_, err := e.fs.Stat(filepath.Join(path, name))
	return err == nil
}

func (e *Extractor) within(path string) bool {
	rel, err := filepath.Rel(e.root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, "../")
}
