package classifier

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/cache"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/hosttools"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/metrics"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/registry"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/sysfs"
)

// Record is an open attribute map that grows as fields are augmented
type Record map[string]string

// Clone returns an independent copy
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Augmenter computes one or more fields of record in place
type Augmenter func(ctx context.Context, path string, record Record) error

// Options are the collaborators of a Classifier
type Options struct {
	FS    filesystem.FS
	Root  string
	Store cache.Store
	Tools *hosttools.Tools
	TTL   time.Duration
	// DevDir is listed to turn major:minor into a special file
	DevDir string
	// SerialByIDDir holds the persistent serial symlinks; may be empty
	SerialByIDDir string
	// Workers bounds ClassifyAll, default 8
	Workers int
}

// Classifier builds and caches classification records. It is safe for
// concurrent use.
type Classifier struct {
	fs         filesystem.FS
	extractor  *sysfs.Extractor
	store      cache.Store
	tools      *hosttools.Tools
	ttl        time.Duration
	devDir     string
	byIDDir    string
	workers    int
	augmenters *registry.Registry[Augmenter]
	logger     zerolog.Logger
	now        func() time.Time

	memoMu    sync.Mutex
	nodepaths map[string]memoEntry

	inventoryGroup singleflight.Group
	inventoryMu    sync.Mutex
	inventory      hosttools.PCIInventory
	inventoryAt    time.Time
}

type memoEntry struct {
	value string
	at    time.Time
}

// New creates a classifier with the default augmenters registered
func New(opts Options) *Classifier {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.DevDir == "" {
		opts.DevDir = "/dev"
	}

	c := &Classifier{
		fs:         opts.FS,
		extractor:  sysfs.NewExtractor(opts.FS, opts.Root),
		store:      opts.Store,
		tools:      opts.Tools,
		ttl:        opts.TTL,
		devDir:     opts.DevDir,
		byIDDir:    opts.SerialByIDDir,
		workers:    opts.Workers,
		augmenters: registry.New[Augmenter](),
		logger:     logging.GetLogger("classifier"),
		now:        time.Now,
		nodepaths:  make(map[string]memoEntry),
	}
	c.registerDefaults()
	return c
}

func (c *Classifier) registerDefaults() {
	registry.MustRegister(c.augmenters, c.augmentTTY, sysfs.FieldTTY, sysfs.FieldTTYSymlink)
	registry.MustRegister(c.augmenters, c.augmentNodepath, sysfs.FieldNodepath)
	registry.MustRegister(c.augmenters, c.augmentUSBVerbose, usbVerboseFields...)
}

// Register adds an augmenter filling fields. Requesting any of them runs
// it once; fields it leaves unset are recorded as empty.
func (c *Classifier) Register(augmenter Augmenter, fields ...string) error {
	return c.augmenters.Register(augmenter, fields...)
}

// Fields lists the fields that can be requested as extras
func (c *Classifier) Fields() []string {
	return c.augmenters.Names()
}

// Extractor exposes the underlying tree reader
func (c *Classifier) Extractor() *sysfs.Extractor {
	return c.extractor
}

// GetDeviceData returns the record of path with at least extraFields
// present. A field name with no augmenter is a CONFIGURATION error.
func (c *Classifier) GetDeviceData(ctx context.Context, path string, extraFields ...string) (Record, error) {
	path = filepath.Clean(path)

	var record Record
	dirty := false
	cached, err := c.store.Get(ctx, path)
	switch {
	case err == nil:
		record = Record(cached)
	case errors.IsErrorCode(err, errors.ErrCacheMiss):
		record, err = c.build(ctx, path)
		if err != nil {
			return nil, err
		}
		dirty = true
	default:
		return nil, err
	}

	var missing []string
	for _, field := range extraFields {
		if _, ok := record[field]; !ok {
			missing = append(missing, field)
		}
	}

	switch {
	case dirty:
		metrics.CacheLookups.WithLabelValues(metrics.ResultMiss).Inc()
	case len(missing) > 0:
		metrics.CacheLookups.WithLabelValues(metrics.ResultPartial).Inc()
	default:
		metrics.CacheLookups.WithLabelValues(metrics.ResultHit).Inc()
		return record, nil
	}

	for _, field := range missing {
		if _, ok := record[field]; ok {
			continue
		}
		augment, group, err := c.augmenters.Lookup(field)
		if err != nil {
			return nil, errors.Newf(errors.ErrConfiguration, "no augmenter registered for field %q", field).
				WithDetail("field", field)
		}
		if err := augment(ctx, path, record); err != nil {
			return nil, err
		}
		for _, name := range group {
			if _, ok := record[name]; !ok {
				record[name] = ""
			}
		}
		metrics.Augmentations.WithLabelValues(field).Inc()
	}

	if err := c.store.Set(ctx, path, record, c.ttl); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("path", path).
		Str("nodeID", record[sysfs.FieldNodeID]).
		Strs("augmented", missing).
		Bool("built", dirty).
		Msg("Classified device")

	return record, nil
}

// build reads the base record and, for PCI functions, merges the lspci
// inventory entry under canonical names
func (c *Classifier) build(ctx context.Context, path string) (Record, error) {
	base, err := c.extractor.Extract(path)
	if err != nil {
		return nil, err
	}
	record := Record(base)

	if record[sysfs.FieldIlk] == string(sysfs.IlkPCI) {
		inventory, err := c.pciInventory(ctx)
		if err != nil {
			return nil, err
		}
		if entry, ok := inventory[record[sysfs.FieldSlot]]; ok {
			for key, value := range entry {
				if canonical, ok := pciKeyNames[key]; ok {
					record[canonical] = value
				}
			}
		}
	}

	return record, nil
}

// pciKeyNames maps lspci -vmm keys onto record fields
var pciKeyNames = map[string]string{
	"Slot":     sysfs.FieldSlot,
	"Vendor":   sysfs.FieldVendor,
	"Device":   sysfs.FieldProductText,
	"Class":    sysfs.FieldDeviceClass,
	"SVendor":  "subsystem_vendor_text",
	"SDevice":  "subsystem_device_text",
	"NUMANode": "numa_node",
	"ProgIf":   "prog_if",
	"Rev":      "revision",
}

// pciInventory runs lspci at most once per TTL window. Concurrent first
// callers share one run.
func (c *Classifier) pciInventory(ctx context.Context) (hosttools.PCIInventory, error) {
	if inventory, ok := c.freshInventory(); ok {
		return inventory, nil
	}

	v, err, _ := c.inventoryGroup.Do("lspci", func() (interface{}, error) {
		if inventory, ok := c.freshInventory(); ok {
			return inventory, nil
		}
		inventory, err := c.tools.PCIInventory(ctx)
		if err != nil {
			return nil, err
		}
		c.inventoryMu.Lock()
		c.inventory = inventory
		c.inventoryAt = c.now()
		c.inventoryMu.Unlock()
		return inventory, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(hosttools.PCIInventory), nil
}

func (c *Classifier) freshInventory() (hosttools.PCIInventory, bool) {
	c.inventoryMu.Lock()
	defer c.inventoryMu.Unlock()
	if c.inventory != nil && c.now().Sub(c.inventoryAt) < c.ttl {
		return c.inventory, true
	}
	return nil, false
}

// Invalidate drops the cached record and nodepath of path
func (c *Classifier) Invalidate(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	c.memoMu.Lock()
	delete(c.nodepaths, path)
	c.memoMu.Unlock()
	return c.store.Delete(ctx, path)
}

// NodeID returns the node id of path through the cache
func (c *Classifier) NodeID(ctx context.Context, path string) (string, error) {
	record, err := c.GetDeviceData(ctx, path)
	if err != nil {
		return "", err
	}
	return record[sysfs.FieldNodeID], nil
}

// Parent returns the parent of path below the tree root
func (c *Classifier) Parent(path string) (string, bool) {
	return c.extractor.Parent(path)
}

// Children returns the device paths directly below path
func (c *Classifier) Children(path string) ([]string, error) {
	return c.extractor.Children(path)
}

// Walk lists the device nodes below root in depth-first name order. An
// empty root means the whole tree.
func (c *Classifier) Walk(ctx context.Context, root string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == "" {
		root = c.extractor.Root()
	}
	return c.extractor.Walk(root)
}

// ClassifyAll classifies paths concurrently. Results keep the order of
// paths; the first failure cancels the rest.
func (c *Classifier) ClassifyAll(ctx context.Context, paths []string, extraFields ...string) ([]Record, error) {
	done := logging.LogOperationStart(c.logger, "classify_all")
	defer done()

	records := make([]Record, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			record, err := c.GetDeviceData(gctx, path, extraFields...)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
