package alias

import (
	"context"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/jsonstore"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/selector"
)

var validate = validator.New()

// document is the on-disk shape of aliases.json
type document map[string]Alias

// Table is the alias table backed by a JSON file. It loads lazily and
// every mutation rewrites the file before returning.
type Table struct {
	store  *jsonstore.File[document]
	logger zerolog.Logger

	mu      sync.RWMutex
	loaded  bool
	aliases map[string]Alias
}

// NewTable creates a table stored at path, seeded from defaults
func NewTable(fsys filesystem.FS, path string, defaults []byte) *Table {
	return &Table{
		store:  jsonstore.New[document](fsys, path, defaults),
		logger: logging.GetLogger("alias.table"),
	}
}

// Path returns the JSON file location
func (t *Table) Path() string {
	return t.store.Path()
}

// Reload discards the in-memory table and reads the file again
func (t *Table) Reload() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked()
}

func (t *Table) ensureLoaded() error {
	t.mu.RLock()
	loaded := t.loaded
	t.mu.RUnlock()
	if loaded {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		return nil
	}
	return t.loadLocked()
}

func (t *Table) loadLocked() error {
	doc, err := t.store.Load()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	aliases := make(map[string]Alias, len(doc))
	written := make(map[string]string, len(doc))
	for _, key := range keys {
		a := doc[key]
		sel, err := selector.Parse(key)
		if err != nil {
			return err
		}
		if err := validate.Struct(a); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "invalid alias %q in %s", key, t.store.Path())
		}
		canonical := sel.String()
		if first, dup := written[canonical]; dup {
			return errors.Newf(errors.ErrConfigParse, "aliases %q and %q in %s are the same selector",
				first, key, t.store.Path()).
				WithDetail("selector", canonical)
		}
		written[canonical] = key
		a.Selector = sel
		aliases[canonical] = a
	}

	t.aliases = aliases
	t.loaded = true
	t.logger.Debug().Int("aliases", len(aliases)).Msg("Loaded alias table")
	return nil
}

// List returns every alias in resolution order
func (t *Table) List() ([]Alias, error) {
	if err := t.ensureLoaded(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	list := make([]Alias, 0, len(t.aliases))
	for _, a := range t.aliases {
		list = append(list, a)
	}
	Sort(list)
	return list, nil
}

// Get returns the alias stored under a selector
func (t *Table) Get(key string) (*Alias, error) {
	sel, err := selector.Parse(key)
	if err != nil {
		return nil, err
	}
	if err := t.ensureLoaded(); err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.aliases[sel.String()]
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "no alias for %s", sel)
	}
	return &a, nil
}

// Put adds or replaces the alias stored under a selector
func (t *Table) Put(key string, a Alias) error {
	sel, err := selector.Parse(key)
	if err != nil {
		return err
	}
	if err := validate.Struct(a); err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "invalid alias")
	}
	if err := t.ensureLoaded(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	a.Selector = sel
	next := t.copyLocked()
	next[sel.String()] = a
	if err := t.saveLocked(next); err != nil {
		return err
	}
	t.logger.Info().Str("selector", sel.String()).Str("label", a.Label).Msg("Alias stored")
	return nil
}

// Delete removes the alias stored under a selector
func (t *Table) Delete(key string) error {
	sel, err := selector.Parse(key)
	if err != nil {
		return err
	}
	if err := t.ensureLoaded(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.aliases[sel.String()]; !ok {
		return errors.Newf(errors.ErrNotFound, "no alias for %s", sel)
	}
	next := t.copyLocked()
	delete(next, sel.String())
	if err := t.saveLocked(next); err != nil {
		return err
	}
	t.logger.Info().Str("selector", sel.String()).Msg("Alias deleted")
	return nil
}

func (t *Table) copyLocked() map[string]Alias {
	next := make(map[string]Alias, len(t.aliases)+1)
	for k, v := range t.aliases {
		next[k] = v
	}
	return next
}

// saveLocked writes next and installs it only when the write succeeded
func (t *Table) saveLocked(next map[string]Alias) error {
	if err := t.store.Save(document(next)); err != nil {
		return err
	}
	t.aliases = next
	return nil
}

// Resolve finds the alias of the device at path with the given node id
func (t *Table) Resolve(ctx context.Context, tree selector.Tree, nodeID, path string) (*Alias, error) {
	list, err := t.List()
	if err != nil {
		return nil, err
	}
	return Resolve(ctx, tree, list, nodeID, path)
}

// ResolveAll resolves every path, looking node ids up through tree. Paths
// without an alias are absent from the result.
func (t *Table) ResolveAll(ctx context.Context, tree selector.Tree, paths []string) (map[string]*Alias, error) {
	list, err := t.List()
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]*Alias)
	for _, path := range paths {
		nodeID, err := tree.NodeID(ctx, path)
		if err != nil {
			return nil, err
		}
		a, err := Resolve(ctx, tree, list, nodeID, path)
		if err != nil {
			return nil, err
		}
		if a != nil {
			resolved[path] = a
		}
	}
	return resolved, nil
}

// Watch reloads the table whenever its file changes, until ctx is done.
// onReload, when not nil, runs after each successful reload.
func (t *Table) Watch(ctx context.Context, onReload func()) error {
	return jsonstore.Watch(ctx, t.store.Path(), func() {
		if err := t.Reload(); err != nil {
			t.logger.Warn().Err(err).Msg("Keeping previous alias table")
			return
		}
		if onReload != nil {
			onReload()
		}
	})
}
