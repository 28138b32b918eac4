package labelrules

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/filesystem"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/jsonstore"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
)

// document is the on-disk shape of rules.json
type document struct {
	Rules []Rule `json:"rules"`
}

// Table is the ordered rule table backed by a JSON file. It loads lazily
// and every mutation rewrites the file before returning. A failed write
// leaves the in-memory order unchanged.
type Table struct {
	store  *jsonstore.File[document]
	logger zerolog.Logger

	mu     sync.RWMutex
	loaded bool
	rules  []Rule
}

// NewTable creates a table stored at path, seeded from defaults
func NewTable(fsys filesystem.FS, path string, defaults []byte) *Table {
	return &Table{
		store:  jsonstore.New[document](fsys, path, defaults),
		logger: logging.GetLogger("labelrules.table"),
	}
}

// Path returns the JSON file location
func (t *Table) Path() string {
	return t.store.Path()
}

// Reload discards the in-memory rules and reads the file again
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
	if err := ValidateRules(doc.Rules); err != nil {
		return errors.Wrapf(err, errors.ErrConfiguration, "invalid rules in %s", t.store.Path())
	}
	t.rules = doc.Rules
	t.loaded = true
	t.logger.Debug().Int("rules", len(doc.Rules)).Msg("Loaded rule table")
	return nil
}

// List returns the rules in order
func (t *Table) List() ([]Rule, error) {
	if err := t.ensureLoaded(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Rule(nil), t.rules...), nil
}

// Get returns the rule with id
func (t *Table) Get(id int) (*Rule, error) {
	rules, err := t.List()
	if err != nil {
		return nil, err
	}
	if i := indexOf(rules, id); i >= 0 {
		return &rules[i], nil
	}
	return nil, errors.Newf(errors.ErrNotFound, "no rule with id %d", id)
}

// Add inserts a rule at the head of the table. Its id is one more than the
// largest existing id, or 0 for an empty table. The stored rule is
// returned.
func (t *Table) Add(checks []Check, template string) (Rule, error) {
	if err := t.ensureLoaded(); err != nil {
		return Rule{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := 0
	for _, r := range t.rules {
		if r.ID+1 > id {
			id = r.ID + 1
		}
	}
	rule := Rule{ID: id, Checks: checks, Template: template}
	if err := ValidateRules([]Rule{rule}); err != nil {
		return Rule{}, err
	}

	next := append([]Rule{rule}, t.rules...)
	if err := t.saveLocked(next); err != nil {
		return Rule{}, err
	}
	t.logger.Info().Int("id", id).Msg("Rule added")
	return rule, nil
}

// Update replaces the checks and template of the rule with id, keeping
// its position
func (t *Table) Update(id int, checks []Check, template string) error {
	if err := t.ensureLoaded(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOf(t.rules, id)
	if i < 0 {
		return errors.Newf(errors.ErrNotFound, "no rule with id %d", id)
	}
	rule := Rule{ID: id, Checks: checks, Template: template}
	if err := ValidateRules([]Rule{rule}); err != nil {
		return err
	}

	next := append([]Rule(nil), t.rules...)
	next[i] = rule
	if err := t.saveLocked(next); err != nil {
		return err
	}
	t.logger.Info().Int("id", id).Msg("Rule updated")
	return nil
}

// Delete removes the rule with id
func (t *Table) Delete(id int) error {
	if err := t.ensureLoaded(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := indexOf(t.rules, id)
	if i < 0 {
		return errors.Newf(errors.ErrNotFound, "no rule with id %d", id)
	}
	next := make([]Rule, 0, len(t.rules)-1)
	next = append(next, t.rules[:i]...)
	next = append(next, t.rules[i+1:]...)
	if err := t.saveLocked(next); err != nil {
		return err
	}
	t.logger.Info().Int("id", id).Msg("Rule deleted")
	return nil
}

// Reorder puts the rules in the order of ids. ids must name every existing
// rule exactly once, otherwise a CONFIGURATION error is returned and the
// order is left unchanged.
func (t *Table) Reorder(ids []int) error {
	if err := t.ensureLoaded(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(ids) != len(t.rules) {
		return errors.Newf(errors.ErrConfiguration, "reorder needs %d ids, got %d", len(t.rules), len(ids)).
			WithDetail("ids", ids)
	}
	byID := make(map[int]Rule, len(t.rules))
	for _, r := range t.rules {
		byID[r.ID] = r
	}
	next := make([]Rule, 0, len(ids))
	used := make(map[int]bool, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return errors.Newf(errors.ErrConfiguration, "reorder names unknown rule id %d", id).
				WithDetail("ids", ids)
		}
		if used[id] {
			return errors.Newf(errors.ErrConfiguration, "reorder repeats rule id %d", id).
				WithDetail("ids", ids)
		}
		used[id] = true
		next = append(next, r)
	}

	if err := t.saveLocked(next); err != nil {
		return err
	}
	t.logger.Info().Ints("ids", ids).Msg("Rules reordered")
	return nil
}

// GetLabel renders record with the current rules
func (t *Table) GetLabel(record, formattingData map[string]string) (string, error) {
	rules, err := t.List()
	if err != nil {
		return "", err
	}
	return GetLabel(rules, record, formattingData)
}

// Watch reloads the table whenever its file changes, until ctx is done.
// onReload, when not nil, runs after each successful reload.
func (t *Table) Watch(ctx context.Context, onReload func()) error {
	return jsonstore.Watch(ctx, t.store.Path(), func() {
		if err := t.Reload(); err != nil {
			t.logger.Warn().Err(err).Msg("Keeping previous rule table")
			return
		}
		if onReload != nil {
			onReload()
		}
	})
}

func (t *Table) saveLocked(next []Rule) error {
	if err := t.store.Save(document{Rules: next}); err != nil {
		return err
	}
	t.rules = next
	return nil
}

func indexOf(rules []Rule, id int) int {
	for i, r := range rules {
		if r.ID == id {
			return i
		}
	}
	return -1
}
