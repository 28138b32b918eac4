package labelrules

import (
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/sysfs"
)

// Operator compares a record field with a check value
type Operator string

const (
	Equals   Operator = "equals"
	Contains Operator = "contains"
)

// Check is one field test of a rule
type Check struct {
	Field    string   `json:"field" validate:"required"`
	Operator Operator `json:"operator" validate:"oneof=equals contains"`
	Value    string   `json:"value"`
}

// Rule pairs checks with a template
type Rule struct {
	ID       int     `json:"id" validate:"min=0"`
	Checks   []Check `json:"checks,omitempty" validate:"dive"`
	Template string  `json:"template" validate:"required"`
}

var validate = validator.New()

// Pass evaluates the check against record. A missing field never passes.
// An unknown operator is a CONFIGURATION error.
func (c Check) Pass(record map[string]string) (bool, error) {
	value, ok := record[c.Field]
	switch c.Operator {
	case Equals:
		return ok && value == c.Value, nil
	case Contains:
		return ok && strings.Contains(value, c.Value), nil
	}
	return false, errors.Newf(errors.ErrConfiguration, "unknown check operator %q", c.Operator).
		WithDetail("field", c.Field)
}

// Matches reports whether every check of the rule passes
func (r Rule) Matches(record map[string]string) (bool, error) {
	for _, c := range r.Checks {
		pass, err := c.Pass(record)
		if err != nil || !pass {
			return false, err
		}
	}
	return true, nil
}

// SelectTemplate returns the template of the first matching rule. When no
// rule matches it returns a NOT_FOUND error.
func SelectTemplate(rules []Rule, record map[string]string) (string, error) {
	for _, r := range rules {
		ok, err := r.Matches(record)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrConfiguration, "rule %d", r.ID)
		}
		if ok {
			return r.Template, nil
		}
	}
	return "", errors.New(errors.ErrNotFound, "no label rule matches")
}

// GetLabel renders the label of record. formattingData overrides record
// fields of the same name. A record no rule matches is labelled with its
// node id.
func GetLabel(rules []Rule, record, formattingData map[string]string) (string, error) {
	template, err := SelectTemplate(rules, record)
	if errors.IsErrorCode(err, errors.ErrNotFound) {
		return record[sysfs.FieldNodeID], nil
	}
	if err != nil {
		return "", err
	}

	data := make(map[string]string, len(record)+len(formattingData))
	for k, v := range record {
		data[k] = v
	}
	for k, v := range formattingData {
		data[k] = v
	}
	return Render(template, data), nil
}

// ValidateRules checks rule structure and id uniqueness
func ValidateRules(rules []Rule) error {
	seen := make(map[int]bool, len(rules))
	for i, r := range rules {
		if err := validate.Struct(r); err != nil {
			return errors.Wrapf(err, errors.ErrConfiguration, "invalid rule at position %d", i).
				WithDetail("id", r.ID)
		}
		if seen[r.ID] {
			return errors.Newf(errors.ErrConfiguration, "duplicate rule id %d", r.ID).
				WithDetail("id", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// Fields lists every record field referenced by the checks and templates
// of rules, sorted
func Fields(rules []Rule) []string {
	seen := make(map[string]bool)
	for _, r := range rules {
		for _, c := range r.Checks {
			seen[c.Field] = true
		}
		for _, f := range TemplateFields(r.Template) {
			seen[f] = true
		}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
