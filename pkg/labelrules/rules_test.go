package labelrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

func TestSelectTemplateFirstMatchWins(t *testing.T) {
	rules := []Rule{
		{ID: 1, Checks: []Check{{Field: "ilk", Operator: Equals, Value: "pci"}}, Template: "A"},
		{ID: 0, Template: "B"},
	}

	template, err := SelectTemplate(rules, map[string]string{"ilk": "usb"})
	require.NoError(t, err)
	assert.Equal(t, "B", template)

	template, err = SelectTemplate(rules, map[string]string{"ilk": "pci"})
	require.NoError(t, err)
	assert.Equal(t, "A", template)
}

func TestCheckOperators(t *testing.T) {
	record := map[string]string{"tty": "/dev/ttyUSB0", "ilk": "usb"}

	tests := []struct {
		name  string
		check Check
		want  bool
	}{
		{"equals match", Check{Field: "ilk", Operator: Equals, Value: "usb"}, true},
		{"equals is exact", Check{Field: "ilk", Operator: Equals, Value: "us"}, false},
		{"contains substring", Check{Field: "tty", Operator: Contains, Value: "ttyUSB"}, true},
		{"contains miss", Check{Field: "tty", Operator: Contains, Value: "ACM"}, false},
		{"missing field never passes", Check{Field: "vendor", Operator: Contains, Value: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check.Pass(record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnknownOperator(t *testing.T) {
	rules := []Rule{{ID: 0, Checks: []Check{{Field: "ilk", Operator: "startswith", Value: "u"}}, Template: "x"}}

	_, err := SelectTemplate(rules, map[string]string{"ilk": "usb"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))

	_, err = GetLabel(rules, map[string]string{"ilk": "usb"}, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration))
}

func TestGetLabel(t *testing.T) {
	rules := []Rule{
		{ID: 1, Checks: []Check{{Field: "ilk", Operator: Equals, Value: "usb"}}, Template: "{vendor} {missing_field}"},
		{ID: 0, Template: "{node_id}"},
	}

	label, err := GetLabel(rules, map[string]string{"ilk": "usb", "vendor": "QinHeng"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "QinHeng --missing_field missing--", label)

	label, err = GetLabel(rules, map[string]string{"ilk": "pci", "node_id": "pci(8086:a36d)"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "pci(8086:a36d)", label)
}

func TestGetLabelFormattingDataWins(t *testing.T) {
	rules := []Rule{{ID: 0, Template: "{alias} on {tty}"}}
	record := map[string]string{"tty": "/dev/ttyUSB0", "alias": "record alias"}

	label, err := GetLabel(rules, record, map[string]string{"alias": "bench serial"})
	require.NoError(t, err)
	assert.Equal(t, "bench serial on /dev/ttyUSB0", label)
	assert.Equal(t, "record alias", record["alias"], "the record is not modified")
}

func TestGetLabelWithoutMatchingRule(t *testing.T) {
	rules := []Rule{{ID: 0, Checks: []Check{{Field: "ilk", Operator: Equals, Value: "pci"}}, Template: "x"}}

	label, err := GetLabel(rules, map[string]string{"ilk": "usb", "node_id": "usb(1a86:7523)"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "usb(1a86:7523)", label)
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
		ok    bool
	}{
		{"valid", []Rule{{ID: 1, Checks: []Check{{Field: "ilk", Operator: Contains, Value: "u"}}, Template: "x"}, {ID: 0, Template: "y"}}, true},
		{"duplicate id", []Rule{{ID: 1, Template: "x"}, {ID: 1, Template: "y"}}, false},
		{"negative id", []Rule{{ID: -1, Template: "x"}}, false},
		{"empty template", []Rule{{ID: 0}}, false},
		{"bad operator", []Rule{{ID: 0, Checks: []Check{{Field: "ilk", Operator: "like"}}, Template: "x"}}, false},
		{"check without field", []Rule{{ID: 0, Checks: []Check{{Operator: Equals}}, Template: "x"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRules(tt.rules)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfiguration), "got %v", err)
			}
		})
	}
}

func TestFields(t *testing.T) {
	rules := []Rule{
		{ID: 1, Checks: []Check{{Field: "ilk", Operator: Equals, Value: "usb"}}, Template: "{vendor} {tty}"},
		{ID: 0, Template: "{node_id}"},
	}
	assert.Equal(t, []string{"ilk", "node_id", "tty", "vendor"}, Fields(rules))
}
