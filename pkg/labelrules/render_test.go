package labelrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	data := map[string]string{"vendor": "QinHeng", "tty": "/dev/ttyUSB0", "empty": ""}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"plain text", "serial", "serial"},
		{"fields", "{vendor} on {tty}", "QinHeng on /dev/ttyUSB0"},
		{"empty value", "[{empty}]", "[]"},
		{"missing field is stubbed", "{vendor} {missing_field}", "QinHeng --missing_field missing--"},
		{"every field missing", "{a}-{b}-{a}", "--a missing-----b missing-----a missing--"},
		{"escaped braces", "{{{vendor}}}", "{QinHeng}"},
		{"unclosed slot", "{vendor", "Bad template: {vendor"},
		{"lone close", "vendor}", "Bad template: vendor}"},
		{"empty slot", "{} x", "Bad template: {} x"},
		{"nested open", "{ven{dor}", "Bad template: {ven{dor}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.template, data))
		})
	}
}

func TestRenderDoesNotModifyData(t *testing.T) {
	data := map[string]string{"vendor": "QinHeng"}
	Render("{vendor} {gone}", data)
	assert.NotContains(t, data, "gone")
}

func TestTemplateFields(t *testing.T) {
	assert.Equal(t, []string{"vendor", "tty"}, TemplateFields("{vendor} {{x}} {tty} {vendor}"))
	assert.Nil(t, TemplateFields("{broken"))
}
