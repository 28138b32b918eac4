package labelrules

import (
	"fmt"
	"strings"
)

// BadTemplatePrefix starts the diagnostic returned for unusable templates
const BadTemplatePrefix = "Bad template: "

// segment is literal text or, when field is set, a slot
type segment struct {
	text  string
	field string
	slot  bool
}

// parseTemplate splits a template into literal text and {field} slots
func parseTemplate(template string) ([]segment, error) {
	var segments []segment
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch ch {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexAny(template[i+1:], "{}")
			if end < 0 || template[i+1+end] != '}' {
				return nil, fmt.Errorf("unclosed slot at offset %d", i)
			}
			field := strings.TrimSpace(template[i+1 : i+1+end])
			if field == "" {
				return nil, fmt.Errorf("empty slot at offset %d", i)
			}
			flush()
			segments = append(segments, segment{field: field, slot: true})
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d", i)
		default:
			literal.WriteByte(ch)
		}
	}
	flush()
	return segments, nil
}

// Stub is the text substituted for a missing field
func Stub(field string) string {
	return "--" + field + " missing--"
}

// Render fills template from data. Each missing field is stubbed and the
// render retried, at most once per slot; a template that cannot be used
// renders as "Bad template: <template>".
func Render(template string, data map[string]string) string {
	segments, err := parseTemplate(template)
	if err != nil {
		return BadTemplatePrefix + template
	}

	slots := 0
	for _, s := range segments {
		if s.slot {
			slots++
		}
	}

	values := data
	for attempt := 0; attempt <= slots; attempt++ {
		out, missing := renderOnce(segments, values)
		if missing == "" {
			return out
		}
		if attempt == 0 {
			values = make(map[string]string, len(data)+slots)
			for k, v := range data {
				values[k] = v
			}
		}
		values[missing] = Stub(missing)
	}
	return BadTemplatePrefix + template
}

// renderOnce returns the first missing field instead of output when one
// is absent
func renderOnce(segments []segment, values map[string]string) (string, string) {
	var b strings.Builder
	for _, s := range segments {
		if !s.slot {
			b.WriteString(s.text)
			continue
		}
		value, ok := values[s.field]
		if !ok {
			return "", s.field
		}
		b.WriteString(value)
	}
	return b.String(), ""
}

// TemplateFields lists the slot names of template in order of first use.
// Malformed templates have none.
func TemplateFields(template string) []string {
	segments, err := parseTemplate(template)
	if err != nil {
		return nil
	}
	var fields []string
	seen := make(map[string]bool)
	for _, s := range segments {
		if s.slot && !seen[s.field] {
			seen[s.field] = true
			fields = append(fields, s.field)
		}
	}
	return fields
}
