// Package output renders records, tables and device trees for the CLI in
// terminal, text, JSON or YAML form.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	astutuserrors "github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

// Styles are the semantic styles used by text renderings
type Styles struct {
	Key    lipgloss.Style
	Value  lipgloss.Style
	NodeID lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
}

// Color returns a style with a foreground color such as "#00ff00". An
// empty color yields the Label style.
func (s Styles) Color(color string) lipgloss.Style {
	if color == "" {
		return s.Label
	}
	return s.Label.Foreground(lipgloss.Color(color))
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Key:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}),
		Value:  r.NewStyle(),
		NodeID: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#5FD7FF"}),
		Label:  r.NewStyle().Bold(true),
		Muted:  r.NewStyle().Faint(true),
		Error:  r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}),
	}
}

// Printer writes values in one format
type Printer struct {
	w      io.Writer
	format Format
	styles Styles
}

// New creates a printer writing to w. FormatAuto is resolved with
// DetectFormat.
func New(format Format, w io.Writer) *Printer {
	if format == FormatAuto {
		format = DetectFormat(w)
	}

	r := lipgloss.NewRenderer(w)
	if format != FormatTerminal {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Printer{w: w, format: format, styles: newStyles(r)}
}

// Format returns the resolved format
func (p *Printer) Format() Format {
	return p.format
}

// Styles returns the styles for text renderings
func (p *Printer) Styles() Styles {
	return p.styles
}

// Data writes v as JSON or YAML, or calls text for the text formats
func (p *Printer) Data(v interface{}, text func(w io.Writer, st Styles) error) error {
	switch p.format {
	case FormatJSON:
		encoder := json.NewEncoder(p.w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(p.w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return text(p.w, p.styles)
	}
}

// Record writes an attribute map with keys in sorted order
func (p *Printer) Record(record map[string]string) error {
	return p.Data(record, func(w io.Writer, st Styles) error {
		keys := make([]string, 0, len(record))
		width := 0
		for k := range record {
			keys = append(keys, k)
			if len(k) > width {
				width = len(k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := st.Key.Render(fmt.Sprintf("%-*s", width, k))
			if _, err := fmt.Fprintf(w, "%s  %s\n", key, st.Value.Render(record[k])); err != nil {
				return err
			}
		}
		return nil
	})
}

// TreeNode is one line of a device tree rendering
type TreeNode struct {
	Path   string `json:"path" yaml:"path"`
	Depth  int    `json:"depth" yaml:"depth"`
	NodeID string `json:"node_id" yaml:"node_id"`
	Label  string `json:"label" yaml:"label"`
	Alias  string `json:"alias,omitempty" yaml:"alias,omitempty"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Tree writes device nodes indented by depth
func (p *Printer) Tree(nodes []TreeNode) error {
	return p.Data(nodes, func(w io.Writer, st Styles) error {
		for _, n := range nodes {
			indent := strings.Repeat("  ", n.Depth)
			line := fmt.Sprintf("%s%s  %s", indent, st.NodeID.Render(n.NodeID), st.Color(n.Color).Render(n.Label))
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	})
}

// Message writes a status line
func (p *Printer) Message(msg string) error {
	return p.Data(map[string]string{"message": msg}, func(w io.Writer, st Styles) error {
		_, err := fmt.Fprintln(w, msg)
		return err
	})
}

// Error writes an error
func (p *Printer) Error(err error) error {
	view := errorView{Error: err.Error()}
	if code := astutuserrors.GetErrorCode(err); code != astutuserrors.ErrUnknown {
		view.Code = string(code)
	}
	if exitCode, _, stderr, ok := astutuserrors.CommandFailure(err); ok {
		view.ExitCode = &exitCode
		view.Stderr = strings.TrimSpace(stderr)
	}
	return p.Data(view, func(w io.Writer, st Styles) error {
		if _, werr := fmt.Fprintln(w, st.Error.Render("Error: ")+view.Error); werr != nil {
			return werr
		}
		if view.Stderr == "" {
			return nil
		}
		_, werr := fmt.Fprintln(w, st.Muted.Render(view.Stderr))
		return werr
	})
}

type errorView struct {
	Error    string `json:"error" yaml:"error"`
	Code     string `json:"code,omitempty" yaml:"code,omitempty"`
	ExitCode *int   `json:"exit_code,omitempty" yaml:"exit_code,omitempty"`
	Stderr   string `json:"stderr,omitempty" yaml:"stderr,omitempty"`
}
