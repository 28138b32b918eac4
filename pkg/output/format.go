package output

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	astutuserrors "github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

// Format selects how a Printer renders
type Format int

const (
	FormatAuto Format = iota
	FormatTerminal
	FormatText
	FormatJSON
	FormatYAML
)

// formatNames holds the accepted spellings of each format, canonical first
var formatNames = [...][]string{
	FormatAuto:     {"auto", ""},
	FormatTerminal: {"term", "terminal"},
	FormatText:     {"text", "plain"},
	FormatJSON:     {"json"},
	FormatYAML:     {"yaml", "yml"},
}

// FormatNames lists the canonical format names
func FormatNames() []string {
	names := make([]string, len(formatNames))
	for i, spellings := range formatNames {
		names[i] = spellings[0]
	}
	return names
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f][0]
}

// ParseFormat accepts any spelling of a format, case-insensitively
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, spellings := range formatNames {
		for _, name := range spellings {
			if s == name {
				return Format(f), nil
			}
		}
	}
	return FormatAuto, astutuserrors.Newf(astutuserrors.ErrInvalidInput,
		"unknown format %q (want one of %s)", s, strings.Join(FormatNames(), ", "))
}

// Set implements pflag.Value so a Format can back a flag directly
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value
func (f *Format) Type() string { return "format" }

// DetectFormat resolves FormatAuto for w. Only a color-capable terminal
// without NO_COLOR gets styled output.
func DetectFormat(w io.Writer) Format {
	file, ok := w.(*os.File)
	if !ok {
		return FormatText
	}
	if !isatty.IsTerminal(file.Fd()) && !isatty.IsCygwinTerminal(file.Fd()) {
		return FormatText
	}
	out := termenv.NewOutput(file)
	if out.EnvNoColor() || out.EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
