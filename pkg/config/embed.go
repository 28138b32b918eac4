package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

//go:embed embedded/aliases.json
var defaultAliases []byte

//go:embed embedded/rules.json
var defaultRules []byte

// DefaultAliases returns the packaged alias table
func DefaultAliases() []byte {
	return append([]byte(nil), defaultAliases...)
}

// DefaultRules returns the packaged label rule table
func DefaultRules() []byte {
	return append([]byte(nil), defaultRules...)
}

// DefaultSettings returns the embedded defaults.toml
func DefaultSettings() []byte {
	return append([]byte(nil), defaultSettings...)
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
