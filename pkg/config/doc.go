// Package config loads astutus settings.
//
// Settings are layered with koanf: the embedded defaults.toml, then the
// user's astutus.toml from the XDG config directory, then ASTUTUS_*
// environment variables. The package also carries the packaged default
// alias and label rule tables that are seeded into the config directory on
// first use.
package config
