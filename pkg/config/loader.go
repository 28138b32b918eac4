package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/paths"
)

// EnvPrefix is the prefix of environment overrides, e.g. ASTUTUS_CACHE_TTL=1m
const EnvPrefix = "ASTUTUS_"

// Settings is the effective engine configuration
type Settings struct {
	Sysfs    SysfsSettings    `koanf:"sysfs"`
	Cache    CacheSettings    `koanf:"cache"`
	Commands CommandSettings  `koanf:"commands"`
	Dev      DevSettings      `koanf:"dev"`
	Tables   TableSettings    `koanf:"tables"`
	Classify ClassifySettings `koanf:"classify"`
}

// SysfsSettings locates the device tree
type SysfsSettings struct {
	Root string `koanf:"root" validate:"required"`
}

// CacheSettings configures the classification record cache
type CacheSettings struct {
	Backend string        `koanf:"backend" validate:"oneof=memory disk"`
	TTL     time.Duration `koanf:"ttl" validate:"gt=0"`
	Dir     string        `koanf:"dir"`
}

// CommandSettings names the host introspection tools and bounds their runtime
type CommandSettings struct {
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
	Lspci   string        `koanf:"lspci" validate:"required"`
	Lsusb   string        `koanf:"lsusb" validate:"required"`
	Ls      string        `koanf:"ls" validate:"required"`
}

// DevSettings locates special files
type DevSettings struct {
	Dir        string `koanf:"dir" validate:"required"`
	SerialByID string `koanf:"serialbyid"`
}

// TableSettings locates the alias and label rule JSON stores
type TableSettings struct {
	Aliases string `koanf:"aliases"`
	Rules   string `koanf:"rules"`
	Watch   bool   `koanf:"watch"`
}

// ClassifySettings bounds concurrent classification
type ClassifySettings struct {
	Workers int `koanf:"workers" validate:"min=1"`
}

var validate = validator.New()

// Load reads the layered configuration. Empty table and cache locations
// are filled in from p.
func Load(p paths.Paths) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	userPath := p.SettingsPath()
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", userPath)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	postProcess(&cfg, p)

	if err := validate.Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "invalid configuration")
	}

	return &cfg, nil
}

func postProcess(cfg *Settings, p paths.Paths) {
	if cfg.Tables.Aliases == "" {
		cfg.Tables.Aliases = p.AliasesPath()
	}
	if cfg.Tables.Rules == "" {
		cfg.Tables.Rules = p.RulesPath()
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = p.CacheStorePath()
	}
	cfg.Sysfs.Root = paths.ExpandHome(cfg.Sysfs.Root)
	cfg.Tables.Aliases = paths.ExpandHome(cfg.Tables.Aliases)
	cfg.Tables.Rules = paths.ExpandHome(cfg.Tables.Rules)
	cfg.Cache.Dir = paths.ExpandHome(cfg.Cache.Dir)
}

// TOML renders the effective settings in the same layout as defaults.toml
func (s *Settings) TOML() ([]byte, error) {
	doc := map[string]interface{}{
		"sysfs": map[string]interface{}{"root": s.Sysfs.Root},
		"cache": map[string]interface{}{
			"backend": s.Cache.Backend,
			"ttl":     s.Cache.TTL.String(),
			"dir":     s.Cache.Dir,
		},
		"commands": map[string]interface{}{
			"timeout": s.Commands.Timeout.String(),
			"lspci":   s.Commands.Lspci,
			"lsusb":   s.Commands.Lsusb,
			"ls":      s.Commands.Ls,
		},
		"dev": map[string]interface{}{
			"dir":        s.Dev.Dir,
			"serialbyid": s.Dev.SerialByID,
		},
		"tables": map[string]interface{}{
			"aliases": s.Tables.Aliases,
			"rules":   s.Tables.Rules,
			"watch":   s.Tables.Watch,
		},
		"classify": map[string]interface{}{"workers": s.Classify.Workers},
	}

	out, err := gotoml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render settings: %w", err)
	}
	return out, nil
}
