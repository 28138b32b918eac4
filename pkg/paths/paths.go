package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for astutus
	EnvConfigDir = "ASTUTUS_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for astutus
	EnvCacheDir = "ASTUTUS_CACHE_DIR"

	// EnvStateDir overrides the XDG state directory for astutus
	EnvStateDir = "ASTUTUS_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// File and directory names inside the astutus directories
const (
	AppDirName       = "astutus"
	SettingsFileName = "astutus.toml"
	AliasesFileName  = "aliases.json"
	RulesFileName    = "rules.json"
	CacheStoreDir    = "records"
	LogFileName      = "astutus.log"
)

// Paths provides the user-local file locations
type Paths interface {
	ConfigDir() string
	CacheDir() string
	StateDir() string
	SettingsPath() string
	AliasesPath() string
	RulesPath() string
	CacheStorePath() string
	LogFilePath() string
}

type paths struct {
	config string
	cache  string
	state  string
}

// New resolves the directories from the environment and XDG defaults
func New() Paths {
	return &paths{
		config: resolve(EnvConfigDir, xdg.ConfigHome),
		cache:  resolve(EnvCacheDir, xdg.CacheHome),
		state:  resolve(EnvStateDir, xdg.StateHome),
	}
}

// NewAt roots every directory under base; used by tests and by --home
func NewAt(base string) Paths {
	base = ExpandHome(base)
	return &paths{
		config: filepath.Join(base, "config"),
		cache:  filepath.Join(base, "cache"),
		state:  filepath.Join(base, "state"),
	}
}

func resolve(envName, xdgBase string) string {
	if dir := os.Getenv(envName); dir != "" {
		return ExpandHome(dir)
	}
	return filepath.Join(xdgBase, AppDirName)
}

func (p *paths) ConfigDir() string { return p.config }
func (p *paths) CacheDir() string  { return p.cache }
func (p *paths) StateDir() string  { return p.state }

func (p *paths) SettingsPath() string {
	return filepath.Join(p.config, SettingsFileName)
}

func (p *paths) AliasesPath() string {
	return filepath.Join(p.config, AliasesFileName)
}

func (p *paths) RulesPath() string {
	return filepath.Join(p.config, RulesFileName)
}

func (p *paths) CacheStorePath() string {
	return filepath.Join(p.cache, CacheStoreDir)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.state, LogFileName)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
