package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/paths"
)

func TestLoadDefaults(t *testing.T) {
	p := paths.NewAt(t.TempDir())

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "/sys/devices", cfg.Sysfs.Root)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Commands.Timeout)
	assert.Equal(t, "lsusb", cfg.Commands.Lsusb)
	assert.Equal(t, "/dev/serial/by-id", cfg.Dev.SerialByID)
	assert.Equal(t, 8, cfg.Classify.Workers)
	assert.Equal(t, p.AliasesPath(), cfg.Tables.Aliases)
	assert.Equal(t, p.RulesPath(), cfg.Tables.Rules)
	assert.Equal(t, p.CacheStorePath(), cfg.Cache.Dir)
}

func TestLoadUserFileOverridesDefaults(t *testing.T) {
	p := paths.NewAt(t.TempDir())
	require.NoError(t, os.MkdirAll(p.ConfigDir(), 0755))
	require.NoError(t, os.WriteFile(p.SettingsPath(), []byte(`
[sysfs]
root = "/tmp/fake-sys"

[cache]
backend = "disk"
ttl = "30s"
`), 0644))

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/fake-sys", cfg.Sysfs.Root)
	assert.Equal(t, "disk", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "lspci", cfg.Commands.Lspci, "untouched keys keep defaults")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	p := paths.NewAt(t.TempDir())
	t.Setenv("ASTUTUS_CACHE_TTL", "2m")
	t.Setenv("ASTUTUS_COMMANDS_TIMEOUT", "3s")
	t.Setenv("ASTUTUS_CLASSIFY_WORKERS", "2")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3*time.Second, cfg.Commands.Timeout)
	assert.Equal(t, 2, cfg.Classify.Workers)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"ASTUTUS_CACHE_BACKEND": "redis"}},
		{"zero workers", map[string]string{"ASTUTUS_CLASSIFY_WORKERS": "0"}},
		{"zero ttl", map[string]string{"ASTUTUS_CACHE_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(paths.NewAt(t.TempDir()))
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse), "got %v", err)
		})
	}
}

func TestLoadRejectsBrokenUserFile(t *testing.T) {
	p := paths.NewAt(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(p.SettingsPath()), 0755))
	require.NoError(t, os.WriteFile(p.SettingsPath(), []byte("[cache\nttl="), 0644))

	_, err := Load(p)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestSettingsTOML(t *testing.T) {
	cfg, err := Load(paths.NewAt(t.TempDir()))
	require.NoError(t, err)

	out, err := cfg.TOML()
	require.NoError(t, err)

	assert.Contains(t, string(out), "[cache]")
	assert.Regexp(t, `ttl = ['"]10m0s['"]`, string(out))
	assert.Contains(t, string(out), "workers = 8")
}

func TestPackagedTablesAreValidJSON(t *testing.T) {
	var aliases map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(DefaultAliases(), &aliases))
	assert.NotEmpty(t, aliases)

	var rules struct {
		Rules []map[string]interface{} `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(DefaultRules(), &rules))
	assert.NotEmpty(t, rules.Rules)
}
