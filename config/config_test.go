package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
expand_tabs: true
checks: true
workers: 3
color: false
log_level: debug
star_imports:
  com.example:
    - Widget
    - Gadget
`))
	assert.NoError(t, err)
	assert.True(t, cfg.ExpandTabs)
	assert.True(t, cfg.Checks)
	assert.Equal(t, 3, cfg.WorkerCount())
	assert.False(t, cfg.UseColor())
	assert.Equal(t, 2, cfg.Verbosity(0))
	assert.Equal(t, []string{"com.example"}, cfg.Packages())
	assert.Equal(t, []string{"Widget", "Gadget"}, cfg.StarImports["com.example"])
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("expand_tab: true\n"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte("checks: true\n"))
	assert.NoError(t, err)
	assert.False(t, cfg.ExpandTabs)
	assert.True(t, cfg.UseColor())
	assert.True(t, cfg.WorkerCount() > 0)
	assert.Equal(t, -1, cfg.Verbosity(0))
	assert.Equal(t, 1, cfg.Verbosity(2))
	assert.True(t, slices.Contains(cfg.Packages(), "java.lang"))
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"JAVAFRONT_EXPAND_TABS": "true",
		"JAVAFRONT_WORKERS":     "2",
		"JAVAFRONT_COLOR":       "0",
		"JAVAFRONT_LOG_LEVEL":   "info",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	assert.NoError(t, cfg.applyEnv(lookup))
	assert.True(t, cfg.ExpandTabs)
	assert.Equal(t, 2, cfg.Workers)
	assert.False(t, cfg.UseColor())
	assert.Equal(t, "info", cfg.LogLevel)

	env["JAVAFRONT_CHECKS"] = "sometimes"
	err := Default().applyEnv(lookup)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", *Default(), true},
		{"negative workers", Config{Workers: -1, LogLevel: "info"}, false},
		{"bad level", Config{LogLevel: "loud"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidConfig))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	t.Setenv("JAVAFRONT_CHECKS", "true")
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.True(t, cfg.Checks)

	assert.NoError(t, os.WriteFile(path, []byte("workers: 5\n"), 0o644))
	cfg, err = Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 5, cfg.Workers)

	assert.NoError(t, os.WriteFile(path, []byte("workers: [\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
