package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOG_LEVEL", "")
	c, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, BackendRemote, c.Backend)
	assert.Equal(t, "https://dummyjson.com", c.API.BaseURL)
	assert.Equal(t, 10*time.Second, c.API.Timeout)
	assert.Equal(t, 30, c.API.PageSize)
	assert.Equal(t, 1, c.UI.DragDeadZone)
	assert.Equal(t, "classic", c.UI.Theme)
	assert.Equal(t, "auto", c.UI.Color)
	assert.Equal(t, c, Default())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend = "local"

[api]
timeout = "3s"
page_size = 50

[ui]
theme = "neon"
`), 0o600))
	t.Setenv("TADA_UI_THEME", "mono")
	t.Setenv("TADA_API_BASE_URL", "http://localhost:8080")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, c.Backend)
	assert.Equal(t, 3*time.Second, c.API.Timeout)
	assert.Equal(t, 50, c.API.PageSize)
	assert.Equal(t, "mono", c.UI.Theme, "env beats file")
	assert.Equal(t, "http://localhost:8080", c.API.BaseURL)
}

func TestLoadUsesEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tada.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = \"local\"\n"), 0o600))
	t.Setenv(EnvConfig, path)

	assert.Equal(t, path, Path(""))
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, c.Backend)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = \"carrier-pigeon\"\n"), 0o600))
	c, err := Load(path)
	require.NoError(t, err)
	assert.ErrorContains(t, c.Validate(), "backend")

	c.Backend = BackendLocal
	assert.NoError(t, c.Validate())

	require.NoError(t, os.WriteFile(path, []byte("backend = \n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "read config")
}

func TestValidate(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	bad := c
	bad.API.PageSize = 0
	assert.ErrorContains(t, bad.Validate(), "page_size")
	bad = c
	bad.Log.Level = "chatty"
	assert.ErrorContains(t, bad.Validate(), "log.level")
	bad = c
	bad.UI.Color = "sometimes"
	assert.ErrorContains(t, bad.Validate(), "ui.color")
	bad = c
	bad.UI.DragDeadZone = -1
	assert.ErrorContains(t, bad.Validate(), "drag_dead_zone")
}

func TestLoadReadsLogLevelEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	t.Setenv("TADA_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "debug")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)

	t.Setenv("TADA_LOG_LEVEL", "warn")
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level, "prefixed var wins")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Backend = BackendLocal
	want.API.Timeout = 2 * time.Minute
	want.UI.DragDeadZone = 3
	want.UI.Color = "never"
	want.Log.File = "/tmp/tada.log"

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
