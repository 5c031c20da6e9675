package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sneaker/internal/config"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	configDir := filepath.Join(dir, "sneaker")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))
}

func TestPath_FollowsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	assert.Equal(t, filepath.Join("/cfg", "sneaker", "config.toml"), config.Path())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Verify)
	assert.Nil(t, cfg.Defaults.MinFree)
	assert.Nil(t, cfg.Paths.Medium)
	assert.Nil(t, cfg.Theme.Copy)
	assert.Equal(t, config.DefaultExcludes, cfg.Defaults.Excludes())
}

func TestLoad_FullConfig(t *testing.T) {
	writeConfig(t, `
[defaults]
exclude = ["node_modules/", "*.iso"]
exclude_file = "~/.sneakerignore"
min_free = "1G"
mtime_tolerance = "2.1s"
verify = true
bwlimit = "20M"

[paths]
home = "/data"
offsite = "/backup"
medium = "/media/usb"

[theme]
copy = "#00ff00"
delete = "#ff0000"
`)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"node_modules/", "*.iso"}, cfg.Defaults.Excludes())
	require.NotNil(t, cfg.Defaults.ExcludeFile)
	assert.Equal(t, "~/.sneakerignore", *cfg.Defaults.ExcludeFile)

	minFree, ok, err := cfg.Defaults.MinFreeBytes()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1<<30), minFree)

	tol, ok, err := cfg.Defaults.Tolerance()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2100*time.Millisecond, tol)

	bw, ok, err := cfg.Defaults.BWLimitBytes()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(20<<20), bw)

	require.NotNil(t, cfg.Defaults.Verify)
	assert.True(t, *cfg.Defaults.Verify)

	require.NotNil(t, cfg.Paths.Home)
	assert.Equal(t, "/data", *cfg.Paths.Home)
	require.NotNil(t, cfg.Paths.Medium)
	assert.Equal(t, "/media/usb", *cfg.Paths.Medium)

	require.NotNil(t, cfg.Theme.Copy)
	assert.Equal(t, "#00ff00", *cfg.Theme.Copy)
	// Unset fields should remain nil.
	assert.Nil(t, cfg.Theme.Move)
}

func TestLoad_EmptyExcludeDisablesDefaults(t *testing.T) {
	writeConfig(t, "[defaults]\nexclude = []\n")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Defaults.Excludes())
}

func TestLoad_UnsetValuesReportNotOK(t *testing.T) {
	var d config.DefaultsConfig
	_, ok, err := d.MinFreeBytes()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = d.Tolerance()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = d.BWLimitBytes()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_InvalidValues(t *testing.T) {
	writeConfig(t, "[defaults]\nmin_free = \"lots\"\nmtime_tolerance = \"-1s\"\n")

	cfg, err := config.Load()
	require.NoError(t, err)
	_, _, err = cfg.Defaults.MinFreeBytes()
	assert.Error(t, err)
	_, _, err = cfg.Defaults.Tolerance()
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	writeConfig(t, "[defaults\nverify = ")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_UnknownKey(t *testing.T) {
	writeConfig(t, "[defaults]\nworkers = 4\n")
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults.workers")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".sneakerignore"), config.ExpandHome("~/.sneakerignore"))
	assert.Equal(t, "/abs/path", config.ExpandHome("/abs/path"))
	assert.Equal(t, "~user/x", config.ExpandHome("~user/x"))
}
