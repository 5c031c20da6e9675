package medium

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	m := New("/media/usb")
	assert.Equal(t, filepath.Join("/media/usb", "offsite_catalog.json"), m.CatalogPath())
	assert.Equal(t, filepath.Join("/media/usb", "instructions.json"), m.ManifestPath())
	assert.Equal(t, filepath.Join("/media/usb", "Data"), m.DataPath())
	assert.Equal(t, filepath.Join("/media/usb", "Data", "a", "b.txt"), m.StagedPath(filepath.Join("a", "b.txt")))
}

func TestReset(t *testing.T) {
	m := New(t.TempDir())
	require.NoError(t, os.WriteFile(m.CatalogPath(), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(m.ManifestPath(), []byte("[]"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(m.StagedPath(filepath.Join("x", "y"))), 0o755))
	require.NoError(t, os.WriteFile(m.StagedPath(filepath.Join("x", "y")), []byte("data"), 0o644))

	require.NoError(t, m.Reset())

	assert.NoFileExists(t, m.ManifestPath())
	assert.NoDirExists(t, m.DataPath())
	assert.FileExists(t, m.CatalogPath())
	assert.True(t, m.HasCatalog())
}

func TestReset_NothingToRemove(t *testing.T) {
	m := New(t.TempDir())
	require.NoError(t, m.Reset())
	assert.False(t, m.HasCatalog())
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, New(dir).Exists())
	assert.False(t, New(filepath.Join(dir, "missing")).Exists())

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.False(t, New(file).Exists())
}

func TestFreeBytes(t *testing.T) {
	free, err := New(t.TempDir()).FreeBytes()
	require.NoError(t, err)
	assert.Positive(t, free)
}
