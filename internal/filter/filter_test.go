package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMatcherExcludesNothing(t *testing.T) {
	var m *Matcher
	assert.True(t, m.Empty())
	assert.False(t, m.Excluded("any/file.txt", false))
	assert.Nil(t, m.Patterns())
}

func TestNew_IgnoresBlankPatterns(t *testing.T) {
	m, err := New([]string{"", "   ", " *.tmp "})
	require.NoError(t, err)

	assert.Equal(t, []string{" *.tmp "}, m.Patterns())
	assert.True(t, m.Excluded("bad.tmp", false))
	assert.False(t, m.Excluded("good.txt", false))
}

func TestExcluded_AnyRuleMatches(t *testing.T) {
	m, err := New([]string{"*.log", "Thumbs.db", ".git"})
	require.NoError(t, err)

	assert.True(t, m.Excluded("secret.log", false))
	assert.True(t, m.Excluded(filepath.Join("pics", "thumbs.db"), false))
	assert.True(t, m.Excluded(filepath.Join(".git", "objects", "ab"), false))
	assert.False(t, m.Excluded(filepath.Join("src", "main.go"), false))
}

func TestExcluded_DirectoryScopeKeepsSameNamedFile(t *testing.T) {
	m, err := New([]string{"Data/"})
	require.NoError(t, err)

	assert.True(t, m.Excluded("Data", true))
	assert.True(t, m.Excluded(filepath.Join("Data", "ignore_me.txt"), false))
	assert.False(t, m.Excluded(filepath.Join("SafeZone", "Data"), false))
}

func TestExcluded_TempDoesNotCoverTemporary(t *testing.T) {
	m, err := New([]string{"temp/"})
	require.NoError(t, err)

	assert.True(t, m.Excluded(filepath.Join("temp", "a.txt"), false))
	assert.True(t, m.Excluded(filepath.Join("x", "temp", "a.txt"), false))
	assert.False(t, m.Excluded(filepath.Join("temporary", "a.txt"), false))
}

func TestExcluded_RootIsNeverExcluded(t *testing.T) {
	m, err := New([]string{"*"})
	require.NoError(t, err)

	assert.False(t, m.Excluded(".", true))
	assert.False(t, m.Excluded("", true))
	assert.True(t, m.Excluded("anything", false))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.rules")
	content := "# editor litter\n*.swp\n\n  node_modules/  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := &Matcher{}
	require.NoError(t, m.LoadFile(path))

	assert.Equal(t, []string{"*.swp", "node_modules/"}, m.Patterns())
	assert.True(t, m.Excluded(filepath.Join("web", "node_modules", "x.js"), false))
	assert.True(t, m.Excluded(".main.go.swp", false))
}

func TestLoadFile_Missing(t *testing.T) {
	m := &Matcher{}
	assert.Error(t, m.LoadFile(filepath.Join(t.TempDir(), "nope")))
}
