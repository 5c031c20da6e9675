package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	home, offsite, medium string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	base := t.TempDir()
	env := cliEnv{
		home:    filepath.Join(base, "home"),
		offsite: filepath.Join(base, "offsite"),
		medium:  filepath.Join(base, "usb"),
	}
	for _, d := range []string{env.home, env.offsite, env.medium} {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
	return env
}

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "sneaker dev\n", out)
}

func TestRun_FullCycle(t *testing.T) {
	env := newCLIEnv(t)
	writeTestFile(t, env.home, "docs/a.txt", "alpha")
	writeTestFile(t, env.home, "b.txt", "beta")
	writeTestFile(t, env.home, "debug.log", "noise")

	code, _, stderr := runCLI(t, "init", env.offsite, env.medium)
	require.Equal(t, 0, code, stderr)

	code, out, stderr := runCLI(t, "push", "--min-free", "1K", "--exclude", "*.log", env.home, env.medium)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "COPY")
	assert.NotContains(t, out, "debug.log")
	assert.Contains(t, stderr, "Transfer complete")

	code, out, _ = runCLI(t, "status", env.medium)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "2 to copy")

	code, _, stderr = runCLI(t, "pull", env.offsite, env.medium)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(env.offsite, "docs", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
	assert.NoFileExists(t, filepath.Join(env.offsite, "debug.log"))

	code, out, _ = runCLI(t, "analyze", "--exclude", "*.log", env.home, env.medium)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Nothing to do.")
}

func TestRun_PushDryRunStagesNothing(t *testing.T) {
	env := newCLIEnv(t)
	writeTestFile(t, env.home, "a.txt", "a")
	code, _, _ := runCLI(t, "init", env.offsite, env.medium)
	require.Equal(t, 0, code)

	code, out, _ := runCLI(t, "push", "--dry-run", env.home, env.medium)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "a.txt")
	assert.NoFileExists(t, filepath.Join(env.medium, "instructions.json"))
	assert.NoDirExists(t, filepath.Join(env.medium, "Data"))
}

func TestRun_AnalyzeWithoutCatalogIsFatal(t *testing.T) {
	env := newCLIEnv(t)
	code, _, stderr := runCLI(t, "analyze", env.home, env.medium)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "catalog not found")
}

func TestRun_MissingRootIsFatal(t *testing.T) {
	env := newCLIEnv(t)
	code, _, stderr := runCLI(t, "init", filepath.Join(env.offsite, "nope"), env.medium)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "path not found")
}

func TestRun_PathsFromConfig(t *testing.T) {
	env := newCLIEnv(t)
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "sneaker")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	content := "[paths]\noffsite = \"" + filepath.ToSlash(env.offsite) + "\"\nmedium = \"" + filepath.ToSlash(env.medium) + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(content), 0o644))

	code, out, stderr := runCLI(t, "init")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Cataloged 0 files")
	assert.FileExists(t, filepath.Join(env.medium, "offsite_catalog.json"))
}

func TestRun_PartialArgumentsRejected(t *testing.T) {
	env := newCLIEnv(t)
	code, _, stderr := runCLI(t, "init", env.offsite)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "expected 2 arguments")
}

func TestRun_BadFlagValue(t *testing.T) {
	env := newCLIEnv(t)
	code, _, _ := runCLI(t, "init", env.offsite, env.medium)
	require.Equal(t, 0, code)

	code, _, stderr := runCLI(t, "push", "--min-free", "plenty", env.home, env.medium)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid --min-free")
}

func TestRoots(t *testing.T) {
	home, medium := "/h", "/m"
	got, err := roots(nil, []string{"HOME", "MEDIUM"}, []*string{&home, &medium})
	require.NoError(t, err)
	assert.Equal(t, []string{"/h", "/m"}, got)

	got, err = roots([]string{"a", "b"}, []string{"HOME", "MEDIUM"}, []*string{nil, nil})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = roots(nil, []string{"HOME", "MEDIUM"}, []*string{&home, nil})
	assert.ErrorContains(t, err, "MEDIUM not given")
}

func TestPatternFlag_Repeats(t *testing.T) {
	var patterns []string
	f := patternFlag{patterns: &patterns}
	require.NoError(t, f.Set("*.log"))
	require.NoError(t, f.Set("cache/"))
	assert.Equal(t, []string{"*.log", "cache/"}, patterns)
	assert.Equal(t, "pattern", f.Type())
}

func TestGenDocs_Markdown(t *testing.T) {
	dir := t.TempDir()
	code, _, stderr := runCLI(t, "gen-docs", "--format", "markdown", "--dir", dir)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(dir, "sneaker.md"))
	assert.FileExists(t, filepath.Join(dir, "sneaker_push.md"))
}
