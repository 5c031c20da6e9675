package engine

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bamsammich/sneaker/internal/manifest"
	"github.com/bamsammich/sneaker/internal/stats"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// at returns baseTime shifted by n seconds.
func at(n int) time.Time {
	return baseTime.Add(time.Duration(n) * time.Second)
}

func writeFile(t *testing.T, root, rel, content string, mtime time.Time) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(p, mtime, mtime))
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// treeContents maps every regular file under root ('/'-separated relative
// path) to its content.
func treeContents(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func plentyOfSpace(string) (uint64, error) { return 1 << 40, nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(opts Options) *Engine {
	if opts.FreeSpace == nil {
		opts.FreeSpace = plentyOfSpace
	}
	opts.Logger = testLogger()
	return New(opts)
}

// syncEnv is a home tree, an offsite tree and a medium.
type syncEnv struct {
	home, offsite, medium string
	eng                   *Engine
}

func newSyncEnv(t *testing.T) *syncEnv {
	t.Helper()
	base := t.TempDir()
	env := &syncEnv{
		home:    filepath.Join(base, "home"),
		offsite: filepath.Join(base, "offsite"),
		medium:  filepath.Join(base, "usb"),
		eng:     newTestEngine(Options{}),
	}
	for _, dir := range []string{env.home, env.offsite, env.medium} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	return env
}

func (env *syncEnv) initCatalog(t *testing.T) {
	t.Helper()
	_, err := env.eng.InitializeCatalog(context.Background(), env.offsite, env.medium, nil)
	require.NoError(t, err)
}

func (env *syncEnv) analyze(t *testing.T, exclusions ...string) []manifest.Instruction {
	t.Helper()
	list, err := env.eng.AnalyzeHome(context.Background(), env.home, env.medium, exclusions, nil)
	require.NoError(t, err)
	return list
}

// sync runs analyze, transfer, analyze-offsite and apply, requiring both
// batches to finish without errors.
func (env *syncEnv) sync(t *testing.T, exclusions ...string) (push, pull stats.Result) {
	t.Helper()
	ctx := context.Background()

	push, err := env.eng.TransferToMedium(ctx, env.home, env.medium, env.analyze(t, exclusions...), nil)
	require.NoError(t, err)
	require.Zero(t, push.Errors)

	pending := env.eng.AnalyzeOffsite(env.medium)
	pull, err = env.eng.ApplyFromMedium(ctx, env.offsite, env.medium, pending, nil)
	require.NoError(t, err)
	require.Zero(t, pull.Errors)
	return push, pull
}

// byAction groups instruction strings by action for order-free assertions.
func byAction(list []manifest.Instruction) map[manifest.Action][]string {
	out := make(map[manifest.Action][]string)
	for _, in := range list {
		out[in.Action] = append(out[in.Action], in.String())
	}
	return out
}
