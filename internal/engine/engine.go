// Package engine implements the sneakernet diff-and-apply protocol: scanning
// a home tree, diffing it against the offsite catalog, staging payloads onto
// the medium and applying the resulting manifest to the offsite tree.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bamsammich/sneaker/internal/catalog"
	"github.com/bamsammich/sneaker/internal/event"
	"github.com/bamsammich/sneaker/internal/filter"
	"github.com/bamsammich/sneaker/internal/manifest"
	"github.com/bamsammich/sneaker/internal/medium"
	"github.com/bamsammich/sneaker/internal/platform"
)

var (
	// ErrPathNotFound is returned when a home, offsite or medium root does
	// not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrCatalogMissing is returned by AnalyzeHome before the medium has
	// been initialized.
	ErrCatalogMissing = catalog.ErrMissing
)

const (
	DefaultMinFree   int64 = 200 << 20
	DefaultTolerance       = 100 * time.Millisecond
)

// ProgressFunc receives a human-readable message and a completion
// percentage. It is called synchronously from the goroutine running the
// batch.
type ProgressFunc func(message string, percent int)

// Options configures an Engine. The zero value is usable.
type Options struct {
	// MinFreeBytes stops staging once the medium has less free space.
	// Zero means DefaultMinFree.
	MinFreeBytes int64
	// Tolerance is the largest mtime difference still treated as equal.
	// Zero means DefaultTolerance.
	Tolerance time.Duration
	// Verify re-reads every staged payload and compares BLAKE3 digests.
	Verify bool
	// BWLimit caps staging throughput in bytes per second. Zero is unlimited.
	BWLimit int64
	// FreeSpace reports free bytes for a path. Defaults to platform.FreeSpace.
	FreeSpace func(path string) (uint64, error)
	Logger    *slog.Logger
}

// Engine runs analysis, transfer and apply batches. It keeps no state
// between calls.
type Engine struct {
	opts Options
	log  *slog.Logger
}

// New creates an Engine, filling unset options with defaults.
func New(opts Options) *Engine {
	if opts.MinFreeBytes == 0 {
		opts.MinFreeBytes = DefaultMinFree
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.FreeSpace == nil {
		opts.FreeSpace = platform.FreeSpace
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Engine{opts: opts, log: log}
}

// AnalyzeHome scans homeRoot, honoring exclusions, and diffs it against
// the catalog on the medium. A corrupt catalog is treated as empty.
func (e *Engine) AnalyzeHome(
	ctx context.Context,
	homeRoot, mediumRoot string,
	exclusions []string,
	progress ProgressFunc,
) ([]manifest.Instruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireDir(homeRoot); err != nil {
		return nil, err
	}
	if err := requireDir(mediumRoot); err != nil {
		return nil, err
	}
	m, err := filter.New(exclusions)
	if err != nil {
		return nil, fmt.Errorf("exclusions: %w", err)
	}

	r := e.reporter(progress)
	med := medium.New(mediumRoot)
	offsite, err := catalog.Load(med.CatalogPath())
	switch {
	case errors.Is(err, catalog.ErrMissing):
		return nil, err
	case errors.Is(err, catalog.ErrCorrupt):
		r.emit(event.Event{Type: event.Warning, Reason: "unreadable catalog (treated as empty)", Path: med.CatalogPath(), Error: err}, 0)
		offsite = nil
	case err != nil:
		return nil, err
	}

	r.emit(event.Event{Type: event.Phase, Op: "Scanning home tree..."}, 0)
	home, err := scan(homeRoot, m, r.scanned("Scanning home tree...", 0))
	if err != nil {
		return nil, err
	}

	r.emit(event.Event{Type: event.Phase, Op: "Comparing against offsite catalog..."}, 50)
	instructions := Diff(home, offsite, e.opts.Tolerance)

	copies, moves, deletes := manifest.Counts(instructions)
	r.emit(event.Event{
		Type: event.Phase,
		Op:   fmt.Sprintf("Analysis complete: %d copies, %d moves, %d deletes", copies, moves, deletes),
	}, 100)
	return instructions, nil
}

// AnalyzeOffsite returns the instructions pending on the medium. A missing
// or unreadable manifest yields an empty list.
func (e *Engine) AnalyzeOffsite(mediumRoot string) []manifest.Instruction {
	path := medium.New(mediumRoot).ManifestPath()
	list, err := manifest.Load(path)
	if err != nil {
		e.log.Warn("ignoring unreadable manifest", "path", path, "error", err)
		return nil
	}
	return list
}

// InitializeCatalog writes a fresh, unfiltered catalog of offsiteRoot to the
// medium and discards any pending manifest and staged payloads. It returns
// the number of catalogued files.
func (e *Engine) InitializeCatalog(
	ctx context.Context,
	offsiteRoot, mediumRoot string,
	progress ProgressFunc,
) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := requireDir(offsiteRoot); err != nil {
		return 0, err
	}
	if err := requireDir(mediumRoot); err != nil {
		return 0, err
	}
	return e.generateCatalog(offsiteRoot, medium.New(mediumRoot), e.reporter(progress))
}

func (e *Engine) generateCatalog(offsiteRoot string, med medium.Medium, r *reporter) (int, error) {
	r.emit(event.Event{Type: event.Phase, Op: "Generating new catalog..."}, 100)

	if err := med.Reset(); err != nil {
		return 0, err
	}
	records, err := scan(offsiteRoot, nil, r.scanned("Generating new catalog...", 100))
	if err != nil {
		return 0, err
	}
	if err := catalog.Save(med.CatalogPath(), records); err != nil {
		return 0, err
	}

	r.emit(event.Event{Type: event.Phase, Op: fmt.Sprintf("Catalog written: %d files", len(records))}, 100)
	return len(records), nil
}

func (e *Engine) reporter(progress ProgressFunc) *reporter {
	return &reporter{progress: progress, log: e.log}
}

// reporter forwards events to the progress callback and the logger.
type reporter struct {
	progress ProgressFunc
	log      *slog.Logger
}

func (r *reporter) emit(ev event.Event, percent int) {
	r.log.LogAttrs(context.Background(), ev.Level(), ev.Message(), ev.Attrs()...)
	if r.progress != nil {
		r.progress(ev.Message(), percent)
	}
}

// scanned returns a scan callback that reports the running file count to
// the progress callback only. The total is unknown while walking, so pct
// stays fixed.
func (r *reporter) scanned(phase string, pct int) func(int) {
	if r.progress == nil {
		return nil
	}
	return func(files int) {
		r.progress(fmt.Sprintf("%s %d files", phase, files), pct)
	}
}

// percent returns done/total as an integer percentage.
func percent(done, total int) int {
	if total <= 0 {
		return 100
	}
	return done * 100 / total
}
