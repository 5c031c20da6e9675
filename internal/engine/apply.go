package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bamsammich/sneaker/internal/event"
	"github.com/bamsammich/sneaker/internal/manifest"
	"github.com/bamsammich/sneaker/internal/medium"
	"github.com/bamsammich/sneaker/internal/platform"
	"github.com/bamsammich/sneaker/internal/stats"
)

// stagedMove is a MOVE whose source has been renamed to a temporary name.
type stagedMove struct {
	in  manifest.Instruction
	tmp string
}

// ApplyFromMedium applies instructions to offsiteRoot, taking COPY payloads
// from the medium's Data area, then consumes the manifest and Data area and
// regenerates the catalog.
//
// Every MOVE source is first renamed to a unique temporary name next to it,
// so swaps and rotations never overwrite a file another move still needs.
// Then deletes run, empty directories are pruned, moves are finalized and
// copies are written. Per-item failures are counted and skipped. Once
// started the batch runs to completion regardless of ctx.
func (e *Engine) ApplyFromMedium(
	ctx context.Context,
	offsiteRoot, mediumRoot string,
	instructions []manifest.Instruction,
	progress ProgressFunc,
) (stats.Result, error) {
	if err := ctx.Err(); err != nil {
		return stats.Result{}, err
	}
	if err := requireDir(offsiteRoot); err != nil {
		return stats.Result{}, err
	}
	if err := requireDir(mediumRoot); err != nil {
		return stats.Result{}, err
	}

	r := e.reporter(progress)
	c := stats.NewCollector()
	med := medium.New(mediumRoot)

	var moves, deletes, copies []manifest.Instruction
	for _, in := range instructions {
		if err := in.Validate(); err != nil {
			c.AddError()
			r.emit(event.Event{Type: event.Failed, Op: "validating", Path: in.Source, Error: err}, 0)
			continue
		}
		switch in.Action {
		case manifest.Move:
			moves = append(moves, in)
		case manifest.Delete:
			deletes = append(deletes, in)
		case manifest.Copy:
			copies = append(copies, in)
		}
	}

	total := len(moves) + len(deletes) + len(copies)
	done := 0

	staged := stageMoves(offsiteRoot, moves, r, c)

	for _, in := range deletes {
		done++
		applyDelete(offsiteRoot, in, r, c, percent(done, total))
	}

	r.emit(event.Event{Type: event.Phase, Op: "Cleaning empty directories..."}, percent(done, total))
	pruneEmptyDirs(offsiteRoot)

	done = finalizeMoves(offsiteRoot, staged, r, c, done, total)
	done += len(moves) - len(staged)

	for _, in := range copies {
		done++
		applyCopy(offsiteRoot, med, in, r, c, percent(done, total))
	}

	pruneEmptyDirs(offsiteRoot)
	result := c.Snapshot()
	if _, err := e.generateCatalog(offsiteRoot, med, r); err != nil {
		return result, fmt.Errorf("regenerate catalog: %w", err)
	}
	return result, nil
}

// moveTempPath returns the staging name for a move source. It stays in the
// source's directory so the rename never crosses a volume.
func moveTempPath(path string) string {
	return fmt.Sprintf("%s.%s.sneakertemp", path, uuid.New().String())
}

func stageMoves(root string, moves []manifest.Instruction, r *reporter, c *stats.Collector) []stagedMove {
	staged := make([]stagedMove, 0, len(moves))
	for _, in := range moves {
		src := filepath.Join(root, in.Source)
		info, err := os.Lstat(src)
		if err != nil || !info.Mode().IsRegular() {
			r.emit(event.Event{Type: event.Warning, Reason: "move source missing", Path: in.Source}, 0)
			continue
		}
		tmp := moveTempPath(src)
		if err := os.Rename(src, tmp); err != nil {
			c.AddError()
			r.emit(event.Event{Type: event.Failed, Op: "staging move", Path: in.Source, Error: err}, 0)
			continue
		}
		staged = append(staged, stagedMove{in: in, tmp: tmp})
	}
	return staged
}

func applyDelete(root string, in manifest.Instruction, r *reporter, c *stats.Collector, pct int) {
	path := filepath.Join(root, in.Source)
	info, err := os.Lstat(path)
	if err != nil {
		return // already gone
	}
	if info.IsDir() {
		r.emit(event.Event{Type: event.Warning, Reason: "delete target is a directory", Path: in.Source}, pct)
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.AddError()
		r.emit(event.Event{Type: event.Failed, Op: "deleting", Path: in.Source, Error: err}, pct)
		return
	}
	c.AddDeleted()
	r.emit(event.Event{Type: event.Deleted, Path: in.Source}, pct)
}

// finalizeMoves renames every staged temp onto its destination. A move
// can be blocked by a directory at its destination that still holds
// another move's temp, so blocked moves are retried after each pass that
// made progress. Moves still blocked after that are rolled back. It returns
// the updated done count.
func finalizeMoves(root string, staged []stagedMove, r *reporter, c *stats.Collector, done, total int) int {
	pending := staged
	var errs []error
	for len(pending) > 0 {
		var blocked []stagedMove
		errs = errs[:0]
		for _, sm := range pending {
			tmp, err := placeFile(sm.tmp, filepath.Join(root, sm.in.Destination))
			sm.tmp = tmp
			if err != nil {
				blocked = append(blocked, sm)
				errs = append(errs, err)
				continue
			}
			done++
			c.AddMoved()
			r.emit(event.Event{Type: event.Moved, Path: sm.in.Source, Dest: sm.in.Destination}, percent(done, total))
		}
		if len(blocked) == len(pending) {
			pending = blocked
			break
		}
		pending = blocked
		pruneEmptyDirs(root)
	}

	for i, sm := range pending {
		done++
		c.AddError()
		r.emit(event.Event{Type: event.Failed, Op: "finishing move", Path: sm.in.Source, Error: errs[i]}, percent(done, total))

		// Best effort: put the file back under its old name if that is free.
		orig := filepath.Join(root, sm.in.Source)
		if _, statErr := os.Lstat(orig); errors.Is(statErr, fs.ErrNotExist) {
			_ = os.MkdirAll(filepath.Dir(orig), 0o755)
			_ = os.Rename(sm.tmp, orig)
		}
	}
	return done
}

// placeFile renames tmp onto dst, creating parents and replacing an
// existing file at dst. An empty directory at dst is removed; when tmp
// itself lives inside that directory it is first moved next to it. It
// returns where tmp ended up, for rollback.
func placeFile(tmp, dst string) (string, error) {
	if info, err := os.Lstat(dst); err == nil {
		if info.IsDir() {
			if strings.HasPrefix(tmp, dst+string(filepath.Separator)) {
				outside := moveTempPath(dst)
				if err := os.Rename(tmp, outside); err != nil {
					return tmp, err
				}
				tmp = outside
			}
			pruneEmptyDirs(dst)
			if err := os.Remove(dst); err != nil {
				return tmp, err
			}
		} else if err := os.Remove(dst); err != nil {
			return tmp, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return tmp, err
	}
	return tmp, os.Rename(tmp, dst)
}

func applyCopy(root string, med medium.Medium, in manifest.Instruction, r *reporter, c *stats.Collector, pct int) {
	payload := med.StagedPath(in.Source)
	if info, err := os.Stat(payload); err != nil || !info.Mode().IsRegular() {
		c.AddSkipped()
		r.emit(event.Event{Type: event.Skipped, Reason: "missing on medium", Path: in.Source}, pct)
		return
	}

	dst := filepath.Join(root, in.Destination)
	if info, err := os.Lstat(dst); err == nil && info.IsDir() {
		if err := os.RemoveAll(dst); err != nil {
			c.AddError()
			r.emit(event.Event{Type: event.Failed, Op: "replacing directory", Path: in.Destination, Error: err}, pct)
			return
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		c.AddError()
		r.emit(event.Event{Type: event.Failed, Op: "copying", Path: in.Source, Error: err}, pct)
		return
	}

	res, err := platform.CopyFile(payload, dst, platform.CopyOptions{})
	if err != nil {
		c.AddError()
		r.emit(event.Event{Type: event.Failed, Op: "copying", Path: in.Source, Error: err}, pct)
		return
	}
	c.AddCopied(res.BytesWritten)
	r.emit(event.Event{Type: event.Updated, Path: in.Source, Size: res.BytesWritten}, pct)
}
