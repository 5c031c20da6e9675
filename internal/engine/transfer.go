package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bamsammich/sneaker/internal/event"
	"github.com/bamsammich/sneaker/internal/manifest"
	"github.com/bamsammich/sneaker/internal/medium"
	"github.com/bamsammich/sneaker/internal/platform"
	"github.com/bamsammich/sneaker/internal/stats"
)

// TransferToMedium stages the payload of every COPY instruction into the
// medium's Data area and writes the manifest. MOVE and DELETE instructions
// pass through unchanged.
//
// Copies stop once the medium's free space drops below the configured
// minimum, or when ctx is cancelled; the remaining copies are skipped and
// left out of the manifest so the next analysis queues them again. A copy
// that fails is counted in Result.Errors and also left out.
func (e *Engine) TransferToMedium(
	ctx context.Context,
	homeRoot, mediumRoot string,
	instructions []manifest.Instruction,
	progress ProgressFunc,
) (stats.Result, error) {
	if err := ctx.Err(); err != nil {
		return stats.Result{}, err
	}
	if err := requireDir(homeRoot); err != nil {
		return stats.Result{}, err
	}
	if err := requireDir(mediumRoot); err != nil {
		return stats.Result{}, err
	}

	med := medium.New(mediumRoot)
	if err := med.Reset(); err != nil {
		return stats.Result{}, err
	}

	r := e.reporter(progress)
	c := stats.NewCollector()
	t := &transfer{engine: e, ctx: ctx, home: homeRoot, medium: med}
	if e.opts.BWLimit > 0 {
		t.wrapper = throttle(ctx, NewBWLimiter(e.opts.BWLimit))
	}

	var copies []manifest.Instruction
	var keep []manifest.Instruction
	for _, in := range instructions {
		if in.Action == manifest.Copy {
			copies = append(copies, in)
		} else {
			keep = append(keep, in)
		}
	}

	skipReason := ""
	for i, in := range copies {
		pct := percent(i+1, len(copies))

		if err := in.Validate(); err != nil {
			c.AddError()
			r.emit(event.Event{Type: event.Failed, Op: "validating", Path: in.Source, Error: err}, pct)
			continue
		}

		if skipReason == "" {
			skipReason = t.stopReason()
			if skipReason == "medium full" {
				r.emit(event.Event{Type: event.Warning, Reason: "medium full, stopping copies at", Path: in.Source}, pct)
			}
		}
		if skipReason != "" {
			c.AddSkipped()
			r.emit(event.Event{Type: event.Skipped, Path: in.Source, Reason: skipReason}, pct)
			continue
		}

		n, err := t.stage(in)
		if err != nil {
			if ctx.Err() != nil {
				skipReason = "cancelled"
				c.AddSkipped()
				r.emit(event.Event{Type: event.Skipped, Path: in.Source, Reason: skipReason}, pct)
				continue
			}
			c.AddError()
			r.emit(event.Event{Type: event.Failed, Op: "copying", Path: in.Source, Error: err}, pct)
			continue
		}

		c.AddCopied(n)
		keep = append(keep, in)
		r.emit(event.Event{Type: event.Copied, Path: in.Source, Size: n}, pct)
	}

	result := c.Snapshot()
	if err := manifest.Save(med.ManifestPath(), keep); err != nil {
		return result, err
	}
	r.emit(event.Event{Type: event.Phase, Op: fmt.Sprintf("Manifest written: %d instructions", len(keep))}, 100)
	return result, nil
}

// transfer holds the state of one TransferToMedium batch.
type transfer struct {
	engine  *Engine
	ctx     context.Context
	home    string
	medium  medium.Medium
	wrapper func(io.Reader) io.Reader
}

// stopReason returns why staging must stop before the next copy, or "".
func (t *transfer) stopReason() string {
	if t.ctx.Err() != nil {
		return "cancelled"
	}
	free, err := t.engine.opts.FreeSpace(t.medium.Root)
	if err != nil {
		if !errors.Is(err, errors.ErrUnsupported) {
			t.engine.log.Warn("cannot determine free space on medium", "path", t.medium.Root, "error", err)
		}
		return ""
	}
	if free < uint64(t.engine.opts.MinFreeBytes) {
		return "medium full"
	}
	return ""
}

// stage copies one payload into the Data area and returns the bytes written.
func (t *transfer) stage(in manifest.Instruction) (int64, error) {
	src := filepath.Join(t.home, in.Source)
	dst := t.medium.StagedPath(in.Destination)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create staging dir: %w", err)
	}
	res, err := platform.CopyFile(src, dst, platform.CopyOptions{WrapReader: t.wrapper})
	if err != nil {
		return 0, err
	}
	if t.engine.opts.Verify {
		if err := verifyCopy(src, dst); err != nil {
			_ = os.Remove(dst)
			return 0, err
		}
	}
	return res.BytesWritten, nil
}
