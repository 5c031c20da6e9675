// Package stats accumulates the result summary of a transfer or apply batch.
package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector counts batch outcomes. Counters are atomic so a presenter may
// read a Snapshot while the batch is running.
type Collector struct {
	filesCopied  atomic.Int64
	filesMoved   atomic.Int64
	filesDeleted atomic.Int64
	filesSkipped atomic.Int64
	bytesCopied  atomic.Int64
	errors       atomic.Int64
	startTime    time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) AddCopied(bytes int64) {
	c.filesCopied.Add(1)
	c.bytesCopied.Add(bytes)
}

func (c *Collector) AddMoved()   { c.filesMoved.Add(1) }
func (c *Collector) AddDeleted() { c.filesDeleted.Add(1) }
func (c *Collector) AddSkipped() { c.filesSkipped.Add(1) }
func (c *Collector) AddError()   { c.errors.Add(1) }

// Result is the summary of one batch call. It is returned to the caller and
// never persisted.
type Result struct {
	FilesCopied      int64
	FilesMoved       int64
	FilesDeleted     int64
	FilesSkipped     int64
	BytesTransferred int64
	Errors           int64
	Elapsed          time.Duration
}

// Clean reports whether the batch finished without per-item errors.
func (r Result) Clean() bool {
	return r.Errors == 0
}

func (r Result) String() string {
	return fmt.Sprintf(
		"copied=%d moved=%d deleted=%d skipped=%d bytes=%d errors=%d",
		r.FilesCopied, r.FilesMoved, r.FilesDeleted, r.FilesSkipped,
		r.BytesTransferred, r.Errors,
	)
}

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Result {
	var elapsed time.Duration
	if !c.startTime.IsZero() {
		elapsed = time.Since(c.startTime)
	}
	return Result{
		FilesCopied:      c.filesCopied.Load(),
		FilesMoved:       c.filesMoved.Load(),
		FilesDeleted:     c.filesDeleted.Load(),
		FilesSkipped:     c.filesSkipped.Load(),
		BytesTransferred: c.bytesCopied.Load(),
		Errors:           c.errors.Load(),
		Elapsed:          elapsed,
	}
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
