// Package catalog persists the last-known inventory of the offsite tree.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/cases"

	"github.com/bamsammich/sneaker/internal/platform"
)

var (
	// ErrMissing is returned by Load when no catalog file exists.
	ErrMissing = errors.New("catalog not found")
	// ErrCorrupt is returned by Load when the catalog cannot be decoded.
	ErrCorrupt = errors.New("catalog corrupt")
)

// FileRecord is one regular file of a scanned tree.
type FileRecord struct {
	RelativePath string // platform separators
	Size         int64
	ModTime      time.Time // UTC
}

// Key returns the case-insensitive comparison key for a relative path.
func Key(relPath string) string {
	return cases.Fold().String(filepath.ToSlash(relPath))
}

// SameFingerprint reports whether two records have equal size and
// modification times closer than tolerance.
func SameFingerprint(a, b FileRecord, tolerance time.Duration) bool {
	if a.Size != b.Size {
		return false
	}
	d := a.ModTime.Sub(b.ModTime)
	if d < 0 {
		d = -d
	}
	return d < tolerance
}

// wireRecord is the on-medium JSON shape. Field names are shared with
// media written by other implementations.
type wireRecord struct {
	RelativePath  string    `json:"RelativePath"`
	Size          int64     `json:"Size"`
	LastWriteTime time.Time `json:"LastWriteTime"`
}

// Load reads a catalog file. It returns ErrMissing if the file does not
// exist and ErrCorrupt if it cannot be decoded.
func Load(path string) ([]FileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrMissing)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	records := make([]FileRecord, 0, len(wire))
	for _, w := range wire {
		if w.RelativePath == "" || w.Size < 0 {
			continue
		}
		records = append(records, FileRecord{
			RelativePath: filepath.FromSlash(w.RelativePath),
			Size:         w.Size,
			ModTime:      w.LastWriteTime.UTC(),
		})
	}
	return records, nil
}

// Save replaces the catalog file at path with records.
func Save(path string, records []FileRecord) error {
	wire := make([]wireRecord, len(records))
	for i, r := range records {
		wire[i] = wireRecord{
			RelativePath:  filepath.ToSlash(r.RelativePath),
			Size:          r.Size,
			LastWriteTime: r.ModTime.UTC(),
		}
	}

	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := platform.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
