package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bamsammich/sneaker/internal/catalog"
	"github.com/bamsammich/sneaker/internal/filter"
	"github.com/bamsammich/sneaker/internal/platform"
)

// Scan walks root and returns one record per regular file, in lexical walk
// order. Symlinks, system entries and anything m excludes are skipped.
// Entries that cannot be read are omitted rather than failing the scan.
// A nil matcher excludes nothing.
func Scan(root string, m *filter.Matcher) ([]catalog.FileRecord, error) {
	return scan(root, m, nil)
}

// scanTick is how many records scan collects between onProgress calls.
const scanTick = 100

// scan is Scan with a callback invoked with the running record count every
// scanTick files.
func scan(root string, m *filter.Matcher, onProgress func(files int)) ([]catalog.FileRecord, error) {
	if err := requireDir(root); err != nil {
		return nil, err
	}

	var records []catalog.FileRecord
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if path == root {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil // vanished between readdir and stat
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if platform.IsSystemOrReparse(info) || m.Excluded(rel, true) {
				return fs.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || platform.IsSystemOrReparse(info) {
			return nil
		}
		if platform.IsTempName(d.Name()) || m.Excluded(rel, false) {
			return nil
		}

		records = append(records, catalog.FileRecord{
			RelativePath: rel,
			Size:         info.Size(),
			ModTime:      info.ModTime().UTC(),
		})
		if onProgress != nil && len(records)%scanTick == 0 {
			onProgress(len(records))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return records, nil
}

// requireDir returns ErrPathNotFound unless path is an existing directory.
func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	return nil
}
