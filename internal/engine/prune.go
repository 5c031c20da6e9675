package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bamsammich/sneaker/internal/platform"
)

// pruneEmptyDirs removes every empty directory below root, deepest first,
// so a parent emptied by removing its children goes too. root itself and
// system directories are kept. It returns the number of directories removed.
func pruneEmptyDirs(root string) int {
	var dirs []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == root || !d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil && platform.IsSystemOrReparse(info) {
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})

	// Reverse lexical order visits children before their parents.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	removed := 0
	for _, dir := range dirs {
		// Remove fails on non-empty directories, which is what we want.
		if os.Remove(dir) == nil {
			removed++
		}
	}
	return removed
}
