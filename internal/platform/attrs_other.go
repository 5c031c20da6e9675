//go:build !windows

package platform

import (
	"io/fs"
	"strings"
)

// IsSystemOrReparse reports whether info is a symlink, or one of the
// volume bookkeeping directories removable filesystems carry.
func IsSystemOrReparse(info fs.FileInfo) bool {
	if info.Mode()&fs.ModeSymlink != 0 {
		return true
	}
	if !info.IsDir() {
		return false
	}
	switch strings.ToLower(info.Name()) {
	case "system volume information", "$recycle.bin", "lost+found", ".trashes", ".spotlight-v100", ".fseventsd":
		return true
	}
	return false
}
