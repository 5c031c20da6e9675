// Package platform wraps the OS-specific file operations the engine needs:
// fast whole-file copies, atomic replacement, free-space queries and
// attribute checks.
package platform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	CopyFileRange            // Linux copy_file_range(2)
	Sendfile                 // Linux sendfile(2)
	Clonefile                // macOS clonefile(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	case Clonefile:
		return "clonefile"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// TempPath returns a unique hidden sibling of path, suitable as the
// staging name for an atomic rename onto path.
func TempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.sneaker-tmp", base, uuid.New().String()[:8]))
}

// IsTempName reports whether name was produced by TempPath. Such files are
// leftovers of an interrupted copy and are never catalogued.
func IsTempName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".sneaker-tmp")
}
