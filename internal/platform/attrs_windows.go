//go:build windows

package platform

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/windows"
)

// IsSystemOrReparse reports whether info carries the SYSTEM or
// REPARSE_POINT attribute.
func IsSystemOrReparse(info fs.FileInfo) bool {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return false
	}
	return data.FileAttributes&(windows.FILE_ATTRIBUTE_SYSTEM|windows.FILE_ATTRIBUTE_REPARSE_POINT) != 0
}
