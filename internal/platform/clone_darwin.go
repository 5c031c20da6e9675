//go:build darwin

package platform

import "golang.org/x/sys/unix"

// cloneFile makes a copy-on-write clone of src at dst. It reports false
// when cloning is unsupported (different volume, non-APFS) so the caller
// falls back to copying bytes.
func cloneFile(src, dst string) bool {
	return unix.Clonefile(src, dst, unix.CLONE_NOFOLLOW) == nil
}
