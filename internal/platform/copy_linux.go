//go:build linux

package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// copyData tries copy_file_range, then sendfile, then read/write, falling
// through on unsupported or cross-device errors. Cross-device is the
// common case when the destination is a removable medium.
func copyData(src, dst *os.File, size int64) (CopyResult, error) {
	if size > 0 {
		_ = unix.Fallocate(int(dst.Fd()), 0, 0, size)
	}

	result, err := copyFileRange(src, dst, size)
	if err == nil || !isFallbackErr(err) {
		return result, err
	}

	result, err = copySendfile(src, dst, size)
	if err == nil || !isFallbackErr(err) {
		return result, err
	}

	if _, err := src.Seek(0, 0); err != nil {
		return CopyResult{}, err
	}
	if _, err := dst.Seek(0, 0); err != nil {
		return CopyResult{}, err
	}
	return copyReadWrite(src, dst)
}

func copyFileRange(src, dst *os.File, size int64) (CopyResult, error) {
	var roff, woff int64
	remaining := size
	var total int64
	for remaining > 0 {
		n, err := unix.CopyFileRange(int(src.Fd()), &roff, int(dst.Fd()), &woff, int(remaining), 0)
		if err != nil {
			if total == 0 {
				return CopyResult{}, err
			}
			return CopyResult{BytesWritten: total, Method: CopyFileRange}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}
	return CopyResult{BytesWritten: total, Method: CopyFileRange}, nil
}

func copySendfile(src, dst *os.File, size int64) (CopyResult, error) {
	var offset int64
	remaining := size
	var total int64
	for remaining > 0 {
		n, err := unix.Sendfile(int(dst.Fd()), int(src.Fd()), &offset, int(remaining))
		if err != nil {
			if total == 0 {
				return CopyResult{}, err
			}
			return CopyResult{BytesWritten: total, Method: Sendfile}, err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
		total += int64(n)
	}
	return CopyResult{BytesWritten: total, Method: Sendfile}, nil
}

// isFallbackErr reports whether err should trigger the next copy strategy.
func isFallbackErr(err error) bool {
	return errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP)
}
