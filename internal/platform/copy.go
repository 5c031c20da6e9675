package platform

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// CopyOptions tunes CopyFile.
type CopyOptions struct {
	// WrapReader, when set, wraps the source reader (for throttling).
	// Kernel fast paths are skipped because they bypass the reader.
	WrapReader func(io.Reader) io.Reader
}

// CopyFile copies the regular file src to dst. The data lands in a
// temporary sibling first and is renamed over dst, so dst is never seen
// half-written. Permission bits and modification time follow src.
func CopyFile(src, dst string, opts CopyOptions) (CopyResult, error) {
	srcFd, err := os.Open(src)
	if err != nil {
		return CopyResult{}, err
	}
	defer srcFd.Close()

	info, err := srcFd.Stat()
	if err != nil {
		return CopyResult{}, fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return CopyResult{}, fmt.Errorf("%s is not a regular file", src)
	}

	tmp := TempPath(dst)
	defer os.Remove(tmp) // no-op once renamed

	var result CopyResult
	if opts.WrapReader == nil && cloneFile(src, tmp) {
		result = CopyResult{BytesWritten: info.Size(), Method: Clonefile}
	} else {
		tmpFd, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
		if err != nil {
			return CopyResult{}, fmt.Errorf("create tmp %s: %w", tmp, err)
		}

		if opts.WrapReader != nil {
			result, err = copyReadWrite(opts.WrapReader(srcFd), tmpFd)
		} else {
			result, err = copyData(srcFd, tmpFd, info.Size())
		}
		if err != nil {
			tmpFd.Close()
			return result, fmt.Errorf("copy %s: %w", src, err)
		}
		if err := tmpFd.Close(); err != nil {
			return result, fmt.Errorf("close tmp %s: %w", tmp, err)
		}
	}

	mtime := info.ModTime()
	if err := os.Chtimes(tmp, mtime, mtime); err != nil {
		return result, fmt.Errorf("set times %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return result, fmt.Errorf("rename %s -> %s: %w", tmp, dst, err)
	}
	return result, nil
}

// writerOnly hides ReadFrom so io.CopyBuffer uses the pooled buffer.
type writerOnly struct {
	io.Writer
}

// copyReadWrite copies r to dst through a pooled buffer.
func copyReadWrite(r io.Reader, dst *os.File) (CopyResult, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)

	n, err := io.CopyBuffer(writerOnly{dst}, r, *bufp)
	return CopyResult{BytesWritten: n, Method: ReadWrite}, err
}
