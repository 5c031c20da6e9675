//go:build !linux

package platform

import "os"

func copyData(src, dst *os.File, _ int64) (CopyResult, error) {
	return copyReadWrite(src, dst)
}
