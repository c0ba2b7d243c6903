// Where: internal/infra/fileops/file_ops.go
// What: Shared filesystem operations for model copies.
// Why: A file is only visible under its final name once it is complete.
package fileops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const partialSuffix = ".incomplete"

func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

func partialPath(dest string) string {
	return dest + partialSuffix
}

// CopyToFile streams r into a sibling partial file and renames it to dest once
// the stream ends. A stale partial file from an earlier run is truncated.
// It returns the number of bytes written.
func CopyToFile(dest string, r io.Reader) (int64, error) {
	if err := EnsureDir(filepath.Dir(dest)); err != nil {
		return 0, fmt.Errorf("create dir for %s: %w", dest, err)
	}
	partial := partialPath(dest)
	out, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", partial, err)
	}
	written, copyErr := io.Copy(out, r)
	closeErr := out.Close()
	if copyErr != nil {
		return written, fmt.Errorf("write %s: %w", dest, copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("close %s: %w", partial, closeErr)
	}
	if err := os.Rename(partial, dest); err != nil {
		return written, fmt.Errorf("finalize %s: %w", dest, err)
	}
	return written, nil
}
