// Where: internal/domain/snapshot/snapshot.go
// What: Shared types for copying a model snapshot into a local directory.
// Why: Hub and S3 sources report the same totals and obey the same path rules.
package snapshot

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Stats summarises one snapshot copy.
type Stats struct {
	Files   int
	Skipped int
	Bytes   int64
}

// Scan totals the regular files below root. Top-level directories named in
// ignore are not descended into.
func Scan(root string, ignore ...string) (Stats, error) {
	var stats Stats
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if filepath.Dir(path) == filepath.Clean(root) && slices.Contains(ignore, entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		stats.Files++
		stats.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("scan %s: %w", root, err)
	}
	return stats, nil
}

// LocalPath joins rel under root and rejects paths that escape root.
func LocalPath(root, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(rel, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("refusing to write outside %s: %q", root, rel)
	}
	return filepath.Join(root, clean), nil
}

// UpToDate reports whether path exists as a regular file of the expected size.
// A negative size means the size is unknown and the file is never up to date.
func UpToDate(path string, size int64) bool {
	if size < 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Size() == size
}
