// Package walker discovers markdown files under a directory tree for
// bulk import, applying include/exclude glob filtering.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the maximum file size to import (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// FileInfo holds metadata about a markdown file discovered during traversal.
type FileInfo struct {
	Path    string // Absolute path on disk.
	RelPath string // Path relative to the root directory.
	Size    int64  // File size in bytes.
}

// Config controls the behaviour of the Walk function.
type Config struct {
	RootDir     string   // Root directory to walk.
	Include     []string // Glob patterns, only matching files are included.
	Exclude     []string // Glob patterns, matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// metadata for every markdown file that passes filtering. Non-markdown
// files are skipped regardless of include patterns.
func Walk(config Config) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if shouldSkipDir(name) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if !MatchesInclude(relPath, config.Include) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		if info.Size() > maxSize {
			return nil
		}

		files = append(files, FileInfo{
			Path:    path,
			RelPath: filepath.ToSlash(relPath),
			Size:    info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// ReadContent returns the content of a discovered file as a string.
func ReadContent(fi FileInfo) (string, error) {
	data, err := os.ReadFile(fi.Path)
	if err != nil {
		return "", fmt.Errorf("walker: read %s: %w", fi.RelPath, err)
	}
	return string(data), nil
}
