package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"mentorcore/internal/errors"
)

// Resolve validates rel against root and returns the absolute path it names.
// The check runs on every path-accepting operation, not just at creation:
// it rejects absolute paths, ".." components, and symlink chains that escape
// the root after the workspace was built.
func Resolve(root, rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", errors.NewInvalidRequest("path is required")
	}
	if filepath.IsAbs(rel) {
		return "", errors.NewInvalidPath(rel)
	}
	if containsTraversal(rel) {
		return "", errors.NewInvalidPath(rel)
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	abs := filepath.Join(rootResolved, filepath.Clean(rel))

	// Resolve symlinks on whatever portion of the path exists. A symlink
	// planted inside the workspace (e.g. written by an executed command)
	// must not redirect reads or writes outside the root.
	resolved, err := resolveExisting(abs)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	if resolved != rootResolved && !strings.HasPrefix(resolved, rootResolved+string(filepath.Separator)) {
		return "", errors.NewInvalidPath(rel)
	}

	return abs, nil
}

// resolveExisting evaluates symlinks on the longest existing prefix of path
// and re-appends the non-existent remainder. EvalSymlinks alone fails on
// paths that do not exist yet, which writes legitimately target.
func resolveExisting(path string) (string, error) {
	remainder := ""
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(resolved, remainder), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			// Hit the filesystem root without finding anything.
			return filepath.Join(current, remainder), nil
		}
		remainder = filepath.Join(filepath.Base(current), remainder)
		current = parent
	}
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check forward slashes on all platforms (e.g. archive entries).
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
