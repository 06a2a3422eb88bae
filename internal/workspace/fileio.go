package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sergi/go-diff/diffmatchpatch"

	"mentorcore/internal/errors"
)

// ReadFile returns the content of a regular file inside the workspace. The
// relative path is re-validated on every call; reads above maxBytes fail
// with TOO_LARGE rather than truncating silently.
func ReadFile(root, rel string, maxBytes int64) (string, error) {
	abs, err := Resolve(root, rel)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", errors.NewNotFound(rel)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", errors.NewTooLarge("file", maxBytes, info.Size())
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return string(data), nil
}

// WriteFile stores content at the relative path, creating intermediate
// directories as needed. The write goes to a temp file in the same directory
// followed by a rename, so a concurrent reader sees either the old or the
// new content, never a half-written file.
func WriteFile(root, rel, content string) error {
	abs, err := Resolve(root, rel)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewInternal(err)
	}

	tmp, err := os.CreateTemp(dir, ".write-*")
	if err != nil {
		return errors.NewInternal(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return errors.NewInternal(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewInternal(err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewInternal(err)
	}
	return nil
}

// DiffFile renders a line-oriented preview of what writing newContent at rel
// would change. A missing file diffs against empty content, so the preview
// also covers file creation.
func DiffFile(root, rel, newContent string, maxBytes int64) (string, error) {
	abs, err := Resolve(root, rel)
	if err != nil {
		return "", err
	}

	current := ""
	if info, statErr := os.Stat(abs); statErr == nil && info.Mode().IsRegular() {
		if maxBytes > 0 && info.Size() > maxBytes {
			return "", errors.NewTooLarge("file", maxBytes, info.Size())
		}
		data, readErr := os.ReadFile(abs)
		if readErr != nil {
			return "", errors.NewInternal(readErr)
		}
		current = string(data)
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(current, newContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []byte
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range splitKeepNonEmpty(d.Text) {
			out = append(out, fmt.Sprintf("%s%s\n", prefix, line)...)
		}
	}
	return string(out), nil
}

func splitKeepNonEmpty(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
