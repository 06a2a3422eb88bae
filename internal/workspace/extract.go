package workspace

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mentorcore/internal/errors"
)

// skippedExtensions are binary and media formats never extracted into a
// workspace. The tree is for reading, editing, and running code.
var skippedExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".o": true, ".a": true, ".class": true, ".jar": true, ".war": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".mp3": true, ".mp4": true, ".wav": true,
	".avi": true, ".mov": true, ".pdf": true, ".zip": true, ".tar": true,
	".gz": true, ".bz2": true, ".7z": true, ".rar": true, ".iso": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
}

// Create extracts archive into a fresh directory scratch/<id> and returns a
// ready workspace. On any extraction failure the directory is removed: either
// the caller gets a fully built workspace or no filesystem state at all.
//
// Entries are rejected (ARCHIVE_ERROR, whole upload fails) when their path
// escapes the target directory; they are silently skipped when they are
// symlinks, oversized, or carry a denylisted extension. Archives that wrap
// everything in a single top-level folder are flattened.
func Create(scratchRoot, id string, archive []byte, limits Limits) (*Workspace, error) {
	if limits.MaxArchiveBytes > 0 && int64(len(archive)) > limits.MaxArchiveBytes {
		return nil, errors.NewTooLarge("archive", limits.MaxArchiveBytes, int64(len(archive)))
	}

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, errors.NewArchive(fmt.Sprintf("invalid zip archive: %v", err))
	}

	root := Root(scratchRoot, id)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.NewInternal(err)
	}

	ws, err := extractAll(root, reader, limits)
	if err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}

	ws.ID = id
	return ws, nil
}

func extractAll(root string, reader *zip.Reader, limits Limits) (*Workspace, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	extracted := 0
	for _, entry := range reader.File {
		name := entry.Name
		if name == "" {
			continue
		}
		if entry.FileInfo().IsDir() {
			if err := safeMkdir(absRoot, name); err != nil {
				return nil, err
			}
			continue
		}
		if entry.FileInfo().Mode()&os.ModeSymlink != 0 {
			continue
		}
		if skippedExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if limits.MaxEntryBytes > 0 && uint64ToInt64(entry.UncompressedSize64) > limits.MaxEntryBytes {
			continue
		}

		dest, err := entryPath(absRoot, name)
		if err != nil {
			return nil, err
		}

		kept, err := writeEntry(dest, entry, limits.MaxEntryBytes)
		if err != nil {
			return nil, err
		}
		if kept {
			extracted++
		}
	}

	if extracted == 0 {
		return nil, errors.NewArchive("archive contains no extractable files")
	}

	if err := flattenSingleRoot(absRoot); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &Workspace{RootPath: absRoot}, nil
}

// entryPath joins an archive entry name onto the extraction root and rejects
// anything that would land outside it (zip-slip).
func entryPath(absRoot, name string) (string, error) {
	if containsTraversal(name) || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", errors.NewArchive(fmt.Sprintf("entry escapes extraction directory: %s", name))
	}
	dest := filepath.Join(absRoot, filepath.FromSlash(name))
	if dest != absRoot && !strings.HasPrefix(dest, absRoot+string(filepath.Separator)) {
		return "", errors.NewArchive(fmt.Sprintf("entry escapes extraction directory: %s", name))
	}
	return dest, nil
}

func safeMkdir(absRoot, name string) error {
	dest, err := entryPath(absRoot, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// writeEntry extracts one archive entry to dest. It reports whether the file
// was kept: an entry whose real decompressed size exceeds maxBytes despite a
// smaller declared size is removed and does not count as extracted.
func writeEntry(dest string, entry *zip.File, maxBytes int64) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, errors.NewInternal(err)
	}

	src, err := entry.Open()
	if err != nil {
		return false, errors.NewArchive(fmt.Sprintf("read entry %s: %v", entry.Name, err))
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return false, errors.NewInternal(err)
	}
	defer out.Close()

	// The declared uncompressed size was checked before extraction, but a
	// crafted archive can lie about it, so the copy is bounded too.
	var r io.Reader = src
	if maxBytes > 0 {
		r = io.LimitReader(src, maxBytes+1)
	}
	n, err := io.Copy(out, r)
	if err != nil {
		return false, errors.NewArchive(fmt.Sprintf("extract entry %s: %v", entry.Name, err))
	}
	if maxBytes > 0 && n > maxBytes {
		_ = out.Close()
		_ = os.Remove(dest)
		return false, nil
	}
	return true, nil
}

// flattenSingleRoot hoists the children of a lone top-level directory to the
// workspace root. Archives conventionally wrap all content in one named
// folder; stripping it makes entry-point and marker detection work.
func flattenSingleRoot(absRoot string) error {
	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return nil
	}

	// Rename the wrapper aside first so a child with the same name cannot
	// collide while its siblings move up.
	wrapper := filepath.Join(absRoot, entries[0].Name())
	staging := filepath.Join(absRoot, ".flatten-"+entries[0].Name())
	if err := os.Rename(wrapper, staging); err != nil {
		return err
	}

	children, err := os.ReadDir(staging)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := os.Rename(filepath.Join(staging, child.Name()), filepath.Join(absRoot, child.Name())); err != nil {
			return err
		}
	}
	return os.Remove(staging)
}

func uint64ToInt64(v uint64) int64 {
	const maxInt64 = 1<<63 - 1
	if v > maxInt64 {
		return maxInt64
	}
	return int64(v)
}
