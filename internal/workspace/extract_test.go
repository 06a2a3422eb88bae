package workspace

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mentorcore/internal/errors"
)

// makeZip builds an in-memory zip archive from name → content pairs.
func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func testLimits() Limits {
	return Limits{
		MaxEntryBytes:   1 << 20,
		MaxArchiveBytes: 8 << 20,
		MaxReadBytes:    1 << 20,
		MaxOutputBytes:  64 << 10,
	}
}

func TestCreate_ExtractsFiles(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{
		"main.py":       "print('hi')",
		"lib/helper.py": "x = 1",
	})

	ws, err := Create(scratch, "ws1", archive, testLimits())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ws.ID != "ws1" {
		t.Errorf("ID = %q, want ws1", ws.ID)
	}

	data, err := os.ReadFile(filepath.Join(ws.RootPath, "main.py"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "print('hi')" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "lib", "helper.py")); err != nil {
		t.Errorf("nested file missing: %v", err)
	}
}

func TestCreate_ZipSlipRejected(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{
		"ok.py":       "x = 1",
		"../evil.txt": "pwned",
	})

	_, err := Create(scratch, "ws1", archive, testLimits())
	if !errors.Is(err, errors.ErrArchive) {
		t.Fatalf("Create should fail with ARCHIVE_ERROR, got: %v", err)
	}

	// The whole upload fails and nothing is left behind
	if _, statErr := os.Stat(filepath.Join(scratch, "ws1")); !os.IsNotExist(statErr) {
		t.Error("failed extraction left the workspace directory behind")
	}
	if _, statErr := os.Stat(filepath.Join(scratch, "..", "evil.txt")); statErr == nil {
		t.Error("zip-slip entry escaped the extraction directory")
	}
}

func TestCreate_AbsolutePathRejected(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{
		"/tmp/abs.txt": "nope",
	})

	_, err := Create(scratch, "ws1", archive, testLimits())
	if !errors.Is(err, errors.ErrArchive) {
		t.Fatalf("Create should fail with ARCHIVE_ERROR, got: %v", err)
	}
}

func TestCreate_InvalidZip(t *testing.T) {
	scratch := t.TempDir()
	_, err := Create(scratch, "ws1", []byte("this is not a zip"), testLimits())
	if !errors.Is(err, errors.ErrArchive) {
		t.Fatalf("Create should fail with ARCHIVE_ERROR, got: %v", err)
	}
}

func TestCreate_ArchiveTooLarge(t *testing.T) {
	scratch := t.TempDir()
	limits := testLimits()
	limits.MaxArchiveBytes = 10

	archive := makeZip(t, map[string]string{"a.py": "x = 1"})
	_, err := Create(scratch, "ws1", archive, limits)
	if !errors.Is(err, errors.ErrTooLarge) {
		t.Fatalf("Create should fail with TOO_LARGE, got: %v", err)
	}
}

func TestCreate_SkipsBinaryExtensions(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{
		"main.py":   "print('hi')",
		"logo.png":  "\x89PNG fake",
		"build.exe": "MZ fake",
	})

	ws, err := Create(scratch, "ws1", archive, testLimits())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "logo.png")); err == nil {
		t.Error("binary extension was extracted")
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "build.exe")); err == nil {
		t.Error("executable was extracted")
	}
}

func TestCreate_SkipsOversizedEntries(t *testing.T) {
	scratch := t.TempDir()
	limits := testLimits()
	limits.MaxEntryBytes = 8

	archive := makeZip(t, map[string]string{
		"small.py": "x = 1",
		"big.py":   strings.Repeat("a", 100),
	})

	ws, err := Create(scratch, "ws1", archive, limits)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "big.py")); err == nil {
		t.Error("oversized entry was extracted")
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "small.py")); err != nil {
		t.Errorf("small entry missing: %v", err)
	}
}

// makeMisdeclaredZip builds a zip whose named entries declare declared
// uncompressed bytes but actually decompress to payload, plus any honest
// name → content entries.
func makeMisdeclaredZip(t *testing.T, names []string, payload []byte, declared uint64, honest map[string]string) []byte {
	t.Helper()

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("flate writer: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("flate write: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("flate close: %v", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		raw, err := w.CreateRaw(&zip.FileHeader{
			Name:               name,
			Method:             zip.Deflate,
			CRC32:              crc32.ChecksumIEEE(payload),
			CompressedSize64:   uint64(compressed.Len()),
			UncompressedSize64: declared,
		})
		if err != nil {
			t.Fatalf("zip create raw %s: %v", name, err)
		}
		if _, err := raw.Write(compressed.Bytes()); err != nil {
			t.Fatalf("zip write raw %s: %v", name, err)
		}
	}
	for name, content := range honest {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestCreate_MisdeclaredEntrySizeSkipped(t *testing.T) {
	scratch := t.TempDir()
	limits := testLimits()
	limits.MaxEntryBytes = 8

	// liar.py declares 4 bytes but decompresses to 100; small.py is honest.
	payload := []byte(strings.Repeat("a", 100))
	archive := makeMisdeclaredZip(t, []string{"liar.py"}, payload, 4,
		map[string]string{"small.py": "x = 1"})

	ws, err := Create(scratch, "ws1", archive, limits)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "liar.py")); err == nil {
		t.Error("entry exceeding the size cap was kept")
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "small.py")); err != nil {
		t.Errorf("honest entry missing: %v", err)
	}
}

func TestCreate_OnlyMisdeclaredEntriesRejected(t *testing.T) {
	scratch := t.TempDir()
	limits := testLimits()
	limits.MaxEntryBytes = 8

	payload := []byte(strings.Repeat("a", 100))
	archive := makeMisdeclaredZip(t, []string{"a.py", "b.py"}, payload, 4, nil)

	_, err := Create(scratch, "ws1", archive, limits)
	if !errors.Is(err, errors.ErrArchive) {
		t.Fatalf("Create should fail with ARCHIVE_ERROR, got: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(scratch, "ws1")); !os.IsNotExist(statErr) {
		t.Error("failed extraction left the workspace directory behind")
	}
}

func TestCreate_NothingExtractable(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{"only.png": "binary"})

	_, err := Create(scratch, "ws1", archive, testLimits())
	if !errors.Is(err, errors.ErrArchive) {
		t.Fatalf("Create should fail with ARCHIVE_ERROR, got: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(scratch, "ws1")); !os.IsNotExist(statErr) {
		t.Error("failed extraction left the workspace directory behind")
	}
}

func TestCreate_FlattensSingleRootFolder(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{
		"myproject/main.py":       "print('hi')",
		"myproject/lib/helper.py": "x = 1",
	})

	ws, err := Create(scratch, "ws1", archive, testLimits())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Wrapper folder stripped: children live at the root
	if _, err := os.Stat(filepath.Join(ws.RootPath, "main.py")); err != nil {
		t.Errorf("flattened file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "myproject")); err == nil {
		t.Error("wrapper folder survived flattening")
	}
}

func TestCreate_FlattenHandlesNameCollision(t *testing.T) {
	scratch := t.TempDir()
	// The wrapper contains a child with the wrapper's own name
	archive := makeZip(t, map[string]string{
		"app/app/inner.py": "x = 1",
		"app/main.py":      "print('hi')",
	})

	ws, err := Create(scratch, "ws1", archive, testLimits())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "main.py")); err != nil {
		t.Errorf("flattened file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "app", "inner.py")); err != nil {
		t.Errorf("colliding child missing: %v", err)
	}
}

func TestCreate_NoFlattenForMultipleRoots(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{
		"a/one.py": "x = 1",
		"b/two.py": "y = 2",
	})

	ws, err := Create(scratch, "ws1", archive, testLimits())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "a", "one.py")); err != nil {
		t.Errorf("directory a lost: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.RootPath, "b", "two.py")); err != nil {
		t.Errorf("directory b lost: %v", err)
	}
}

func TestOpen_ExistingAndMissing(t *testing.T) {
	scratch := t.TempDir()
	archive := makeZip(t, map[string]string{"main.py": "print('hi')"})

	created, err := Create(scratch, "ws1", archive, testLimits())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	opened, err := Open(scratch, "ws1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if opened.RootPath != created.RootPath {
		t.Errorf("RootPath = %q, want %q", opened.RootPath, created.RootPath)
	}

	if _, err := Open(scratch, "nope"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Open missing id should return NOT_FOUND, got: %v", err)
	}
}
