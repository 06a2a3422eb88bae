// Package workspace materializes uploaded project archives into isolated
// directories and mediates all filesystem and process access to them.
package workspace

import (
	"os"
	"path/filepath"
	"time"

	"mentorcore/internal/errors"
)

// Workspace is the on-disk materialization of one uploaded project.
type Workspace struct {
	// ID is the opaque token used as the directory name and registry key.
	ID string `json:"id"`

	// RootPath is the absolute directory exclusively owned by this
	// workspace. Every file operation is confined beneath it.
	RootPath string `json:"root_path"`

	// CreatedAt is the Unix timestamp of the upload.
	CreatedAt int64 `json:"created_at"`

	// Stats is the per-language byte/file breakdown, recomputed on demand.
	Stats []LanguageStat `json:"language_stats"`

	// Detected is the marker-file metadata derived at upload time.
	Detected Detected `json:"detected"`
}

// LanguageStat aggregates bytes and files for one language.
type LanguageStat struct {
	Language   string  `json:"language"`
	ByteCount  int64   `json:"byte_count"`
	FileCount  int     `json:"file_count"`
	Percentage float64 `json:"percentage"`
}

// Detected holds heuristic project metadata from marker-file sniffing.
// All fields degrade to empty rather than failing the upload.
type Detected struct {
	Frameworks  []string `json:"frameworks"`
	EntryPoints []string `json:"entry_points"`
	BuildSystem string   `json:"build_system,omitempty"`
	HasTests    bool     `json:"has_tests"`
}

// NodeKind distinguishes tree nodes.
type NodeKind string

const (
	KindFile      NodeKind = "file"
	KindDirectory NodeKind = "directory"
)

// Node is one entry in a workspace file tree.
type Node struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"` // slash-separated, relative to the root
	Kind     NodeKind `json:"kind"`
	Language string   `json:"language,omitempty"`
	Size     int64    `json:"size,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// Execution is the outcome of running one shell command in a workspace.
type Execution struct {
	Stdout    string        `json:"stdout"`
	Stderr    string        `json:"stderr"`
	ExitCode  int           `json:"exit_code"`
	WallTime  time.Duration `json:"wall_time_ns"`
	Truncated bool          `json:"truncated"`
	TimedOut  bool          `json:"timed_out"`
}

// Limits carries the size caps that bound workspace operations.
type Limits struct {
	MaxEntryBytes   int64 // per extracted file
	MaxArchiveBytes int64 // whole upload
	MaxReadBytes    int64 // single file read
	MaxOutputBytes  int64 // each captured command stream
}

// Root returns the directory that would hold the workspace with the given id.
// The layout is stable across restarts: scratch/<id>, nothing else.
func Root(scratchRoot, id string) string {
	return filepath.Join(scratchRoot, id)
}

// Open reconstructs a workspace handle from its on-disk directory. Stats and
// detected metadata are not re-derived here; callers that need them use
// Languages and Detect, or read them back from the registry.
func Open(scratchRoot, id string) (*Workspace, error) {
	root := Root(scratchRoot, id)
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.NewNotFound(id)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &Workspace{
		ID:        id,
		RootPath:  abs,
		CreatedAt: info.ModTime().Unix(),
	}, nil
}
