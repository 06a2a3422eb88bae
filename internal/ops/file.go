package ops

import (
	"database/sql"
	"strings"

	"mentorcore/internal/config"
	"mentorcore/internal/db"
	"mentorcore/internal/errors"
	"mentorcore/internal/workspace"
)

// ReadFileInput contains parameters for the ReadFile operation.
type ReadFileInput struct {
	ID   string
	Path string
}

// ReadFileOutput contains the result of the ReadFile operation.
type ReadFileOutput struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

// ReadFile returns the content of one file inside a workspace.
func ReadFile(database *sql.DB, cfg *config.Config, scratch string, input ReadFileInput) (*ReadFileOutput, error) {
	root, err := resolveRoot(database, scratch, input.ID)
	if err != nil {
		return nil, err
	}

	content, err := workspace.ReadFile(root, input.Path, cfg.MaxReadBytes)
	if err != nil {
		return nil, err
	}

	return &ReadFileOutput{
		Path:     input.Path,
		Content:  content,
		Language: workspace.LanguageOf(input.Path),
	}, nil
}

// WriteFileInput contains parameters for the WriteFile operation.
type WriteFileInput struct {
	ID      string
	Path    string
	Content string
}

// WriteFileOutput contains the result of the WriteFile operation.
type WriteFileOutput struct {
	Path    string `json:"path"`
	Written int    `json:"written_bytes"`
}

// WriteFile stores content at a path inside a workspace, creating
// intermediate directories as needed.
func WriteFile(database *sql.DB, cfg *config.Config, scratch string, input WriteFileInput) (*WriteFileOutput, error) {
	root, err := resolveRoot(database, scratch, input.ID)
	if err != nil {
		return nil, err
	}

	if err := workspace.WriteFile(root, input.Path, input.Content); err != nil {
		return nil, err
	}
	return &WriteFileOutput{Path: input.Path, Written: len(input.Content)}, nil
}

// DiffFileInput contains parameters for the DiffFile operation.
type DiffFileInput struct {
	ID      string
	Path    string
	Content string
}

// DiffFileOutput contains the result of the DiffFile operation.
type DiffFileOutput struct {
	Path string `json:"path"`
	Diff string `json:"diff"`
}

// DiffFile previews what writing the given content would change, without
// touching the file.
func DiffFile(database *sql.DB, cfg *config.Config, scratch string, input DiffFileInput) (*DiffFileOutput, error) {
	root, err := resolveRoot(database, scratch, input.ID)
	if err != nil {
		return nil, err
	}

	diff, err := workspace.DiffFile(root, input.Path, input.Content, cfg.MaxReadBytes)
	if err != nil {
		return nil, err
	}
	return &DiffFileOutput{Path: input.Path, Diff: diff}, nil
}

// resolveRoot looks up a workspace id in the registry and returns its live
// root directory. Both the row and the directory must exist.
func resolveRoot(database *sql.DB, scratch, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	if _, err := db.GetByID(database, id); err != nil {
		return "", err
	}
	live, err := workspace.Open(scratch, id)
	if err != nil {
		return "", err
	}
	return live.RootPath, nil
}
