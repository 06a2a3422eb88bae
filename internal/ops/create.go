package ops

import (
	"database/sql"
	"os"
	"time"

	"mentorcore/internal/config"
	"mentorcore/internal/db"
	"mentorcore/internal/errors"
	"mentorcore/internal/workspace"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Archive []byte // zip upload, required
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	Workspace *workspace.Workspace `json:"workspace"`
	Tree      *workspace.Node      `json:"tree"`
}

// Create materializes an uploaded archive as a new workspace: extract,
// derive language stats and detected metadata, then register. The registry
// row is written last, so a failed upload leaves neither directory nor row.
func Create(database *sql.DB, cfg *config.Config, scratch string, input CreateInput) (*CreateOutput, error) {
	if len(input.Archive) == 0 {
		return nil, errors.NewInvalidRequest("archive is required")
	}

	id, err := generateID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	ws, err := workspace.Create(scratch, id, input.Archive, limitsFrom(cfg))
	if err != nil {
		return nil, err
	}
	ws.CreatedAt = time.Now().Unix()

	// Derivation is best-effort: empty stats or metadata never fail the
	// upload.
	ws.Stats = workspace.Languages(ws.RootPath, cfg.TopLanguages)
	ws.Detected = workspace.Detect(ws.RootPath)

	tree, err := workspace.Tree(ws.RootPath)
	if err != nil {
		_ = os.RemoveAll(ws.RootPath)
		return nil, err
	}

	if err := db.Insert(database, ws); err != nil {
		_ = os.RemoveAll(ws.RootPath)
		return nil, err
	}

	return &CreateOutput{Workspace: ws, Tree: tree}, nil
}
