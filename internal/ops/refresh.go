package ops

import (
	"database/sql"
	"strings"

	"mentorcore/internal/config"
	"mentorcore/internal/db"
	"mentorcore/internal/errors"
	"mentorcore/internal/workspace"
)

// RefreshInput contains parameters for the Refresh operation.
type RefreshInput struct {
	ID string
}

// RefreshOutput contains the result of the Refresh operation.
type RefreshOutput struct {
	Workspace *workspace.Workspace `json:"workspace"`
}

// Refresh re-derives language statistics and detected metadata from the
// current directory contents and updates the registry row. Detection is not
// re-run implicitly anywhere else; this is the explicit structure refresh.
func Refresh(database *sql.DB, cfg *config.Config, scratch string, input RefreshInput) (*RefreshOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	ws, err := db.GetByID(database, id)
	if err != nil {
		return nil, err
	}

	live, err := workspace.Open(scratch, id)
	if err != nil {
		return nil, err
	}
	ws.RootPath = live.RootPath

	ws.Stats = workspace.Languages(ws.RootPath, cfg.TopLanguages)
	ws.Detected = workspace.Detect(ws.RootPath)

	if err := db.UpdateDerived(database, ws); err != nil {
		return nil, err
	}
	return &RefreshOutput{Workspace: ws}, nil
}
