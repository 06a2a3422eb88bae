package ops

import (
	"database/sql"
	"os"
	"strings"

	"mentorcore/internal/db"
	"mentorcore/internal/errors"
	"mentorcore/internal/workspace"
)

// DestroyInput contains parameters for the Destroy operation.
type DestroyInput struct {
	ID string
}

// DestroyOutput contains the result of the Destroy operation.
type DestroyOutput struct {
	ID        string `json:"id"`
	Destroyed bool   `json:"destroyed"`
}

// Destroy removes a workspace: registry row first, then the directory. A
// concurrent reader sees the full workspace or NOT_FOUND, never a row whose
// directory is mid-deletion.
func Destroy(database *sql.DB, scratch string, input DestroyInput) (*DestroyOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.Delete(database, id); err != nil {
		return nil, err
	}
	if err := os.RemoveAll(workspace.Root(scratch, id)); err != nil {
		return nil, errors.NewInternal(err)
	}
	return &DestroyOutput{ID: id, Destroyed: true}, nil
}
