package ops

import (
	"database/sql"

	"mentorcore/internal/db"
	"mentorcore/internal/workspace"
)

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []*workspace.Workspace `json:"items"`
	Total int                    `json:"total"`
}

// List returns all registered workspaces, newest first.
func List(database *sql.DB) (*ListOutput, error) {
	items, err := db.List(database)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*workspace.Workspace{}
	}
	return &ListOutput{Items: items, Total: len(items)}, nil
}
