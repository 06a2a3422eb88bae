package ops

import (
	"database/sql"
	"strings"

	"mentorcore/internal/config"
	"mentorcore/internal/db"
	"mentorcore/internal/errors"
	"mentorcore/internal/workspace"
)

// DescribeInput contains parameters for the Describe operation.
type DescribeInput struct {
	ID            string
	IncludeTree   bool
	IncludeReadme bool
}

// DescribeOutput contains the result of the Describe operation.
type DescribeOutput struct {
	Workspace  *workspace.Workspace `json:"workspace"`
	Tree       *workspace.Node      `json:"tree,omitempty"`
	ReadmeHTML string               `json:"readme_html,omitempty"`
}

// Describe returns a workspace descriptor from the registry, optionally with
// its current file tree and a rendered README preview.
func Describe(database *sql.DB, cfg *config.Config, scratch string, input DescribeInput) (*DescribeOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	ws, err := db.GetByID(database, id)
	if err != nil {
		return nil, err
	}

	// The directory is the source of truth for root_path: re-derive it so a
	// relocated scratch root or a restarted process still resolves.
	live, err := workspace.Open(scratch, id)
	if err != nil {
		return nil, err
	}
	ws.RootPath = live.RootPath

	out := &DescribeOutput{Workspace: ws}
	if input.IncludeTree {
		tree, err := workspace.Tree(ws.RootPath)
		if err != nil {
			return nil, err
		}
		out.Tree = tree
	}
	if input.IncludeReadme {
		out.ReadmeHTML = workspace.RenderReadme(ws.RootPath, cfg.MaxReadBytes)
	}
	return out, nil
}
