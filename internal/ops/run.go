package ops

import (
	"context"
	"database/sql"
	"strings"

	"mentorcore/internal/config"
	"mentorcore/internal/errors"
	"mentorcore/internal/workspace"
)

// RunInput contains parameters for the Run operation.
type RunInput struct {
	ID             string
	Command        string
	TimeoutSeconds int // 0 means the configured default
}

// RunOutput contains the result of the Run operation.
type RunOutput struct {
	Execution *workspace.Execution `json:"execution"`
}

// Run executes a shell command inside a workspace under the configured
// wall-clock and output bounds. Timeouts come back as a result, not an
// error; blocked commands are rejected before execution.
func Run(ctx context.Context, database *sql.DB, cfg *config.Config, scratch string, input RunInput) (*RunOutput, error) {
	if strings.TrimSpace(input.Command) == "" {
		return nil, errors.NewInvalidRequest("command is required")
	}

	root, err := resolveRoot(database, scratch, input.ID)
	if err != nil {
		return nil, err
	}

	exec, err := workspace.Run(ctx, root, input.Command,
		clampTimeout(cfg, input.TimeoutSeconds), cfg.MaxOutputBytes, cfg.BlockedCommands)
	if err != nil {
		return nil, err
	}
	return &RunOutput{Execution: exec}, nil
}

// RunFileInput contains parameters for the RunFile operation.
type RunFileInput struct {
	ID             string
	Path           string // optional; empty selects a well-known entry point
	TimeoutSeconds int
}

// RunFile runs one file through the interpreter its extension selects, or
// picks a well-known entry point at the workspace root when no path is given.
func RunFile(ctx context.Context, database *sql.DB, cfg *config.Config, scratch string, input RunFileInput) (*RunOutput, error) {
	root, err := resolveRoot(database, scratch, input.ID)
	if err != nil {
		return nil, err
	}

	exec, err := workspace.RunFile(ctx, root, input.Path,
		clampTimeout(cfg, input.TimeoutSeconds), cfg.MaxOutputBytes, cfg.BlockedCommands)
	if err != nil {
		return nil, err
	}
	return &RunOutput{Execution: exec}, nil
}
