// Package ops is the operation layer: validated, typed entry points over
// workspaces and response recovery, shared by the CLI and the MCP server.
package ops

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"mentorcore/internal/config"
	"mentorcore/internal/workspace"
)

// generateID generates a fresh workspace id (ULID: sortable, no coordination).
func generateID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// limitsFrom maps configured size caps onto workspace limits.
func limitsFrom(cfg *config.Config) workspace.Limits {
	return workspace.Limits{
		MaxEntryBytes:   cfg.MaxEntryBytes,
		MaxArchiveBytes: cfg.MaxArchiveBytes,
		MaxReadBytes:    cfg.MaxReadBytes,
		MaxOutputBytes:  cfg.MaxOutputBytes,
	}
}

// clampTimeout resolves a caller-supplied timeout in seconds against the
// configured default and ceiling.
func clampTimeout(cfg *config.Config, seconds int) time.Duration {
	if seconds <= 0 {
		return cfg.DefaultTimeout()
	}
	d := time.Duration(seconds) * time.Second
	if max := cfg.MaxTimeout(); max > 0 && d > max {
		return max
	}
	return d
}
