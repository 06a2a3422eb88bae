package db

import (
	"database/sql"
	"encoding/json"

	"github.com/gowebpki/jcs"

	"mentorcore/internal/errors"
	"mentorcore/internal/workspace"
)

// Insert registers a workspace. The row is written only after extraction and
// derivation succeed, so no partially built workspace is ever observable.
func Insert(database *sql.DB, ws *workspace.Workspace) error {
	statsJSON, err := canonicalJSON(ws.Stats)
	if err != nil {
		return errors.NewInternal(err)
	}
	detectedJSON, err := canonicalJSON(ws.Detected)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO workspaces (id, root_path, stats_json, detected_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	// Ids are generated fresh per upload; a UNIQUE violation here is a bug,
	// so it surfaces as INTERNAL like any other insert failure.
	_, err = database.Exec(query, ws.ID, ws.RootPath, statsJSON, detectedJSON, ws.CreatedAt)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetByID retrieves a workspace record by id.
func GetByID(database *sql.DB, id string) (*workspace.Workspace, error) {
	query := `
		SELECT id, root_path, stats_json, detected_json, created_at
		FROM workspaces
		WHERE id = ?
	`
	row := database.QueryRow(query, id)
	ws, err := scanWorkspace(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return ws, nil
}

// List returns all workspace records, newest first.
func List(database *sql.DB) ([]*workspace.Workspace, error) {
	query := `
		SELECT id, root_path, stats_json, detected_json, created_at
		FROM workspaces
		ORDER BY created_at DESC, id DESC
	`
	rows, err := database.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var out []*workspace.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

// UpdateDerived replaces the derived columns after a structure refresh.
func UpdateDerived(database *sql.DB, ws *workspace.Workspace) error {
	statsJSON, err := canonicalJSON(ws.Stats)
	if err != nil {
		return errors.NewInternal(err)
	}
	detectedJSON, err := canonicalJSON(ws.Detected)
	if err != nil {
		return errors.NewInternal(err)
	}

	result, err := database.Exec(
		`UPDATE workspaces SET stats_json = ?, detected_json = ? WHERE id = ?`,
		statsJSON, detectedJSON, ws.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(ws.ID)
	}
	return nil
}

// Delete removes a workspace record. Deleting the row before the directory
// keeps the destroy sequence atomic-enough: a concurrent reader sees the
// workspace or NOT_FOUND, never a half-deleted state.
func Delete(database *sql.DB, id string) error {
	result, err := database.Exec(`DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanWorkspace(row scannable) (*workspace.Workspace, error) {
	var (
		ws           workspace.Workspace
		statsJSON    sql.NullString
		detectedJSON sql.NullString
	)
	if err := row.Scan(&ws.ID, &ws.RootPath, &statsJSON, &detectedJSON, &ws.CreatedAt); err != nil {
		return nil, err
	}
	if statsJSON.Valid && statsJSON.String != "" {
		if err := json.Unmarshal([]byte(statsJSON.String), &ws.Stats); err != nil {
			return nil, err
		}
	}
	if detectedJSON.Valid && detectedJSON.String != "" {
		if err := json.Unmarshal([]byte(detectedJSON.String), &ws.Detected); err != nil {
			return nil, err
		}
	}
	return &ws, nil
}

// canonicalJSON marshals v and canonicalizes it per RFC 8785 so the stored
// column is byte-stable regardless of map iteration order.
func canonicalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", err
	}
	return string(canonical), nil
}
