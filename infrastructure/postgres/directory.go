package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gbbinfo-knowledge-api/core/domain"
)

// Directory resolves subject ids against the participant tables
type Directory struct {
	db *sql.DB
}

// NewDirectory creates a subject directory backed by db
func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// ResolveName returns the subject's name, or "" when no row matches.
// Single entrants and teams live in "Participant"; team members in
// "ParticipantMember".
func (d *Directory) ResolveName(ctx context.Context, id int64, mode domain.Mode) (string, error) {
	query := `SELECT name FROM "Participant" WHERE id = $1`
	if mode == domain.ModeTeamMember {
		query = `SELECT name FROM "ParticipantMember" WHERE id = $1`
	}

	var name sql.NullString
	err := d.db.QueryRowContext(ctx, query, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve subject %d: %w", id, err)
	}

	return name.String, nil
}
