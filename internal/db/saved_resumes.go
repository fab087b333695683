package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const savedResumeColumns = `id, resume_data, tags, version, created_at, updated_at`

// SaveResume stores a resume version. A live row with the same version and
// tag set is overwritten in place and keeps its id and created_at.
func (db *DB) SaveResume(ctx context.Context, resume json.RawMessage, tags []string, version string) (*SavedResume, error) {
	tags = NormalizeTags(tags)

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM saved_resumes
		 WHERE version = $1 AND tags = $2 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT 1
		 FOR UPDATE`,
		version, tags,
	).Scan(&existing)

	var row pgx.Row
	switch {
	case err == nil:
		row = tx.QueryRow(ctx,
			`UPDATE saved_resumes SET resume_data = $1, updated_at = NOW()
			 WHERE id = $2
			 RETURNING `+savedResumeColumns,
			[]byte(resume), existing,
		)
	case errors.Is(err, pgx.ErrNoRows):
		row = tx.QueryRow(ctx,
			`INSERT INTO saved_resumes (resume_data, tags, version)
			 VALUES ($1, $2, $3)
			 RETURNING `+savedResumeColumns,
			[]byte(resume), tags, version,
		)
	default:
		return nil, fmt.Errorf("failed to look up resume version %s: %w", version, err)
	}

	saved, err := scanSavedResume(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save resume version %s: %w", version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resume version %s: %w", version, err)
	}
	return saved, nil
}

// ListResumes returns live saved resumes, newest first. When tags is
// non-empty only resumes sharing at least one tag are returned.
func (db *DB) ListResumes(ctx context.Context, tags []string) ([]SavedResume, error) {
	query := `SELECT ` + savedResumeColumns + ` FROM saved_resumes WHERE deleted_at IS NULL`
	args := []any{}
	if tags = NormalizeTags(tags); len(tags) > 0 {
		query += ` AND tags && $1`
		args = append(args, tags)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []SavedResume{}
	for rows.Next() {
		saved, err := scanSavedResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resumes: %w", err)
	}
	return resumes, nil
}

// GetResume returns a live saved resume, or nil if none exists.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*SavedResume, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+savedResumeColumns+` FROM saved_resumes WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	saved, err := scanSavedResume(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume %s: %w", id, err)
	}
	return saved, nil
}

// DeleteResume soft-deletes a saved resume. It reports false when no live
// row had the id.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE saved_resumes SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanSavedResume(row pgx.Row) (*SavedResume, error) {
	var (
		saved SavedResume
		data  []byte
	)
	if err := row.Scan(&saved.ID, &data, &saved.Tags, &saved.Version, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, err
	}
	saved.Resume = json.RawMessage(data)
	if saved.Tags == nil {
		saved.Tags = []string{}
	}
	return &saved, nil
}
