package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHomeNotFound = errors.New("home not found")
	ErrHomeExists   = errors.New("home already exists")
)

// HomeRecord is a home row of the local registry.
type HomeRecord struct {
	ID        string
	ProfileID int64
	Name      string
	IsPrimary bool
	CreatedAt time.Time
}

// HomeStore provides home registry operations.
type HomeStore interface {
	List(ctx context.Context, profileID int64) ([]*HomeRecord, error)
	Get(ctx context.Context, id string) (*HomeRecord, error)
	Create(ctx context.Context, h *HomeRecord) error
	Delete(ctx context.Context, id string) error
}

// Homes returns a HomeStore for this database.
func (db *DB) Homes() HomeStore {
	return &homeStore{db: db}
}

type homeStore struct {
	db *DB
}

const homeColumns = `id, profile_id, name, is_primary, created_at`

func scanHome(row rowScanner) (*HomeRecord, error) {
	h := &HomeRecord{}
	var createdAt string
	if err := row.Scan(&h.ID, &h.ProfileID, &h.Name, &h.IsPrimary, &createdAt); err != nil {
		return nil, err
	}
	h.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return h, nil
}

func (s *homeStore) List(ctx context.Context, profileID int64) ([]*HomeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+homeColumns+` FROM homes
		WHERE profile_id = ? ORDER BY created_at, rowid
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var homes []*HomeRecord
	for rows.Next() {
		h, err := scanHome(rows)
		if err != nil {
			return nil, err
		}
		homes = append(homes, h)
	}
	return homes, rows.Err()
}

func (s *homeStore) Get(ctx context.Context, id string) (*HomeRecord, error) {
	h, err := scanHome(s.db.QueryRowContext(ctx, `SELECT `+homeColumns+` FROM homes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrHomeNotFound
	}
	return h, err
}

// Create inserts a home, assigning an ID when none is set. The first home of
// a profile becomes its primary home.
func (s *homeStore) Create(ctx context.Context, h *HomeRecord) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM homes WHERE profile_id = ?`, h.ProfileID).Scan(&count); err != nil {
			return err
		}
		h.IsPrimary = count == 0

		_, err := tx.ExecContext(ctx, `
			INSERT INTO homes (id, profile_id, name, is_primary)
			VALUES (?, ?, ?, ?)
		`, h.ID, h.ProfileID, h.Name, h.IsPrimary)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrHomeExists, h.Name)
		}
		if err != nil {
			return fmt.Errorf("failed to create home: %w", err)
		}
		h.CreatedAt = time.Now().UTC()
		return nil
	})
}

// Delete removes a home. Remaining accessories cascade.
func (s *homeStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM homes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrHomeNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
