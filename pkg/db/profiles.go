package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrInvalidProfileName = errors.New("invalid profile name")
)

// Profile is one installation with its own timezone, listen address and
// home registry. Exactly one profile is active at a time.
type Profile struct {
	ID        int64
	Name      string
	Timezone  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileStore reads and writes profiles.
type ProfileStore interface {
	Get(ctx context.Context, id int64) (*Profile, error)
	GetByName(ctx context.Context, name string) (*Profile, error)
	GetActive(ctx context.Context) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Create(ctx context.Context, p *Profile) error
	SetActive(ctx context.Context, id int64) error
}

// Profiles returns the profile store.
func (db *DB) Profiles() ProfileStore {
	return profiles{db}
}

type profiles struct {
	db *DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const selectProfile = `SELECT id, name, timezone, is_active, created_at, updated_at FROM profiles`

func scanProfile(row rowScanner) (*Profile, error) {
	var (
		p                    Profile
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Timezone, &p.IsActive, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	p.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return &p, nil
}

func (s profiles) Get(ctx context.Context, id int64) (*Profile, error) {
	return scanProfile(s.db.QueryRowContext(ctx, selectProfile+` WHERE id = ?`, id))
}

func (s profiles) GetByName(ctx context.Context, name string) (*Profile, error) {
	return scanProfile(s.db.QueryRowContext(ctx, selectProfile+` WHERE name = ?`, strings.TrimSpace(name)))
}

func (s profiles) GetActive(ctx context.Context) (*Profile, error) {
	return scanProfile(s.db.QueryRowContext(ctx, selectProfile+` WHERE is_active = 1 LIMIT 1`))
}

func (s profiles) List(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx, selectProfile+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts p and sets its ID. A new active profile does not clear
// the flag on others; use SetActive for that.
func (s profiles) Create(ctx context.Context, p *Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrInvalidProfileName
	}
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (name, timezone, is_active) VALUES (?, ?, ?)`,
		p.Name, p.Timezone, p.IsActive)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if p.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	return nil
}

// SetActive makes id the only active profile.
func (s profiles) SetActive(ctx context.Context, id int64) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		var found bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM profiles WHERE id = ?)`, id).Scan(&found); err != nil {
			return err
		}
		if !found {
			return ErrProfileNotFound
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE profiles SET is_active = (id = ?), updated_at = datetime('now')`, id)
		return err
	})
}

// ActivateProfile switches to the profile called name, creating it with a
// default listen address when it does not exist yet.
func (db *DB) ActivateProfile(ctx context.Context, name string) (*Profile, error) {
	p, err := db.Profiles().GetByName(ctx, name)
	if errors.Is(err, ErrProfileNotFound) {
		p = &Profile{Name: name, Timezone: detectTimezone()}
		if err := db.Profiles().Create(ctx, p); err != nil {
			return nil, err
		}
		if err := db.APIServers().Create(ctx, &APIServer{ProfileID: p.ID, Host: defaultAPIHost, Port: defaultAPIPort}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if !p.IsActive {
		if err := db.Profiles().SetActive(ctx, p.ID); err != nil {
			return nil, err
		}
		p.IsActive = true
	}
	return p, nil
}
