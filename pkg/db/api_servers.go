package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

var (
	ErrAPIServerNotFound = errors.New("api server config not found")
	ErrInvalidAddress    = errors.New("invalid listen address")
)

// APIServer is the HTTP listen address stored for a profile.
type APIServer struct {
	ID        int64
	ProfileID int64
	Host      string
	Port      int
	CreatedAt time.Time
}

// Address returns host:port, bracketing IPv6 hosts.
func (a *APIServer) Address() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseAddress splits a host:port listen address. An empty host, as in
// ":8080", listens on every interface.
func ParseAddress(addr string) (host string, port int, err error) {
	host, p, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	port, err = strconv.Atoi(p)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%w: port %q", ErrInvalidAddress, p)
	}
	if host == "" {
		host = defaultAPIHost
	}
	return host, port, nil
}

// APIServerStore reads and writes per-profile listen addresses.
type APIServerStore interface {
	Get(ctx context.Context, profileID int64) (*APIServer, error)
	Create(ctx context.Context, a *APIServer) error
	Update(ctx context.Context, a *APIServer) error
}

// APIServers returns the listen address store.
func (db *DB) APIServers() APIServerStore {
	return apiServers{db}
}

type apiServers struct {
	db *DB
}

func (s apiServers) Get(ctx context.Context, profileID int64) (*APIServer, error) {
	var (
		a         APIServer
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, host, port, created_at FROM api_servers WHERE profile_id = ?`,
		profileID).Scan(&a.ID, &a.ProfileID, &a.Host, &a.Port, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAPIServerNotFound
	}
	if err != nil {
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return &a, nil
}

func (s apiServers) Create(ctx context.Context, a *APIServer) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO api_servers (profile_id, host, port) VALUES (?, ?, ?)`,
		a.ProfileID, a.Host, a.Port)
	if err != nil {
		return fmt.Errorf("failed to create API server config: %w", err)
	}
	if a.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	return nil
}

// Update stores the address for a.ProfileID, inserting a row when the
// profile has none.
func (s apiServers) Update(ctx context.Context, a *APIServer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_servers (profile_id, host, port) VALUES (?, ?, ?)
		ON CONFLICT (profile_id) DO UPDATE SET host = excluded.host, port = excluded.port
	`, a.ProfileID, a.Host, a.Port)
	if err != nil {
		return fmt.Errorf("failed to update API server config: %w", err)
	}
	return nil
}

// SetListenAddress parses addr and stores it for profileID.
func (db *DB) SetListenAddress(ctx context.Context, profileID int64, addr string) (*APIServer, error) {
	host, port, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	a := &APIServer{ProfileID: profileID, Host: host, Port: port}
	if err := db.APIServers().Update(ctx, a); err != nil {
		return nil, err
	}
	return db.APIServers().Get(ctx, profileID)
}
