package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAccessoryNotFound      = errors.New("accessory not found")
	ErrCharacteristicNotFound = errors.New("characteristic not found")
)

// AccessoryRecord is an accessory with its services and characteristics.
type AccessoryRecord struct {
	ID           string
	HomeID       string
	Name         string
	Category     string
	Manufacturer string
	Model        string
	Reachable    bool
	Services     []ServiceRecord
	CreatedAt    time.Time
}

// ServiceRecord is a service row.
type ServiceRecord struct {
	ID              string
	AccessoryID     string
	Type            string
	Name            string
	Characteristics []CharacteristicRecord
}

// CharacteristicRecord is a characteristic row. Value is JSON encoded.
type CharacteristicRecord struct {
	ID          string
	ServiceID   string
	AccessoryID string
	HomeID      string
	Type        string
	Format      string
	Value       json.RawMessage
	Readable    bool
	Writable    bool
	Notify      bool
}

// AccessoryStore provides accessory registry operations.
type AccessoryStore interface {
	ListByHome(ctx context.Context, homeID string) ([]*AccessoryRecord, error)
	Get(ctx context.Context, id string) (*AccessoryRecord, error)
	Create(ctx context.Context, a *AccessoryRecord) error
	Delete(ctx context.Context, id string) error
	GetCharacteristic(ctx context.Context, id string) (*CharacteristicRecord, error)
	SetCharacteristic(ctx context.Context, id string, value json.RawMessage) error
	SetNotify(ctx context.Context, id string, enable bool) error
}

// Accessories returns an AccessoryStore for this database.
func (db *DB) Accessories() AccessoryStore {
	return &accessoryStore{db: db}
}

type accessoryStore struct {
	db *DB
}

func (s *accessoryStore) ListByHome(ctx context.Context, homeID string) ([]*AccessoryRecord, error) {
	return s.load(ctx, "a.home_id = ?", homeID)
}

func (s *accessoryStore) Get(ctx context.Context, id string) (*AccessoryRecord, error) {
	accessories, err := s.load(ctx, "a.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(accessories) == 0 {
		return nil, ErrAccessoryNotFound
	}
	return accessories[0], nil
}

// load reads accessories matching where, then their services and
// characteristics, preserving insertion order.
func (s *accessoryStore) load(ctx context.Context, where string, arg any) ([]*AccessoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.home_id, a.name, a.category, a.manufacturer, a.model, a.reachable, a.created_at
		FROM accessories a WHERE `+where+` ORDER BY a.rowid
	`, arg)
	if err != nil {
		return nil, err
	}

	var accessories []*AccessoryRecord
	byID := make(map[string]*AccessoryRecord)
	for rows.Next() {
		a := &AccessoryRecord{}
		var createdAt string
		if err := rows.Scan(&a.ID, &a.HomeID, &a.Name, &a.Category, &a.Manufacturer, &a.Model, &a.Reachable, &createdAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		accessories = append(accessories, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	if len(accessories) == 0 {
		return accessories, nil
	}

	services, err := s.loadServices(ctx, where, arg)
	if err != nil {
		return nil, err
	}
	characteristics, err := s.loadCharacteristics(ctx, where, arg)
	if err != nil {
		return nil, err
	}

	for _, svc := range services {
		svc.Characteristics = characteristics[svc.ID]
		if a, ok := byID[svc.AccessoryID]; ok {
			a.Services = append(a.Services, *svc)
		}
	}
	return accessories, nil
}

func (s *accessoryStore) loadServices(ctx context.Context, where string, arg any) ([]*ServiceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.accessory_id, s.type, s.name
		FROM services s JOIN accessories a ON a.id = s.accessory_id
		WHERE `+where+` ORDER BY a.rowid, s.position
	`, arg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var services []*ServiceRecord
	for rows.Next() {
		svc := &ServiceRecord{}
		if err := rows.Scan(&svc.ID, &svc.AccessoryID, &svc.Type, &svc.Name); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (s *accessoryStore) loadCharacteristics(ctx context.Context, where string, arg any) (map[string][]CharacteristicRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+characteristicColumns+`
		FROM characteristics c
		JOIN services s ON s.id = c.service_id
		JOIN accessories a ON a.id = s.accessory_id
		WHERE `+where+` ORDER BY c.service_id, c.position
	`, arg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string][]CharacteristicRecord)
	for rows.Next() {
		c, err := scanCharacteristic(rows)
		if err != nil {
			return nil, err
		}
		result[c.ServiceID] = append(result[c.ServiceID], *c)
	}
	return result, rows.Err()
}

const characteristicColumns = `c.id, c.service_id, s.accessory_id, a.home_id, c.type, c.format, c.value, c.readable, c.writable, c.notify`

func scanCharacteristic(row rowScanner) (*CharacteristicRecord, error) {
	c := &CharacteristicRecord{}
	var value string
	if err := row.Scan(&c.ID, &c.ServiceID, &c.AccessoryID, &c.HomeID, &c.Type, &c.Format, &value, &c.Readable, &c.Writable, &c.Notify); err != nil {
		return nil, err
	}
	c.Value = json.RawMessage(value)
	return c, nil
}

// Create inserts an accessory with its services and characteristics in one
// transaction, assigning IDs where none are set.
func (s *accessoryStore) Create(ctx context.Context, a *AccessoryRecord) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO accessories (id, home_id, name, category, manufacturer, model, reachable)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.HomeID, a.Name, a.Category, a.Manufacturer, a.Model, a.Reachable)
		if err != nil {
			return fmt.Errorf("failed to create accessory: %w", err)
		}

		for i := range a.Services {
			svc := &a.Services[i]
			if svc.ID == "" {
				svc.ID = uuid.NewString()
			}
			svc.AccessoryID = a.ID
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO services (id, accessory_id, type, name, position)
				VALUES (?, ?, ?, ?, ?)
			`, svc.ID, a.ID, svc.Type, svc.Name, i); err != nil {
				return fmt.Errorf("failed to create service: %w", err)
			}

			for j := range svc.Characteristics {
				c := &svc.Characteristics[j]
				if c.ID == "" {
					c.ID = uuid.NewString()
				}
				c.ServiceID = svc.ID
				c.AccessoryID = a.ID
				c.HomeID = a.HomeID
				if len(c.Value) == 0 {
					c.Value = json.RawMessage("null")
				}
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO characteristics (id, service_id, type, format, value, readable, writable, notify, position)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				`, c.ID, svc.ID, c.Type, c.Format, string(c.Value), c.Readable, c.Writable, c.Notify, j); err != nil {
					return fmt.Errorf("failed to create characteristic: %w", err)
				}
			}
		}
		a.CreatedAt = time.Now().UTC()
		return nil
	})
}

func (s *accessoryStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM accessories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccessoryNotFound
	}
	return nil
}

func (s *accessoryStore) GetCharacteristic(ctx context.Context, id string) (*CharacteristicRecord, error) {
	c, err := scanCharacteristic(s.db.QueryRowContext(ctx, `
		SELECT `+characteristicColumns+`
		FROM characteristics c
		JOIN services s ON s.id = c.service_id
		JOIN accessories a ON a.id = s.accessory_id
		WHERE c.id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, ErrCharacteristicNotFound
	}
	return c, err
}

func (s *accessoryStore) SetCharacteristic(ctx context.Context, id string, value json.RawMessage) error {
	return s.updateCharacteristic(ctx, `UPDATE characteristics SET value = ?, updated_at = datetime('now') WHERE id = ?`, string(value), id)
}

func (s *accessoryStore) SetNotify(ctx context.Context, id string, enable bool) error {
	return s.updateCharacteristic(ctx, `UPDATE characteristics SET notify = ? WHERE id = ?`, enable, id)
}

func (s *accessoryStore) updateCharacteristic(ctx context.Context, query string, value any, id string) error {
	result, err := s.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCharacteristicNotFound
	}
	return nil
}
