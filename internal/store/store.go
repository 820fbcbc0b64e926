// Package store loads and saves the JSON documents the application keeps its
// records in. Every save replaces the whole document.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"airline_reservations/internal/database"
	"airline_reservations/internal/models"
)

var (
	// ErrNotFound is returned when the document does not exist. It also
	// matches models.ErrNotFound.
	ErrNotFound = fmt.Errorf("document %w", models.ErrNotFound)
	// ErrMalformed is returned when the document does not have the expected shape
	ErrMalformed = errors.New("malformed document")
)

// Document names
const (
	FlightsDocument             = "flights.json"
	SeatsDocument               = "seats.json"
	ReservationsDocument        = "reservations.json"
	AircraftDocument            = "aircraft.json"
	UsersDocument               = "users.json"
	CrewDocument                = "crew.json"
	MaintenanceLogsDocument     = "maintenance_logs.json"
	MaintenanceScheduleDocument = "maintenance_schedule.json"
	ActivityDocument            = "reports/user_activity.json"
)

// Store reads and writes documents through a backend
type Store struct {
	backend database.Backend
}

// New creates a store on top of a backend
func New(backend database.Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the underlying backend
func (s *Store) Backend() database.Backend {
	return s.backend
}

// LoadList loads a document that must be a JSON array. A document holding
// null is treated as an empty array.
func LoadList[T any](ctx context.Context, s *Store, name string) ([]T, error) {
	data, err := s.read(ctx, name)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%s: expected an array: %w", name, ErrMalformed)
	}

	var records []T
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", name, err, ErrMalformed)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// LoadObject loads a document that must be a JSON object into a value of type T
func LoadObject[T any](ctx context.Context, s *Store, name string) (T, error) {
	var value T
	data, err := s.read(ctx, name)
	if err != nil {
		return value, err
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return value, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return value, fmt.Errorf("%s: expected an object: %w", name, ErrMalformed)
	}
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return value, fmt.Errorf("%s: %v: %w", name, err, ErrMalformed)
	}
	return value, nil
}

// Save serializes v and replaces the document
func (s *Store) Save(ctx context.Context, name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := s.backend.Write(ctx, name, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}

// Exists reports whether a document is present
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.backend.Read(ctx, name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, database.ErrDocumentNotFound) {
		return false, nil
	}
	return false, err
}

// EnsureDocuments writes an empty document for every name that is missing.
// Existing documents are left untouched.
func (s *Store) EnsureDocuments(ctx context.Context, defaults map[string]interface{}) ([]string, error) {
	var created []string
	for name, empty := range defaults {
		exists, err := s.Exists(ctx, name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		if err := s.Save(ctx, name, empty); err != nil {
			return created, err
		}
		created = append(created, name)
	}
	return created, nil
}

// CopyTo copies the named documents byte for byte into dst. Documents
// missing from s are skipped.
func (s *Store) CopyTo(ctx context.Context, dst *Store, names []string) error {
	for _, name := range names {
		data, err := s.backend.Read(ctx, name)
		if errors.Is(err, database.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := dst.backend.Write(ctx, name, data); err != nil {
			return fmt.Errorf("failed to copy %s: %w", name, err)
		}
	}
	return nil
}

// DefaultDocuments returns the empty value of every document the application uses
func DefaultDocuments() map[string]interface{} {
	return map[string]interface{}{
		FlightsDocument:             []interface{}{},
		SeatsDocument:               map[string]interface{}{},
		ReservationsDocument:        []interface{}{},
		AircraftDocument:            []interface{}{},
		UsersDocument:               []interface{}{},
		CrewDocument:                map[string]interface{}{"pilots": []interface{}{}, "flight_attendants": []interface{}{}},
		MaintenanceLogsDocument:     []interface{}{map[string]interface{}{}},
		MaintenanceScheduleDocument: map[string]interface{}{},
		ActivityDocument:            []interface{}{},
	}
}

func (s *Store) read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.backend.Read(ctx, name)
	if err != nil {
		if errors.Is(err, database.ErrDocumentNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}
