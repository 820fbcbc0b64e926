package database

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrDocumentNotFound is returned by a Backend when no document has the given name
var ErrDocumentNotFound = errors.New("document not found")

// Backend stores whole JSON documents by name (e.g. "flights.json").
// Write always replaces the full document.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

// Backend kinds accepted by NewBackend
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend
type Options struct {
	Kind        string
	DataDir     string
	RedisAddr   string
	RedisDB     int
	PostgresDSN string
}

// NewBackend opens the backend selected by opts.Kind
func NewBackend(ctx context.Context, opts Options, logger *zap.Logger) (Backend, error) {
	switch opts.Kind {
	case "", BackendFile:
		logger.Info("using file document store", zap.String("data_dir", opts.DataDir))
		return NewFileBackend(opts.DataDir), nil

	case BackendRedis:
		client, err := NewRedisClient(ctx, opts.RedisAddr, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis document store", zap.String("addr", opts.RedisAddr), zap.Int("db", opts.RedisDB))
		return NewRedisBackend(client), nil

	case BackendPostgres:
		db, err := NewPostgresDB(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		backend := NewPostgresBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("using postgres document store")
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Kind)
	}
}
