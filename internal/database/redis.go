package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient represents the Redis client
type RedisClient struct {
	*redis.Client
}

// NewRedisClient creates a new Redis client and pings it
func NewRedisClient(ctx context.Context, addr string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     "", // no password set
		DB:           db,
		PoolSize:     4,
		MinIdleConns: 1,
	})

	// Test the connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisClient{client}, nil
}

// Close closes the Redis connection
func (rc *RedisClient) Close() error {
	return rc.Client.Close()
}

// RedisBackend stores each document as a string value
type RedisBackend struct {
	client *RedisClient
}

// NewRedisBackend wraps a connected client
func NewRedisBackend(client *RedisClient) *RedisBackend {
	return &RedisBackend{client: client}
}

// Read returns the raw contents of a document
func (rb *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := rb.client.Get(ctx, GenerateDocumentKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", name, ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to get %s from Redis: %w", name, err)
	}
	return data, nil
}

// Write replaces a document. Documents never expire.
func (rb *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := rb.client.Set(ctx, GenerateDocumentKey(name), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s in Redis: %w", name, err)
	}
	return nil
}

// Close closes the underlying client
func (rb *RedisBackend) Close() error {
	return rb.client.Close()
}

// KeyExists checks if a document exists in Redis
func (rb *RedisBackend) KeyExists(ctx context.Context, name string) (bool, error) {
	result, err := rb.client.Exists(ctx, GenerateDocumentKey(name)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return result > 0, nil
}

// GenerateDocumentKey generates the Redis key holding a document
func GenerateDocumentKey(name string) string {
	return fmt.Sprintf("document:%s", name)
}
