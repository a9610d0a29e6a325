// ABOUTME: Redis record store using RedisJSON for whole-record and per-column access
// ABOUTME: Provides the durable cache tier with TTL support and connection pooling

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nitishm/go-rejson/v4"
	"github.com/nitishm/go-rejson/v4/rjs"
	"github.com/redis/go-redis/v9"

	coreerrors "gbbinfo-knowledge-api/core/errors"
	"gbbinfo-knowledge-api/pkg/config"
)

// RedisStore implements the RecordStore interface on RedisJSON documents.
// Columns are top-level JSON paths of the document.
type RedisStore struct {
	client  *redis.Client
	handler *rejson.Handler
}

// NewRedisStore creates a new Redis record store
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	handler := rejson.NewReJSONHandler()
	handler.SetGoRedisClient(client)

	return &RedisStore{
		client:  client,
		handler: handler,
	}, nil
}

// Get retrieves a whole record
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.jsonGet(key, ".")
}

// Set replaces a whole record. A ttl of 0 means no expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if _, err := s.handler.JSONSet(key, ".", json.RawMessage(value)); err != nil {
		return err
	}
	return s.expire(ctx, key, ttl)
}

// GetColumn retrieves one top-level field of a record
func (s *RedisStore) GetColumn(ctx context.Context, key, column string) ([]byte, error) {
	return s.jsonGet(key, columnPath(column))
}

// SetColumn writes one top-level field, creating an empty record first when
// the key does not exist yet.
func (s *RedisStore) SetColumn(ctx context.Context, key, column string, value []byte, ttl time.Duration) error {
	// NX leaves an existing document untouched and replies nil
	if _, err := s.handler.JSONSet(key, ".", json.RawMessage("{}"), rjs.SetOptionNX); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	if _, err := s.handler.JSONSet(key, columnPath(column), json.RawMessage(value)); err != nil {
		return err
	}
	return s.expire(ctx, key, ttl)
}

// Delete removes a record
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	// Deleting a missing key is not an error
	s.client.Del(ctx, key)
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) jsonGet(key, path string) ([]byte, error) {
	val, err := s.handler.JSONGet(key, path)
	if err != nil {
		if isMissing(err) {
			return nil, coreerrors.ErrCacheMiss
		}
		return nil, err
	}
	if val == nil {
		return nil, coreerrors.ErrCacheMiss
	}

	data, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected RedisJSON reply type %T", val)
	}
	return data, nil
}

func (s *RedisStore) expire(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, key, ttl).Err()
}

func columnPath(column string) string {
	return "." + column
}

// isMissing reports whether a RedisJSON error means the key or path is absent
func isMissing(err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "not found")
}
