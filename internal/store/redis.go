package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/engine"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cluesheet:session:"

// Redis keeps records as JSON strings that expire after ttl without use.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the server at url (redis://...) and checks it
// answers. A zero ttl keeps records forever.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func key(id uuid.UUID) string { return keyPrefix + id.String() }

// Save stores rec under id and resets its expiry.
func (s *Redis) Save(ctx context.Context, id uuid.UUID, rec engine.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// Load returns the record saved under id.
func (s *Redis) Load(ctx context.Context, id uuid.UUID) (engine.Record, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return engine.Record{}, ErrNotFound
	}
	if err != nil {
		return engine.Record{}, fmt.Errorf("load session %s: %w", id, err)
	}
	if s.ttl > 0 {
		// Reading a sheet counts as use.
		s.client.Expire(ctx, key(id), s.ttl)
	}
	return decode(data)
}

// Delete removes the record saved under id.
func (s *Redis) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Redis) Close() error { return s.client.Close() }
