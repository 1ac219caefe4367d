// Package store persists deduction sheets between requests.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/engine"
)

// ErrNotFound is returned by Load for an id that was never saved or has
// expired.
var ErrNotFound = errors.New("session not found")

// Store saves the full game record of a session, history included.
type Store interface {
	Save(ctx context.Context, id uuid.UUID, rec engine.Record) error
	Load(ctx context.Context, id uuid.UUID) (engine.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func encode(rec engine.Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

func decode(data []byte) (engine.Record, error) {
	var rec engine.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return engine.Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
