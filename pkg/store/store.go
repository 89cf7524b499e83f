// Package store provides the key-value fact store backing relationship,
// emotional and memory state. Keys are namespaced per entity
// ("relationship:<char>:<user>", "emotional_state:<char>", "memory:<char>").
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key has no value (or it expired).
var ErrNotFound = errors.New("store: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Key joins parts with ":" under the "casdy" prefix.
func Key(parts ...string) string {
	key := "casdy"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func GetJSON(ctx context.Context, s Store, key string, dest any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("store: unmarshal %s: %w", key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, s Store, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data), ttl)
}
