// Package store is the persistence boundary for widgets. Every widget owns a
// single namespace key and reads or overwrites one JSON blob under it.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// StateStore defines the persistence contract for widget state blobs.
type StateStore interface {
	// Get returns the blob stored under key. The boolean is false when the key
	// has never been written, which callers treat as a first run.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error
}

// Watcher is implemented by stores that can report writes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event is emitted by Watch when the blob for Key changed. An empty Key
// means the store could not tell which namespace changed.
type Event struct {
	Key string
}

// ErrInvalidKey is returned for namespace keys that cannot be stored.
var ErrInvalidKey = errors.New("store: invalid namespace key")

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateKey reports whether key is usable as a namespace key.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Load creates a StateStore using the provided config. A configured redis
// address wins over the local disk store.
func Load(cfg Config) (StateStore, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if addr := cfg.RedisAddr(); addr != "" {
		return NewRedis(RedisOptions{
			Addr:     addr,
			Password: cfg.RedisPassword(),
			DB:       cfg.RedisDB(),
		}), nil
	}
	return NewDisk(cfg.BasePath())
}
