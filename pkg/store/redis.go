package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces widget keys inside a shared redis database.
const DefaultRedisPrefix = "widgets:"

// RedisOptions configures the redis backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis is a StateStore backed by redis string keys. Writes are announced on
// a pub/sub channel so other processes can re-render.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis store. The client connects lazily.
func NewRedis(o RedisOptions) *Redis {
	return NewRedisClient(redis.NewClient(&redis.Options{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	}), o.Prefix)
}

// NewRedisClient wraps an existing client.
func NewRedisClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (s *Redis) key(k string) string {
	return s.prefix + k
}

func (s *Redis) channel() string {
	return s.prefix + "events"
}

// Get implements StateStore.
func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: redis get %s: %w", key, err)
	}
	return data, true, nil
}

// Set implements StateStore.
func (s *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(key), value, 0)
	pipe.Publish(ctx, s.channel(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: redis set %s: %w", key, err)
	}
	return nil
}

// Watch implements Watcher by subscribing to the write announcements.
func (s *Redis) Watch(ctx context.Context) (<-chan Event, error) {
	sub := s.client.Subscribe(ctx, s.channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("store: redis subscribe: %w", err)
	}
	events := make(chan Event, 64)
	go func() {
		defer close(events)
		defer func() {
			if err := sub.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "store: redis unsubscribe: %v\n", err)
			}
		}()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case events <- Event{Key: strings.TrimSpace(msg.Payload)}:
				default:
				}
			}
		}
	}()
	return events, nil
}

// Close releases the underlying client.
func (s *Redis) Close() error {
	return s.client.Close()
}
