package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis persists last-session records in Redis under
// "<prefix>:last:<namespace>". A zero TTL keeps records forever.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. An empty prefix defaults to
// "jwtlens".
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = "jwtlens"
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(namespace string) string {
	if namespace == "" {
		namespace = "default"
	}
	return fmt.Sprintf("%s:last:%s", r.prefix, namespace)
}

// SaveLast writes the record, overwriting any previous one.
func (r *Redis) SaveLast(ctx context.Context, namespace string, last LastSession) error {
	if last.SavedAt == 0 {
		last.SavedAt = time.Now().Unix()
	}
	data, err := json.Marshal(last)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(namespace), data, r.ttl).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// LoadLast reads the record for a namespace. A missing key is (nil, nil).
func (r *Redis) LoadLast(ctx context.Context, namespace string) (*LastSession, error) {
	data, err := r.client.Get(ctx, r.key(namespace)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Join(ErrUnavailable, err)
	}
	var last LastSession
	if err := json.Unmarshal(data, &last); err != nil {
		// A corrupt record is indistinguishable from no record for callers.
		return nil, nil
	}
	return &last, nil
}
