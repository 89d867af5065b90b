package artifacts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cdl:artifact:"

// RedisStore keeps artifacts as JSON blobs under cdl:artifact:<name>.
// Artifacts have no TTL; a retrain overwrites them.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, name string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode artifact %q: %w", name, err)
	}
	if err := s.client.Set(ctx, keyPrefix+name, blob, 0).Err(); err != nil {
		return fmt.Errorf("write artifact %q: %w", name, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, name string, dest any) error {
	blob, err := s.client.Get(ctx, keyPrefix+name).Bytes()
	if err != nil {
		return &ArtifactLoadError{Name: name, Err: err}
	}
	if err := json.Unmarshal(blob, dest); err != nil {
		return &ArtifactLoadError{Name: name, Err: err}
	}
	return nil
}
