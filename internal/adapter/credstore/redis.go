package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/authgate/internal/domain"
)

// Redis key names for the two persisted values.
const (
	redisKeyAccess  = "authgate:access_token"
	redisKeyRefresh = "authgate:refresh_token"
)

// Redis stores the credential pair in Redis, for headless deployments
// where several worker processes share one API session. Both keys are
// written in a single transaction so a reader never observes a half
// replaced pair.
type Redis struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedis creates a Redis-backed credential store on an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, timeout: 5 * time.Second}
}

// Get reads the stored pair. Missing keys yield an empty credential.
func (r *Redis) Get() (domain.Credential, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	values, err := r.client.MGet(ctx, redisKeyAccess, redisKeyRefresh).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Credential{}, fmt.Errorf("redis mget: %w", err)
	}

	var cred domain.Credential
	if s, ok := values[0].(string); ok {
		cred.AccessToken = s
	}
	if s, ok := values[1].(string); ok {
		cred.RefreshToken = s
	}
	return cred, nil
}

// Set overwrites both keys atomically.
func (r *Redis) Set(cred domain.Credential) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKeyAccess, cred.AccessToken, 0)
		pipe.Set(ctx, redisKeyRefresh, cred.RefreshToken, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set credentials: %w", err)
	}
	return nil
}

// Clear removes both keys.
func (r *Redis) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.client.Del(ctx, redisKeyAccess, redisKeyRefresh).Err(); err != nil {
		return fmt.Errorf("redis clear credentials: %w", err)
	}
	return nil
}
