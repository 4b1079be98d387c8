package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefrontlabs/storefront/internal/config"
)

// RateLimiter bounds signin attempts per email over a fixed window.
type RateLimiter interface {
	CheckLoginRateLimit(ctx context.Context, email string) (allowed bool, remaining int, retryAfter int, err error)
}

type RedisRepo struct {
	client *redis.Client
	config *config.Config
}

func NewRedisRepo(cfg *config.Config) (*RedisRepo, error) {

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Addr,
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection to make sure Redis is reachable
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisRepo{client: client, config: cfg}, nil
}

// NewRedisRepoWithClient wires an existing client; used by tests.
func NewRedisRepoWithClient(client *redis.Client, cfg *config.Config) *RedisRepo {
	return &RedisRepo{client: client, config: cfg}
}

// CheckLoginRateLimit counts attempts in a fixed window keyed by email.
// Returns whether the attempt is allowed, how many tries remain, and how
// many seconds until the window resets when it is not.
func (r *RedisRepo) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {

	key := fmt.Sprintf("login_attempts:%s", email)

	attempts, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, 0, err
	}

	// First attempt opens the window
	if attempts == 1 {
		if err := r.client.Expire(ctx, key, r.config.RateConfig.WindowSize).Err(); err != nil {
			return false, 0, 0, err
		}
	}

	if attempts > r.config.RateConfig.MaxAttempts {
		ttl, err := r.client.TTL(ctx, key).Result()
		if err != nil {
			return false, 0, 0, err
		}

		return false, 0, int(ttl.Seconds()), nil
	}

	remaining := int(r.config.RateConfig.MaxAttempts - attempts)

	return true, remaining, 0, nil
}
