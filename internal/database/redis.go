package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"workplace-api/internal/config"
	"workplace-api/internal/service"
)

var redisClient *redis.Client

// InitRedis connects the global redis client
func InitRedis(cfg *config.RedisConfig, log *zap.Logger) error {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	redisClient = client
	log.Info("Redis connection established",
		zap.String("host", cfg.Host),
		zap.Int("db", cfg.DB),
	)
	return nil
}

// GetRedis returns the global redis client, nil when not initialized.
// Returning nil instead of panicking lets tests run without Redis.
func GetRedis() *redis.Client {
	return redisClient
}

// ErrCodeStoreUnavailable is returned when the backing redis client was
// never connected
var ErrCodeStoreUnavailable = errors.New("code store unavailable: redis not connected")

// RedisCodeStore implements service.CodeStore on redis. A nil client is
// tolerated: every call fails with ErrCodeStoreUnavailable instead of
// panicking, so the API stays up with code-backed flows disabled.
type RedisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore creates a CodeStore backed by the given client
func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.client == nil {
		return ErrCodeStoreUnavailable
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, key string) (string, error) {
	if s.client == nil {
		return "", ErrCodeStoreUnavailable
	}
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", service.ErrCodeStoreMiss
		}
		return "", err
	}
	return value, nil
}

func (s *RedisCodeStore) Del(ctx context.Context, key string) error {
	if s.client == nil {
		return ErrCodeStoreUnavailable
	}
	return s.client.Del(ctx, key).Err()
}
