package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"takemeto75/config"
	"takemeto75/trip"
)

const packageKeyPrefix = "takemeto75:package:"

// NewRedisClient dials Redis and pings it once.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisPackages caches packages as JSON. Searches are quoted prices, so
// entries expire after ttl.
type RedisPackages struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPackages(client *redis.Client, ttl time.Duration) *RedisPackages {
	return &RedisPackages{client: client, ttl: ttl}
}

func (s *RedisPackages) Save(ctx context.Context, pkg trip.TripPackage) error {
	data, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("encode package %s: %w", pkg.ID, err)
	}
	return s.client.Set(ctx, packageKeyPrefix+pkg.ID, data, s.ttl).Err()
}

func (s *RedisPackages) Get(ctx context.Context, id string) (trip.TripPackage, error) {
	data, err := s.client.Get(ctx, packageKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return trip.TripPackage{}, ErrNotFound
	}
	if err != nil {
		return trip.TripPackage{}, err
	}

	var pkg trip.TripPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return trip.TripPackage{}, fmt.Errorf("decode package %s: %w", id, err)
	}
	return pkg, nil
}
