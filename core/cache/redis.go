package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"planner-api/core/config"
	"planner-api/core/constants"
	"planner-api/core/logger"
)

type Cache interface {
	Ping(ctx context.Context) error
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	AddToTokenBlacklist(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	Close() error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:NewRedisCache:Ping", "error", err, "addr", cfg.Addr)
		return nil, err
	}

	logger.Info("Redis cache initialized", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *redisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func blacklistKey(token string) string {
	return "auth:blacklist:" + token
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	return c.client.Set(ctx, blacklistKey(token), "1", constants.TokenBlacklistTTL).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}
