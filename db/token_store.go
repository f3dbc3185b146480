package db

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/galleried/galleria/config"
)

const blacklistKeyPrefix = "galleria:token:blacklist:"

// TokenStore is the session-side denylist for revoked access tokens,
// backed by redis so entries expire with the token itself.
type TokenStore interface {
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
	IsTokenInBlacklist(ctx context.Context, token string) bool
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisClient(c *config.Config) *redis.Client {
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		log.Fatalf("invalid redis url: %v", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("unable to connect to redis: %v", err)
	}
	return client
}

func NewTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// token already expired, nothing to deny
		return nil
	}
	return s.client.Set(ctx, blacklistKeyPrefix+token, "revoked", ttl).Err()
}

func (s *redisTokenStore) IsTokenInBlacklist(ctx context.Context, token string) bool {
	n, err := s.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		log.Printf("blacklist lookup failed: %v", err)
		return false
	}
	return n > 0
}
