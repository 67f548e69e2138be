package jwt

import (
	"chat-admin-backend/internal/env"
	"time"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

const RefreshTokenTTL = 24 * 30 * time.Hour

const (
	RoleUser Role = iota
	RoleAdmin
)

var RoleSecrets = map[Role]string{}

func init() {
	RoleSecrets[RoleUser] = env.Get(env.UserSecretKey)
	RoleSecrets[RoleAdmin] = env.Get(env.AdminSecretKey)

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     env.Get(env.AuthRedisURL),
		Password: env.Get(env.AuthRedisPass),
		DB:       0,
	})
}
