// File: utils/cache.go
package utils

import (
	"consultly/config"
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// AuthCacheClient is the dedicated client for credential persistence.
var AuthCacheClient *redis.Client

// InitAuthCache initializes the Redis client for credential persistence
// (using DB from AppConfig for the auth state).
func InitAuthCache() {
	AuthCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisAuthDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := AuthCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Auth Cache): %v", err)
	}
}

// GetAuthCacheClient returns the Redis client for credential persistence.
func GetAuthCacheClient() *redis.Client {
	if AuthCacheClient == nil {
		InitAuthCache()
	}
	return AuthCacheClient
}
