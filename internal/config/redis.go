package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"address_book/internal/cache"
)

// LoadRedisConfig loads Redis configuration from environment variables
func LoadRedisConfig() *cache.RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		parsed, err := strconv.Atoi(dbStr)
		if err != nil {
			log.Printf("Invalid REDIS_DB, defaulting to 0: %v", err)
		} else {
			db = parsed
		}
	}

	return &cache.RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
}

// LoadCacheTTL loads the contact cache TTL from environment variables
func LoadCacheTTL() time.Duration {
	ttlStr := os.Getenv("CACHE_TTL_SECONDS")
	if ttlStr == "" {
		return 300 * time.Second
	}
	seconds, err := strconv.Atoi(ttlStr)
	if err != nil || seconds <= 0 {
		log.Printf("Invalid CACHE_TTL_SECONDS %q, defaulting to 300", ttlStr)
		return 300 * time.Second
	}
	return time.Duration(seconds) * time.Second
}
