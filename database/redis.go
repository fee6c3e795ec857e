package database

import (
	"api/utils"
	"log"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	REDIS_STATS_CACHE_TTL    = 60 * time.Second
	REDIS_STATS_CACHE_PREFIX = "dashboard:stats:"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedisClient devolve um client compartilhado. Se REDIS_URI for inválida o
// cache fica desligado (nil) e os handlers seguem sem cache.
func GetRedisClient() *redis.Client {
	redisOnce.Do(func() {
		redisURI := os.Getenv(utils.REDIS_URI)
		if redisURI == "" {
			return
		}

		opts, err := redis.ParseURL(redisURI)
		if err != nil {
			log.Printf("[Redis] URI inválida, cache desativado: %v", err)
			return
		}

		redisClient = redis.NewClient(opts)
	})

	return redisClient
}
