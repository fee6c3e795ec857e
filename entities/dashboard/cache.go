package dashboard

import (
	"api/database"
	"context"
	"encoding/json"
	"log"
)

func statsCacheKey(orgID string) string {
	return database.REDIS_STATS_CACHE_PREFIX + orgID
}

func statsFromCache(ctx context.Context, orgID string) (*DashboardStats, bool) {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return nil, false
	}

	raw, err := redisClient.Get(ctx, statsCacheKey(orgID)).Result()
	if err != nil {
		return nil, false
	}

	stats := &DashboardStats{}
	if err := json.Unmarshal([]byte(raw), stats); err != nil {
		return nil, false
	}
	return stats, true
}

func statsToCache(ctx context.Context, orgID string, stats *DashboardStats) {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}

	if err := redisClient.Set(ctx, statsCacheKey(orgID), raw, database.REDIS_STATS_CACHE_TTL).Err(); err != nil {
		log.Printf("[Dashboard] Erro ao gravar cache de stats: %v", err)
	}
}

// InvalidateStatsCache derruba o cache da organização; chamado quando uma
// sincronização termina.
func InvalidateStatsCache(ctx context.Context, orgID string) {
	redisClient := database.GetRedisClient()
	if redisClient == nil {
		return
	}

	if err := redisClient.Del(ctx, statsCacheKey(orgID)).Err(); err != nil {
		log.Printf("[Dashboard] Erro ao invalidar cache de stats: %v", err)
	}
}
