package rates

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Mendelovic/mashkanta-broker-sub000/internal/domain"
)

const cacheKey = "mashkanta:rates:average_menu"

// Cache shares one fetched rate menu across processes via Redis. Cache
// failures degrade to a direct fetch; they are logged, never propagated.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache wraps a Redis client. TTL governs how long a fetched menu is
// considered fresh.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached menu and whether one was present and decodable.
func (c *Cache) Get(ctx context.Context) (map[domain.Track]float64, bool) {
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("rate menu cache read failed")
		}
		return nil, false
	}

	var menu map[domain.Track]float64
	if err := json.Unmarshal(data, &menu); err != nil {
		log.Warn().Err(err).Msg("rate menu cache entry corrupt, ignoring")
		return nil, false
	}
	return menu, true
}

// Set stores a fetched menu with the cache TTL.
func (c *Cache) Set(ctx context.Context, menu map[domain.Track]float64) {
	data, err := json.Marshal(menu)
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode rate menu for cache")
		return
	}
	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("rate menu cache write failed")
	}
}
