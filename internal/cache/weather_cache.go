package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ChaymaBrk/conv-AI/internal/weather"
)

// WeatherCache keeps normalized weather reports in redis for a short TTL
// so repeated lookups for the same query shape skip the upstream call.
type WeatherCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewWeatherCache(client *redisv9.Client, ttl time.Duration) *WeatherCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &WeatherCache{client: client, ttl: ttl}
}

func (c *WeatherCache) Get(ctx context.Context, q weather.Query) (weather.Report, bool, error) {
	raw, err := c.client.Get(ctx, c.key(q)).Result()
	if err == redisv9.Nil {
		return weather.Report{}, false, nil
	}
	if err != nil {
		return weather.Report{}, false, fmt.Errorf("redis get weather failed: %w", err)
	}

	var report weather.Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return weather.Report{}, false, fmt.Errorf("unmarshal cached weather failed: %w", err)
	}
	return report, true, nil
}

func (c *WeatherCache) Set(ctx context.Context, q weather.Query, report weather.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal weather cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(q), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set weather failed: %w", err)
	}
	return nil
}

func (c *WeatherCache) key(q weather.Query) string {
	return fmt.Sprintf("weather:%s:%s:%s:%d", q.Latitude, q.Longitude, q.Date, q.ForecastDays)
}

// CachedWeatherClient wraps the weather client with the cache. Cache
// failures fall through to the upstream call; degraded reports are never
// cached.
type CachedWeatherClient struct {
	client *weather.Client
	cache  *WeatherCache
}

func NewCachedWeatherClient(client *weather.Client, cache *WeatherCache) *CachedWeatherClient {
	return &CachedWeatherClient{client: client, cache: cache}
}

func (c *CachedWeatherClient) Fetch(ctx context.Context, q weather.Query) weather.Report {
	if c.cache != nil {
		if report, hit, err := c.cache.Get(ctx, q); err == nil && hit {
			return report
		} else if err != nil {
			log.Warn().Err(err).Msg("weather cache read failed")
		}
	}

	report := c.client.Fetch(ctx, q)
	if c.cache != nil && !report.Degraded() {
		if err := c.cache.Set(ctx, q, report); err != nil {
			log.Warn().Err(err).Msg("weather cache write failed")
		}
	}
	return report
}
