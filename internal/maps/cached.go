// README: Redis-backed geocode result cache; geocoding is by far the slowest lookup.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"fieldslot/internal/metrics"
	"fieldslot/internal/types"
)

// geocodeCacheTTL is long on purpose: street addresses do not move.
const geocodeCacheTTL = 30 * 24 * time.Hour

// CachedGeocoder wraps a Geocoder with a Redis lookaside cache. Redis being
// down degrades to direct geocoding, never to an error.
type CachedGeocoder struct {
	inner Geocoder
	rdb   *redis.Client
}

func NewCachedGeocoder(inner Geocoder, rdb *redis.Client) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, rdb: rdb}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (types.Point, error) {
	key := cacheKey(address)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var p types.Point
		if jsonErr := json.Unmarshal([]byte(raw), &p); jsonErr == nil {
			metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
			return p, nil
		}
		// Corrupt entry: fall through and overwrite it.
	case err == redis.Nil:
		// Miss, fall through.
	default:
		log.Printf("geocode cache: redis get: %v", err)
		metrics.GeocodeCacheTotal.WithLabelValues("bypass").Inc()
		return c.inner.Geocode(ctx, address)
	}

	metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()
	p, err := c.inner.Geocode(ctx, address)
	if err != nil {
		return types.Point{}, err
	}

	if payload, jsonErr := json.Marshal(p); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, key, payload, geocodeCacheTTL).Err(); setErr != nil {
			log.Printf("geocode cache: redis set: %v", setErr)
		}
	}
	return p, nil
}

func cacheKey(address string) string {
	return fmt.Sprintf("geocode:%s", address)
}
