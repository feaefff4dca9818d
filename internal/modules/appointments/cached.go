// README: Cache-backed appointment snapshots with geocode/zone enrichment.
package appointments

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"fieldslot/internal/cache"
	"fieldslot/internal/metrics"
	"fieldslot/internal/types"
	"fieldslot/internal/zones"
)

// Geocoder resolves an address into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

// Classifier assigns a coordinate to a zone.
type Classifier interface {
	Classify(p types.Point) zones.ID
}

// snapshotKey is the cache key for the shared appointment snapshot.
const snapshotKey = "appointments"

// CachedSource serves appointment snapshots out of the file cache, refreshing
// from the underlying Source when the entry expires. Each snapshot is
// enriched once at refresh time (geocode + zone classification), so the
// engine never geocodes on the request path. When a refresh fails and a
// stale entry exists, the stale snapshot is served as a degraded fallback.
type CachedSource struct {
	cache      *cache.Store
	source     Source
	geocoder   Geocoder
	classifier Classifier
}

func NewCachedSource(store *cache.Store, source Source, geocoder Geocoder, classifier Classifier) *CachedSource {
	return &CachedSource{
		cache:      store,
		source:     source,
		geocoder:   geocoder,
		classifier: classifier,
	}
}

// Snapshot returns the current appointment set. Concurrent callers on an
// expired entry collapse into a single tracker fetch via the cache lock.
func (c *CachedSource) Snapshot(ctx context.Context) ([]Appointment, error) {
	payload, err := c.cache.GetOrRefresh(ctx, snapshotKey, func(ctx context.Context) ([]byte, error) {
		appts, err := c.source.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.enrich(ctx, appts)
		metrics.CacheRefreshTotal.WithLabelValues("ok").Inc()
		return json.Marshal(appts)
	})
	if err != nil {
		if stale, fetchedAt, staleErr := c.cache.ReadStale(snapshotKey); staleErr == nil {
			metrics.CacheRefreshTotal.WithLabelValues("stale_fallback").Inc()
			log.Printf("appointments: refresh failed (%v); serving stale snapshot from %s", err, fetchedAt.Format("2006-01-02 15:04"))
			return decodeSnapshot(stale)
		}
		metrics.CacheRefreshTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	return decodeSnapshot(payload)
}

// enrich fills in coordinates and zone labels for rows the source could not
// provide them for. A geocode failure leaves the appointment unclassified;
// conflict detection still sees its time interval.
func (c *CachedSource) enrich(ctx context.Context, appts []Appointment) {
	for i := range appts {
		a := &appts[i]
		if a.Location == (types.Point{}) && a.Address != "" {
			p, err := c.geocoder.Geocode(ctx, a.Address)
			if err != nil {
				log.Printf("appointments: geocode %q: %v", a.Address, err)
				a.Zone = zones.Unclassified
				continue
			}
			a.Location = p
		}
		if a.Zone == "" {
			a.Zone = c.classifier.Classify(a.Location)
		}
	}
}

func decodeSnapshot(payload []byte) ([]Appointment, error) {
	var appts []Appointment
	if err := json.Unmarshal(payload, &appts); err != nil {
		return nil, fmt.Errorf("decode appointment snapshot: %w", err)
	}
	return appts, nil
}
