// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fieldslot/internal/ai"
	"fieldslot/internal/cache"
	"fieldslot/internal/config"
	httptransport "fieldslot/internal/http"
	"fieldslot/internal/infra"
	"fieldslot/internal/maps"
	"fieldslot/internal/modules/appointments"
	"fieldslot/internal/modules/suggest"
	"fieldslot/internal/zones"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zoneSet, err := zones.Load(cfg.Scheduling.ZonesPath)
	if err != nil {
		log.Fatalf("zones: %v", err)
	}
	classifier := zones.NewClassifier(zoneSet)

	if cfg.Maps.APIKey == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY is required")
	}
	geocoder, err := maps.NewGoogleGeocoder(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}
	redisClient := infra.NewRedis(cfg.Redis.Addr)
	cachedGeocoder := maps.NewCachedGeocoder(geocoder, redisClient)

	var source appointments.Source
	switch cfg.ApptSource {
	case "postgres":
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		source = appointments.NewStore(dbPool)
	case "tracker":
		if cfg.Tracker.BaseURL == "" {
			log.Fatal("FIELDSLOT_TRACKER_URL is required with the tracker source")
		}
		source = appointments.NewTrackerClient(cfg.Tracker.BaseURL, cfg.Tracker.Token)
	default:
		log.Fatalf("unknown appointment source %q", cfg.ApptSource)
	}

	store, err := cache.New(cfg.Cache.Dir, cache.WithTTL(cfg.Cache.TTL))
	if err != nil {
		log.Fatalf("cache init: %v", err)
	}
	snapshots := appointments.NewCachedSource(store, source, cachedGeocoder, classifier)

	svc, err := suggest.NewService(classifier, snapshots, cfg.Scheduling)
	if err != nil {
		log.Fatalf("engine init: %v", err)
	}

	if cfg.AI.GeminiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	parser, err := ai.NewGeminiParser(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer parser.Close()

	loc, err := time.LoadLocation(cfg.Scheduling.Timezone)
	if err != nil {
		log.Fatalf("timezone: %v", err)
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Suggest:  svc,
		Geocoder: cachedGeocoder,
		Parser:   parser,
		Location: loc,
		APIToken: cfg.HTTP.APIToken,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
