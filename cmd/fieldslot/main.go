// README: CLI for one-off suggestion runs; prints ranked slots as text or JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fieldslot/internal/ai"
	"fieldslot/internal/cache"
	"fieldslot/internal/config"
	"fieldslot/internal/infra"
	"fieldslot/internal/maps"
	"fieldslot/internal/metrics"
	"fieldslot/internal/modules/appointments"
	"fieldslot/internal/modules/suggest"
	"fieldslot/internal/zones"
)

type cliOptions struct {
	address      string
	city         string
	services     int
	availability string
	horizonDays  int
	format       string
	metricsAddr  string
	timeout      time.Duration
}

func parseFlags() cliOptions {
	var opts cliOptions
	flag.StringVar(&opts.address, "address", "", "customer street address (required)")
	flag.StringVar(&opts.city, "city", "", "customer city")
	flag.IntVar(&opts.services, "services", 1, "number of services requested")
	flag.StringVar(&opts.availability, "availability", "", "free-text availability, e.g. \"Tuesday after 5pm\" (required)")
	flag.IntVar(&opts.horizonDays, "horizon", 0, "scheduling horizon in days (0 = configured default)")
	flag.StringVar(&opts.format, "format", "text", "output format: text or json")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "expose /metrics on this address while running")
	flag.DurationVar(&opts.timeout, "timeout", 60*time.Second, "overall run timeout")
	flag.Parse()
	return opts
}

func main() {
	_ = godotenv.Load()
	opts := parseFlags()

	if opts.address == "" || opts.availability == "" {
		flag.Usage()
		os.Exit(2)
	}
	if opts.format != "text" && opts.format != "json" {
		log.Fatalf("unknown format %q", opts.format)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if opts.metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
			_ = http.ListenAndServe(opts.metricsAddr, mux)
		}()
	}

	res, err := run(ctx, cfg, opts)
	if err != nil {
		var conflict *suggest.PolicyConflictError
		if errors.As(err, &conflict) {
			fmt.Fprintf(os.Stderr, "no bookable slot: %v\n", conflict)
			os.Exit(1)
		}
		log.Fatal(err)
	}

	if opts.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatal(err)
		}
		return
	}
	printText(res)
}

func run(ctx context.Context, cfg config.Config, opts cliOptions) (*suggest.Result, error) {
	zoneSet, err := zones.Load(cfg.Scheduling.ZonesPath)
	if err != nil {
		return nil, fmt.Errorf("zones: %w", err)
	}
	classifier := zones.NewClassifier(zoneSet)

	if cfg.Maps.APIKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}
	geocoder, err := maps.NewGoogleGeocoder(cfg.Maps.APIKey)
	if err != nil {
		return nil, fmt.Errorf("maps init: %w", err)
	}
	cachedGeocoder := maps.NewCachedGeocoder(geocoder, infra.NewRedis(cfg.Redis.Addr))

	var source appointments.Source
	switch cfg.ApptSource {
	case "postgres":
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		defer dbPool.Close()
		source = appointments.NewStore(dbPool)
	case "tracker":
		if cfg.Tracker.BaseURL == "" {
			return nil, fmt.Errorf("FIELDSLOT_TRACKER_URL is required with the tracker source")
		}
		source = appointments.NewTrackerClient(cfg.Tracker.BaseURL, cfg.Tracker.Token)
	default:
		return nil, fmt.Errorf("unknown appointment source %q", cfg.ApptSource)
	}

	store, err := cache.New(cfg.Cache.Dir, cache.WithTTL(cfg.Cache.TTL))
	if err != nil {
		return nil, fmt.Errorf("cache init: %w", err)
	}
	snapshots := appointments.NewCachedSource(store, source, cachedGeocoder, classifier)

	svc, err := suggest.NewService(classifier, snapshots, cfg.Scheduling)
	if err != nil {
		return nil, fmt.Errorf("engine init: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Scheduling.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	now := time.Now().In(loc)

	windows, err := parseAvailability(ctx, cfg, opts.availability, now)
	if err != nil {
		return nil, err
	}

	location, err := cachedGeocoder.Geocode(ctx, opts.address+", "+opts.city)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}

	return svc.Suggest(ctx, suggest.Request{
		Address:      opts.address,
		City:         opts.city,
		Location:     location,
		Services:     opts.services,
		Availability: windows,
		HorizonDays:  opts.horizonDays,
	})
}

func parseAvailability(ctx context.Context, cfg config.Config, text string, now time.Time) ([]suggest.AvailabilityWindow, error) {
	if cfg.AI.GeminiKey == "" {
		log.Print("GEMINI_API_KEY not set; assuming weekday-morning availability")
		return ai.FallbackWindows(now, 7), nil
	}
	parser, err := ai.NewGeminiParser(ctx, cfg.AI.GeminiKey)
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	defer parser.Close()

	windows, err := parser.ParseAvailability(ctx, text, now)
	if err != nil {
		log.Printf("availability %q unparseable (%v); assuming weekday-morning availability", text, err)
		return ai.FallbackWindows(now, 7), nil
	}
	return windows, nil
}

func printText(res *suggest.Result) {
	fmt.Printf("Zone: %s  (%.1f mi, ~%d min from base)\n", res.Zone, res.DistanceMiles, res.TravelMinutes)
	fmt.Printf("Appointment length: %d min\n\n", res.DurationMin)

	if len(res.Suggestions) == 0 {
		fmt.Println("No open slots match this availability. Try widening the window.")
		return
	}
	for i, s := range res.Suggestions {
		fmt.Printf("%d. %s  %s-%s  (score %d)\n",
			i+1,
			s.Slot.Start.Format("Mon Jan 2"),
			s.Slot.Start.Format("3:04 PM"),
			s.Slot.End.Format("3:04 PM"),
			s.Score,
		)
		for _, reason := range s.Reasons {
			fmt.Printf("   - %s\n", reason)
		}
	}
}
