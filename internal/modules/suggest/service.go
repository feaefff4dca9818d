// README: Suggestion service orchestrates classification, policy, conflict filtering, and selection.
package suggest

import (
	"context"
	"errors"
	"strings"
	"time"

	"fieldslot/internal/config"
	"fieldslot/internal/geo"
	"fieldslot/internal/metrics"
	"fieldslot/internal/modules/appointments"
	"fieldslot/internal/policy"
	"fieldslot/internal/types"
	"fieldslot/internal/zones"
)

var ErrBadRequest = errors.New("bad request")

// SnapshotProvider supplies the current appointment set; refreshing is the
// provider's concern, the engine only reads snapshots.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) ([]appointments.Appointment, error)
}

// Classifier assigns a coordinate to a zone.
type Classifier interface {
	Classify(p types.Point) zones.ID
}

// Service is the suggestion engine. It is stateless across requests; all
// mutable data arrives through the snapshot provider.
type Service struct {
	classifier Classifier
	snapshots  SnapshotProvider
	tech       policy.TechnicianConstraints
	cfg        config.SchedulingConfig
	loc        *time.Location
	now        func() time.Time
}

func NewService(classifier Classifier, snapshots SnapshotProvider, cfg config.SchedulingConfig) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &Service{
		classifier: classifier,
		snapshots:  snapshots,
		tech:       policy.DefaultTechnician,
		cfg:        cfg,
		loc:        loc,
		now:        time.Now,
	}, nil
}

// WithClock substitutes the time source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Suggest produces up to TopN ranked slot suggestions for the request, or a
// *PolicyConflictError when the customer's availability can never meet the
// zone's booking windows.
func (s *Service) Suggest(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	defer func() {
		metrics.SuggestDurationSeconds.Observe(time.Since(started).Seconds())
	}()

	if err := validate(req); err != nil {
		metrics.SuggestRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	zone := s.classifier.Classify(req.Location)
	pol := policy.ForZone(zone)
	miles := geo.MilesFromBase(req.Location)
	travelMinutes := geo.EstimateMinutesFromBase(req.Location)
	tier := policy.EffectiveTier(zone, travelMinutes)
	duration := policy.ServiceDuration(req.Services)
	eastSide := policy.EastSideCities[strings.ToLower(req.City)] || zone == zones.HighTraffic

	horizon := req.HorizonDays
	if horizon <= 0 {
		horizon = s.cfg.HorizonDays
	}

	existing, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		metrics.SuggestRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	candidates := generateCandidates(generatorParams{
		zone:         zone,
		pol:          pol,
		tech:         s.tech,
		availability: normalizeWindows(req.Availability, s.loc),
		durationMin:  duration,
		deferDays:    tier.DeferDays,
		horizonDays:  horizon,
		stepMin:      s.cfg.SlotStepMin,
		today:        today,
	})
	metrics.CandidatesEvaluated.Observe(float64(len(candidates)))

	if len(candidates) == 0 {
		metrics.SuggestRequestsTotal.WithLabelValues("policy_conflict").Inc()
		return nil, &PolicyConflictError{
			Zone:            zone,
			WeekdayWindows:  pol.WeekdayWindows,
			SaturdayWindows: pol.SaturdayWindows,
		}
	}

	filtered := filterConflicts(candidates, existing, s.cfg.DailyCapacity)

	scored := make([]Suggestion, 0, len(filtered))
	for _, fc := range filtered {
		score, reasons := scoreCandidate(fc, pol, eastSide, today)
		scored = append(scored, Suggestion{Slot: fc.Slot, Score: score, Reasons: reasons})
	}

	metrics.SuggestRequestsTotal.WithLabelValues("ok").Inc()
	return &Result{
		Zone:          zone,
		DistanceMiles: miles,
		TravelMinutes: travelMinutes,
		DurationMin:   duration,
		Suggestions:   selectTop(scored, s.cfg.TopN),
	}, nil
}

func validate(req Request) error {
	if req.Services < 1 {
		return errors.Join(ErrBadRequest, errors.New("services must be at least 1"))
	}
	if len(req.Availability) == 0 {
		return errors.Join(ErrBadRequest, errors.New("at least one availability window is required"))
	}
	for _, w := range req.Availability {
		if !w.Start.Before(w.End) {
			return errors.Join(ErrBadRequest, errors.New("availability window start must precede end"))
		}
	}
	if req.HorizonDays < 0 {
		return errors.Join(ErrBadRequest, errors.New("horizon must not be negative"))
	}
	return nil
}

func normalizeWindows(windows []AvailabilityWindow, loc *time.Location) []AvailabilityWindow {
	out := make([]AvailabilityWindow, len(windows))
	for i, w := range windows {
		out[i] = AvailabilityWindow{Start: w.Start.In(loc), End: w.End.In(loc)}
	}
	return out
}
