// README: Suggestion handler; geocodes, parses availability, runs the engine.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fieldslot/internal/ai"
	"fieldslot/internal/maps"
	"fieldslot/internal/modules/suggest"
	"fieldslot/internal/types"
	"fieldslot/internal/zones"
)

const requestTimeout = 30 * time.Second

// Suggester is the engine surface the handler needs.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (*suggest.Result, error)
}

type SuggestHandler struct {
	svc      Suggester
	geocoder maps.Geocoder
	parser   ai.AvailabilityParser
	loc      *time.Location
	now      func() time.Time
}

func NewSuggestHandler(svc Suggester, geocoder maps.Geocoder, parser ai.AvailabilityParser, loc *time.Location) *SuggestHandler {
	return &SuggestHandler{
		svc:      svc,
		geocoder: geocoder,
		parser:   parser,
		loc:      loc,
		now:      time.Now,
	}
}

type suggestReq struct {
	Address          string                       `json:"address"`
	City             string                       `json:"city"`
	Services         int                          `json:"services"`
	Availability     []suggest.AvailabilityWindow `json:"availability,omitempty"`
	AvailabilityText string                       `json:"availability_text,omitempty"`
	HorizonDays      int                          `json:"horizon_days,omitempty"`
	// Lat/Lng, when both set, skip geocoding.
	Lat float64 `json:"lat,omitempty"`
	Lng float64 `json:"lng,omitempty"`
}

type suggestionResp struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DurationMin int       `json:"duration_min"`
	Score       int       `json:"score"`
	Reasons     []string  `json:"reasons"`
}

type suggestResp struct {
	Zone          zones.ID         `json:"zone"`
	DistanceMiles float64          `json:"distance_miles"`
	TravelMinutes int              `json:"travel_minutes"`
	DurationMin   int              `json:"duration_min"`
	Suggestions   []suggestionResp `json:"suggestions"`
}

// Suggest handles POST /api/suggestions.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	if req.Address == "" && (req.Lat == 0 || req.Lng == 0) {
		writeError(c, http.StatusBadRequest, "address or lat/lng required")
		return
	}
	if len(req.Availability) == 0 && strings.TrimSpace(req.AvailabilityText) == "" {
		writeError(c, http.StatusBadRequest, "availability or availability_text required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	location := types.Point{Lat: req.Lat, Lng: req.Lng}
	if location == (types.Point{}) {
		p, err := h.geocoder.Geocode(ctx, req.Address+", "+req.City)
		if err != nil {
			if errors.Is(err, maps.ErrNoResult) {
				writeError(c, http.StatusBadRequest, "address did not geocode")
				return
			}
			writeError(c, http.StatusBadGateway, "geocoding failed")
			return
		}
		location = p
	}

	windows := req.Availability
	if len(windows) == 0 {
		now := h.now().In(h.loc)
		parsed, err := h.parser.ParseAvailability(ctx, req.AvailabilityText, now)
		switch {
		case err == nil:
			windows = parsed
		case errors.Is(err, ai.ErrUnparseable):
			log.Printf("suggest: availability %q unparseable, using fallback windows", req.AvailabilityText)
			windows = ai.FallbackWindows(now, 7)
		default:
			writeError(c, http.StatusBadGateway, "availability parsing failed")
			return
		}
	}

	res, err := h.svc.Suggest(ctx, suggest.Request{
		Address:      req.Address,
		City:         req.City,
		Location:     location,
		Services:     req.Services,
		Availability: windows,
		HorizonDays:  req.HorizonDays,
	})
	if err != nil {
		writeSuggestError(c, err)
		return
	}

	out := suggestResp{
		Zone:          res.Zone,
		DistanceMiles: res.DistanceMiles,
		TravelMinutes: res.TravelMinutes,
		DurationMin:   res.DurationMin,
		Suggestions:   make([]suggestionResp, 0, len(res.Suggestions)),
	}
	for _, s := range res.Suggestions {
		out.Suggestions = append(out.Suggestions, suggestionResp{
			Start:       s.Slot.Start,
			End:         s.Slot.End,
			DurationMin: s.Slot.DurationMin,
			Score:       s.Score,
			Reasons:     s.Reasons,
		})
	}
	writeJSON(c, http.StatusOK, out)
}
