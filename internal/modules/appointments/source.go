// README: Appointment source contract and the tracker HTTP adapter.
package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"fieldslot/internal/types"
)

// Source supplies the current scheduled-appointment set. Implementations are
// external collaborators; the engine only sees snapshots through CachedSource.
type Source interface {
	Fetch(ctx context.Context) ([]Appointment, error)
}

var ErrTrackerUnavailable = errors.New("appointment tracker unavailable")

// TrackerClient fetches scheduled appointments from the tracking service's
// REST API, following pagination until the last page.
type TrackerClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewTrackerClient(baseURL, token string) *TrackerClient {
	return &TrackerClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type trackerTask struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

type trackerPage struct {
	Appointments []trackerTask `json:"appointments"`
	LastPage     bool          `json:"last_page"`
}

// Fetch pulls every page of scheduled appointments. Records without a start
// time, or with timestamps the tracker mangled, are skipped rather than
// failing the whole snapshot.
func (c *TrackerClient) Fetch(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	for page := 0; ; page++ {
		batch, last, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if last {
			break
		}
	}
	log.Printf("tracker: fetched %d scheduled appointments", len(out))
	return out, nil
}

func (c *TrackerClient) fetchPage(ctx context.Context, page int) ([]Appointment, bool, error) {
	u, err := url.Parse(c.baseURL + "/api/v1/appointments")
	if err != nil {
		return nil, false, fmt.Errorf("tracker url: %w", err)
	}
	q := u.Query()
	q.Set("status", "scheduled")
	q.Set("page", fmt.Sprint(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrTrackerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("%w: status %d", ErrTrackerUnavailable, resp.StatusCode)
	}

	var body trackerPage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, false, fmt.Errorf("%w: decode page %d: %v", ErrTrackerUnavailable, page, err)
	}

	batch := make([]Appointment, 0, len(body.Appointments))
	for _, t := range body.Appointments {
		if t.StartTime == "" || t.EndTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, t.StartTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, t.EndTime)
		if err != nil {
			continue
		}
		batch = append(batch, Appointment{
			ID:           types.ID(t.ID),
			CustomerName: t.CustomerName,
			Address:      t.Address,
			City:         t.City,
			Start:        start,
			End:          end,
		})
	}
	return batch, body.LastPage, nil
}
