package ai

import (
	"context"
	"time"

	"fieldslot/internal/modules/suggest"
)

// AvailabilityParser turns a customer's free-text availability ("Tuesday
// after 5pm, or Saturday morning") into concrete time windows anchored to
// the current date.
type AvailabilityParser interface {
	ParseAvailability(ctx context.Context, text string, now time.Time) ([]suggest.AvailabilityWindow, error)
}
