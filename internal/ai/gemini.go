package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"fieldslot/internal/modules/suggest"
)

var ErrUnparseable = errors.New("availability text could not be parsed")

const parseAttempts = 3

// GeminiParser implements AvailabilityParser using Google's Gemini models.
type GeminiParser struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiParser initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiParser(ctx context.Context, apiKey string) (*GeminiParser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Low temperature: date math must be literal, not creative.
	model.SetTemperature(0.1)

	return &GeminiParser{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiParser) Close() {
	p.client.Close()
}

// ParseAvailability extracts concrete windows from free text. Malformed model
// output is retried up to parseAttempts times before giving up with
// ErrUnparseable.
func (p *GeminiParser) ParseAvailability(ctx context.Context, text string, now time.Time) ([]suggest.AvailabilityWindow, error) {
	prompt := buildParsePrompt(text, now)

	var lastErr error
	for attempt := 1; attempt <= parseAttempts; attempt++ {
		windows, err := p.generateOnce(ctx, prompt, now)
		if err == nil {
			return windows, nil
		}
		lastErr = err
		log.Printf("availability parse attempt %d/%d failed: %v", attempt, parseAttempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnparseable, lastErr)
}

func (p *GeminiParser) generateOnce(ctx context.Context, prompt string, now time.Time) ([]suggest.AvailabilityWindow, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// Strip markdown fences; json mode should prevent them, but be safe.
	cleanJSON := cleanJSONString(responseText.String())

	var result parseResult
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	return validateWindows(result, now)
}

// validateWindows converts the model's RFC3339 strings and rejects windows
// that are inverted or entirely in the past.
func validateWindows(result parseResult, now time.Time) ([]suggest.AvailabilityWindow, error) {
	if len(result.Windows) == 0 {
		return nil, fmt.Errorf("model returned no windows (note: %q)", result.Note)
	}

	out := make([]suggest.AvailabilityWindow, 0, len(result.Windows))
	for _, w := range result.Windows {
		start, err := time.Parse(time.RFC3339, w.Start)
		if err != nil {
			return nil, fmt.Errorf("bad window start %q: %w", w.Start, err)
		}
		end, err := time.Parse(time.RFC3339, w.End)
		if err != nil {
			return nil, fmt.Errorf("bad window end %q: %w", w.End, err)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("inverted window %s..%s", w.Start, w.End)
		}
		if end.Before(now) {
			continue
		}
		out = append(out, suggest.AvailabilityWindow{Start: start.In(now.Location()), End: end.In(now.Location())})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("all windows are in the past")
	}
	return out, nil
}

// buildParsePrompt constructs the instructions for the model.
func buildParsePrompt(text string, now time.Time) string {
	return fmt.Sprintf(`Role: You parse customer scheduling availability for a field-service company in Phoenix, Arizona.

Context:
- Current local time: %s (%s)
- All output times MUST be in this timezone, RFC3339 with offset.

RULES:
1. Resolve relative dates against the current time. "Tuesday" means the NEXT Tuesday on or after today.
2. Vague periods map to fixed ranges:
   - "morning" -> 08:00-12:00
   - "afternoon" -> 12:00-17:00
   - "evening" / "after work" -> 17:00-20:00
   - "after Xpm" -> X:00 until 20:00
   - "before Xam/pm" -> 06:00 until X:00
3. "any day" / "whenever" / "flexible" -> one window per day, 08:00-17:00, for the next 14 days excluding Sundays.
4. A bare weekday with no time of day -> 08:00-17:00 on that date.
5. Multiple alternatives ("Tuesday or Saturday morning") -> one window each.
6. Never invent availability the customer did not state.

Output JSON Schema:
{
  "windows": [{"start": "RFC3339", "end": "RFC3339"}],
  "note": "string (anything you could not express as a window, else empty)"
}

Customer availability text: %s
`, now.Format(time.RFC3339), now.Weekday(), text)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
