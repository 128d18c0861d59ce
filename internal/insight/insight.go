// Package insight requests AI-generated productivity commentary over
// recent work days. The external call is fallible; callers convert any
// failure into the fixed fallback insight so the rest of the app never
// observes an error from this boundary.
package insight

import (
	"context"

	"punchclock/internal/db/models"
)

// MaxDays caps how many recent work-day summaries are sent upstream.
const MaxDays = 7

// Generator produces one insight from recent work-day summaries.
type Generator interface {
	Generate(ctx context.Context, days []models.WorkDay) (models.Insight, error)
}

// Fallback is the canned insight substituted whenever a generation
// request fails. It is always well-formed and carries a zero score.
func Fallback() models.Insight {
	return models.Insight{
		Summary: "Insights are unavailable right now. Keep logging your hours and try again later.",
		Recommendations: []string{
			"Punch in when you start working and punch out when you stop, so every session is captured.",
			"Check the history view to spot patterns in your recent work days.",
		},
		ProductivityScore: 0,
	}
}

// Recent returns the up-to-MaxDays most recent work days. Days are
// already ordered most-recent-date first, so this is a prefix.
func Recent(days []models.WorkDay) []models.WorkDay {
	if len(days) > MaxDays {
		return days[:MaxDays]
	}
	return days
}
