package timesheet

import (
	"testing"
	"time"

	"punchclock/internal/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func punchAt(kind models.Kind, t time.Time) models.Punch {
	return models.Punch{
		ID:        uuid.New(),
		Kind:      kind,
		Timestamp: t.UnixMilli(),
	}
}

func day(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.Local)
}

func TestDaysPairedSessions(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindIn, day(t, 9, 0)),
		punchAt(models.KindOut, day(t, 12, 0)),
		punchAt(models.KindIn, day(t, 13, 0)),
		punchAt(models.KindOut, day(t, 17, 0)),
	}

	days := Days(punches, day(t, 18, 0))
	require.Len(t, days, 1)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, 7.00, days[0].TotalHours)
	assert.Len(t, days[0].Events, 4)
}

func TestDaysOpenSessionToday(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindIn, day(t, 9, 0)),
	}

	days := Days(punches, day(t, 11, 0))
	require.Len(t, days, 1)
	assert.Equal(t, 2.00, days[0].TotalHours)
}

func TestDaysOpenSessionOnPastDateNotCredited(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindIn, day(t, 9, 0)),
	}

	// Two days later the dangling session earns nothing.
	now := day(t, 9, 0).AddDate(0, 0, 2)
	days := Days(punches, now)
	require.Len(t, days, 1)
	assert.Equal(t, 0.00, days[0].TotalHours)
}

func TestDaysLoneOutContributesNothing(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindOut, day(t, 12, 0)),
	}

	days := Days(punches, day(t, 18, 0))
	require.Len(t, days, 1)
	assert.Equal(t, 0.00, days[0].TotalHours)
}

func TestDaysSecondInOverwritesOpenStart(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindIn, day(t, 8, 0)),
		punchAt(models.KindIn, day(t, 10, 0)),
		punchAt(models.KindOut, day(t, 11, 0)),
	}

	// Only the 10:00-11:00 session counts; the 8:00 start is discarded.
	days := Days(punches, day(t, 18, 0))
	require.Len(t, days, 1)
	assert.Equal(t, 1.00, days[0].TotalHours)
}

func TestDaysInputOrderIrrelevant(t *testing.T) {
	// Store order is most-recent-first; grouping must sort first.
	punches := []models.Punch{
		punchAt(models.KindOut, day(t, 17, 0)),
		punchAt(models.KindIn, day(t, 13, 0)),
		punchAt(models.KindOut, day(t, 12, 0)),
		punchAt(models.KindIn, day(t, 9, 0)),
	}

	days := Days(punches, day(t, 18, 0))
	require.Len(t, days, 1)
	assert.Equal(t, 7.00, days[0].TotalHours)

	for i := 1; i < len(days[0].Events); i++ {
		assert.LessOrEqual(t, days[0].Events[i-1].Timestamp, days[0].Events[i].Timestamp)
	}
}

func TestDaysMostRecentDateFirst(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindIn, day(t, 9, 0).AddDate(0, 0, -2)),
		punchAt(models.KindOut, day(t, 10, 0).AddDate(0, 0, -2)),
		punchAt(models.KindIn, day(t, 9, 0)),
		punchAt(models.KindOut, day(t, 10, 0)),
		punchAt(models.KindIn, day(t, 9, 0).AddDate(0, 0, -1)),
		punchAt(models.KindOut, day(t, 10, 0).AddDate(0, 0, -1)),
	}

	days := Days(punches, day(t, 18, 0))
	require.Len(t, days, 3)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.Equal(t, "2025-03-09", days[1].Date)
	assert.Equal(t, "2025-03-08", days[2].Date)
}

func TestDaysRoundsToTwoDecimals(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindIn, day(t, 9, 0)),
		punchAt(models.KindOut, day(t, 9, 0).Add(10*time.Minute)),
	}

	days := Days(punches, day(t, 18, 0))
	require.Len(t, days, 1)
	assert.Equal(t, 0.17, days[0].TotalHours)
}

func TestDaysEmptyInput(t *testing.T) {
	assert.Empty(t, Days(nil, day(t, 12, 0)))
}

func TestStatsEmptyStore(t *testing.T) {
	stats := Stats(nil, day(t, 12, 0))

	assert.Equal(t, 0.0, stats.TotalHoursThisWeek)
	assert.Equal(t, 0.0, stats.AverageDailyHours)
	assert.Nil(t, stats.LastPunch)
	assert.Equal(t, models.StatusPunchedOut, stats.Status)
}

func TestStatsStatusFollowsMostRecentPunch(t *testing.T) {
	in := punchAt(models.KindIn, day(t, 9, 0))
	out := punchAt(models.KindOut, day(t, 17, 0))

	// Most-recent-first store order.
	stats := Stats([]models.Punch{out, in}, day(t, 18, 0))
	assert.Equal(t, models.StatusPunchedOut, stats.Status)
	require.NotNil(t, stats.LastPunch)
	assert.Equal(t, out.ID, stats.LastPunch.ID)

	stats = Stats([]models.Punch{in}, day(t, 10, 0))
	assert.Equal(t, models.StatusPunchedIn, stats.Status)
}

func TestStatsWeeklyWindow(t *testing.T) {
	var punches []models.Punch

	// 3h on each of the last three days, plus 5h ten days ago which
	// must fall outside the trailing window.
	for offset := 0; offset < 3; offset++ {
		start := day(t, 9, 0).AddDate(0, 0, -offset)
		punches = append(punches,
			punchAt(models.KindIn, start),
			punchAt(models.KindOut, start.Add(3*time.Hour)),
		)
	}
	old := day(t, 9, 0).AddDate(0, 0, -10)
	punches = append(punches,
		punchAt(models.KindIn, old),
		punchAt(models.KindOut, old.Add(5*time.Hour)),
	)

	stats := Stats(punches, day(t, 18, 0))
	assert.Equal(t, 9.0, stats.TotalHoursThisWeek)
	assert.Equal(t, 3.0, stats.AverageDailyHours)
}

func TestStatsRoundsToOneDecimal(t *testing.T) {
	punches := []models.Punch{
		punchAt(models.KindIn, day(t, 9, 0)),
		punchAt(models.KindOut, day(t, 9, 0).Add(75*time.Minute)),
	}

	stats := Stats(punches, day(t, 18, 0))
	assert.Equal(t, 1.3, stats.TotalHoursThisWeek)
	assert.Equal(t, 1.3, stats.AverageDailyHours)
}

func TestStatsIdenticalTimestamps(t *testing.T) {
	at := day(t, 9, 0)
	punches := []models.Punch{
		punchAt(models.KindIn, at),
		punchAt(models.KindOut, at),
	}

	stats := Stats(punches, day(t, 18, 0))
	assert.Equal(t, 0.0, stats.TotalHoursThisWeek)
}
