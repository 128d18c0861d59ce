// Package timesheet turns the flat punch list into per-day work
// summaries and dashboard statistics. Everything here is a pure
// function of the punch list and a reference time, recomputed on every
// read; nothing is cached or stored.
//
// An open session left dangling on a past date is intentionally not
// credited: only today's open session accrues time up to "now".
package timesheet

import (
	"math"
	"sort"
	"time"

	"punchclock/internal/db/models"
)

const (
	dateLayout = "2006-01-02"
	msPerHour  = 3600000.0
)

// week is the trailing window used for dashboard statistics.
const week = 7 * 24 * time.Hour

// Days groups punches into calendar days (local time) and computes each
// day's total hours. The result is ordered most-recent-date first; each
// day's events are ordered by ascending timestamp. The function is
// total: any input, including unordered or unpaired punches, produces a
// well-formed result.
func Days(punches []models.Punch, now time.Time) []models.WorkDay {
	sorted := make([]models.Punch, len(punches))
	copy(sorted, punches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	buckets := make(map[string]*models.WorkDay)
	var order []string
	for _, p := range sorted {
		date := time.UnixMilli(p.Timestamp).Format(dateLayout)
		day, ok := buckets[date]
		if !ok {
			day = &models.WorkDay{Date: date}
			buckets[date] = day
			order = append(order, date)
		}
		day.Events = append(day.Events, p)
	}

	today := now.Format(dateLayout)
	days := make([]models.WorkDay, 0, len(order))
	for _, date := range order {
		day := buckets[date]
		day.TotalHours = dayHours(day.Events, date == today, now)
		days = append(days, *day)
	}

	// Most recent date first. ISO dates sort lexically.
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	return days
}

// dayHours accumulates paired IN/OUT durations for one day's events,
// which must already be in ascending timestamp order. A second IN
// discards the previous open start without crediting it; an OUT with no
// open start contributes nothing. An open session at the end of the day
// is credited up to now only when the day is the current date.
func dayHours(events []models.Punch, isToday bool, now time.Time) float64 {
	var totalMs int64
	var start int64
	open := false

	for _, e := range events {
		switch e.Kind {
		case models.KindIn:
			start = e.Timestamp
			open = true
		case models.KindOut:
			if open {
				totalMs += e.Timestamp - start
				open = false
			}
		}
	}

	if open && isToday {
		totalMs += now.UnixMilli() - start
	}

	return round2(float64(totalMs) / msPerHour)
}

// Stats derives the dashboard summary from the punch list, which is
// expected in the store's canonical most-recent-first order. The weekly
// window covers days whose local midnight falls strictly less than
// seven days before now.
func Stats(punches []models.Punch, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{Status: models.StatusPunchedOut}

	if len(punches) > 0 {
		last := punches[0]
		stats.LastPunch = &last
		if last.Kind == models.KindIn {
			stats.Status = models.StatusPunchedIn
		}
	}

	var sum float64
	var count int
	for _, day := range Days(punches, now) {
		midnight, err := time.ParseInLocation(dateLayout, day.Date, time.Local)
		if err != nil {
			continue
		}
		if now.Sub(midnight) < week {
			sum += day.TotalHours
			count++
		}
	}

	stats.TotalHoursThisWeek = round1(sum)
	if count > 0 {
		stats.AverageDailyHours = round1(sum / float64(count))
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
