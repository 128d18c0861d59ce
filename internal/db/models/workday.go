package models

// WorkDay is the aggregated view of all punches on one calendar date.
// It is derived on every read and never stored.
type WorkDay struct {
	Date       string  `json:"date"` // YYYY-MM-DD, local time
	Events     []Punch `json:"events"`
	TotalHours float64 `json:"totalHours"`
}

// DashboardStats summarizes the trailing seven-day window.
type DashboardStats struct {
	TotalHoursThisWeek float64 `json:"totalHoursThisWeek"`
	AverageDailyHours  float64 `json:"averageDailyHours"`
	LastPunch          *Punch  `json:"lastPunch"`
	Status             Status  `json:"status"`
}
