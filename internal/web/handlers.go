package web

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"punchclock/internal/db/models"
	"punchclock/internal/insight"
	"punchclock/internal/timesheet"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError writes a JSON error body with the given status code.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handlePunchIn(w http.ResponseWriter, r *http.Request) {
	s.punch(w, models.KindIn)
}

func (s *Server) handlePunchOut(w http.ResponseWriter, r *http.Request) {
	s.punch(w, models.KindOut)
}

func (s *Server) punch(w http.ResponseWriter, kind models.Kind) {
	punch, err := s.db.Append(kind)
	if err != nil {
		log.Printf("Error appending punch: %v", err)
		respondError(w, http.StatusInternalServerError, "could not record punch")
		return
	}
	respondJSON(w, http.StatusCreated, punch)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	punches, err := s.db.Load()
	if err != nil {
		log.Printf("Error loading punches: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load punches")
		return
	}
	respondJSON(w, http.StatusOK, timesheet.Stats(punches, time.Now()))
}

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	punches, err := s.db.Load()
	if err != nil {
		log.Printf("Error loading punches: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load punches")
		return
	}

	days := timesheet.Days(punches, time.Now())
	if days == nil {
		days = []models.WorkDay{}
	}
	respondJSON(w, http.StatusOK, days)
}

// handleGenerateInsights runs the external insight request. Only one
// request may be in flight; overlapping calls get 409, and a store with
// no work days gets 422. Provider failures degrade to the fixed
// fallback insight, never an error response.
func (s *Server) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		respondError(w, http.StatusConflict, "an insight request is already in flight")
		return
	}
	s.generating = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	punches, err := s.db.Load()
	if err != nil {
		log.Printf("Error loading punches: %v", err)
		respondError(w, http.StatusInternalServerError, "could not load punches")
		return
	}

	days := timesheet.Days(punches, time.Now())
	if len(days) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "no work days to analyze yet")
		return
	}

	result, err := s.generator.Generate(r.Context(), insight.Recent(days))
	if err != nil {
		log.Printf("Insight request failed, using fallback: %v", err)
		result = insight.Fallback()
	}
	respondJSON(w, http.StatusOK, result)
}

type pageData struct {
	Active   string
	Stats    models.DashboardStats
	Days     []models.WorkDay
	DaysJSON template.JS
	HasData  bool
}

func (s *Server) render(w http.ResponseWriter, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, page, data); err != nil {
		log.Printf("Error rendering %s: %v", page, err)
	}
}

func (s *Server) loadDays(w http.ResponseWriter) ([]models.Punch, []models.WorkDay, bool) {
	punches, err := s.db.Load()
	if err != nil {
		log.Printf("Error loading punches: %v", err)
		http.Error(w, "could not load punches", http.StatusInternalServerError)
		return nil, nil, false
	}
	return punches, timesheet.Days(punches, time.Now()), true
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	punches, days, ok := s.loadDays(w)
	if !ok {
		return
	}

	// The chart covers the seven most recent days, oldest first.
	recent := insight.Recent(days)
	chart := make([]models.WorkDay, len(recent))
	for i, d := range recent {
		chart[len(recent)-1-i] = d
	}
	raw, err := json.Marshal(chart)
	if err != nil {
		log.Printf("Error encoding chart data: %v", err)
		raw = []byte("[]")
	}

	s.render(w, "dashboard.html", pageData{
		Active:   "dashboard",
		Stats:    timesheet.Stats(punches, time.Now()),
		Days:     days,
		DaysJSON: template.JS(raw),
		HasData:  len(days) > 0,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	_, days, ok := s.loadDays(w)
	if !ok {
		return
	}
	s.render(w, "history.html", pageData{
		Active:  "history",
		Days:    days,
		HasData: len(days) > 0,
	})
}

func (s *Server) handleInsightsPage(w http.ResponseWriter, r *http.Request) {
	_, days, ok := s.loadDays(w)
	if !ok {
		return
	}
	s.render(w, "insights.html", pageData{
		Active:  "insights",
		HasData: len(days) > 0,
	})
}
