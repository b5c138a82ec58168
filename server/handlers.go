package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-pkgz/lgr"

	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/recommend"
)

// fetchRequest is the trigger invocation payload
type fetchRequest struct {
	ScheduleType string `json:"scheduleType"`
}

// fetchHandler triggers a fetch run for the requested schedule type.
// Concurrent triggers for the same schedule type are rejected with 409; the
// orchestrator itself never serializes runs.
func (s *Server) fetchHandler(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	schedule, err := domain.ParseScheduleType(req.ScheduleType)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	if !s.tryAcquireRun(schedule) {
		RenderError(w, r, fmt.Errorf("%s fetch already running", schedule), http.StatusConflict)
		return
	}
	defer s.releaseRun(schedule)

	lgr.Printf("[INFO] fetch triggered for schedule %s", schedule)
	result := s.fetcher.Run(r.Context(), schedule)

	code := http.StatusOK
	if result.Status == domain.FetchFailed {
		code = http.StatusBadGateway
	}
	RenderJSON(w, r, code, result)
}

// recommendationsResponse wraps ranked results with profile warnings
type recommendationsResponse struct {
	Recommendations []domain.ScoredCandidate `json:"recommendations"`
	Warnings        []string                 `json:"warnings,omitempty"`
}

// recommendationsHandler answers a recommendation query
func (s *Server) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	results, warnings, err := s.recommender.Recommend(r.Context(), req)
	if err != nil {
		lgr.Printf("[WARN] recommendation request failed: %v", err)
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	RenderJSON(w, r, http.StatusOK, recommendationsResponse{Recommendations: results, Warnings: warnings})
}

// tryAcquireRun marks a schedule type as running, false when already in flight
func (s *Server) tryAcquireRun(schedule domain.ScheduleType) bool {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()
	if s.runs[schedule] {
		return false
	}
	s.runs[schedule] = true
	return true
}

// releaseRun clears the in-flight mark for a schedule type
func (s *Server) releaseRun(schedule domain.ScheduleType) {
	s.runsMu.Lock()
	defer s.runsMu.Unlock()
	delete(s.runs, schedule)
}
