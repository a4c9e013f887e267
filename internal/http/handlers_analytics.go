package http

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/amqp"
	"fintrack/internal/analytics"
)

// handleTrends serves GET /api/analytics/trends?months=N.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	months := parseIntParam(r.URL.Query(), "months", s.defaults.TrendMonths)
	points, err := s.analytics.MonthlyTrends(r.Context(), months)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if points == nil {
		points = []analytics.TrendPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

// handleInsights serves GET /api/analytics/insights?year=Y&month=M,
// defaulting to the current month. A month with no data returns 200 with
// no_data set, not an error.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	params := parseMonthParams(r.URL.Query(), s.now())
	if !params.Valid() {
		writeError(w, http.StatusBadRequest, "invalid year/month")
		return
	}

	insights, err := s.analytics.CategoryInsights(r.Context(), params.Year, params.Month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if insights == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"no_data": true,
			"year":    params.Year,
			"month":   params.Month,
		})
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleProjection serves GET /api/analytics/projection. An empty map means
// there is not enough history to project.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	projections, err := s.analytics.AnnualProjection(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projections)
}

// handleAnomalies serves GET /api/analytics/anomalies?threshold=T.
func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	threshold := parseFloatParam(r.URL.Query(), "threshold", s.defaults.AnomalyThreshold)
	anomalies, err := s.analytics.DetectAnomalies(r.Context(), threshold)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if anomalies == nil {
		anomalies = []analytics.Anomaly{}
	}
	writeJSON(w, http.StatusOK, anomalies)
}

// handleScore serves GET /api/analytics/score for the current month.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	score, err := s.analytics.FinancialScore(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// handleExportReport serves POST /api/reports/export, enqueueing an export
// job and returning 202 with the job ID. The optional body selects the report
// type ("monthly", the default, or "projection") and, for monthly reports,
// the target month (defaulting to the current one).
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if s.exports == nil {
		writeError(w, http.StatusServiceUnavailable, "report export is not configured")
		return
	}

	var req struct {
		Type  string `json:"type"`
		Year  int    `json:"year"`
		Month int    `json:"month"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	if req.Type == "" {
		req.Type = amqp.ReportMonthly
	}
	if req.Type != amqp.ReportMonthly && req.Type != amqp.ReportProjection {
		writeError(w, http.StatusBadRequest, "invalid report type, want 'monthly' or 'projection'")
		return
	}

	now := s.now()
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Type == amqp.ReportMonthly && (req.Month < 1 || req.Month > 12 || req.Year < 1) {
		writeError(w, http.StatusBadRequest, "invalid year/month")
		return
	}

	msg := amqp.NewExportJobMessage(req.Type, req.Year, req.Month)
	if err := s.exports.PublishExportJob(r.Context(), msg); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id": msg.JobID,
		"type":   msg.Type,
		"year":   msg.Year,
		"month":  msg.Month,
	})
}
