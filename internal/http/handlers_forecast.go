package http

import (
	"net/http"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	result, err := s.forecasts.Predict(r.Context(), userID, core.DateOf(time.Now()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if result.Forecast == nil {
		result.Forecast = []core.ForecastEntry{}
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	summary, err := s.forecasts.Summarize(r.Context(), userID, core.DateOf(time.Now()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
