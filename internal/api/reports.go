package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/launchline/concierge/internal/checklist"
	"github.com/launchline/concierge/internal/gaps"
)

type reportResponse struct {
	Phone     string                     `json:"phone"`
	Report    checklist.CompletionReport `json:"report"`
	Readiness checklist.Readiness        `json:"readiness"`
}

type gapsResponse struct {
	Phone       string            `json:"phone"`
	Analysis    gaps.Analysis     `json:"analysis"`
	ActionItems []gaps.ActionItem `json:"action_items"`
}

// customerReport serves the completion breakdown for one customer. A lookup
// miss comes back as a zero-valued report, not a 404. "No record" means 0%.
func (s *Server) customerReport(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	report, readiness, err := s.ops.Report(r.Context(), phone)
	if err != nil {
		http.Error(w, `{"error":"report unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{Phone: phone, Report: report, Readiness: readiness})
}

func (s *Server) customerGaps(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	analysis, items, err := s.ops.Gaps(r.Context(), phone)
	if err != nil {
		http.Error(w, `{"error":"gap analysis unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, gapsResponse{Phone: phone, Analysis: analysis, ActionItems: items})
}

func (s *Server) customerRefresh(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if err := s.ops.RefreshPrompt(r.Context(), phone); err != nil {
		http.Error(w, `{"error":"refresh failed"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed", "phone": phone})
}
