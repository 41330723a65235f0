package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/launchline/concierge/internal/checklist"
	"github.com/launchline/concierge/internal/gaps"
	"github.com/launchline/concierge/internal/processor"
	"github.com/launchline/concierge/internal/transcript"
)

// Pipeline handles normalized webhook events.
type Pipeline interface {
	HandleCallStart(ctx context.Context, evt transcript.Event) processor.Result
	HandleCallEnd(ctx context.Context, evt transcript.Event) processor.Result
}

// Ops serves the operational endpoints.
type Ops interface {
	Report(ctx context.Context, phone string) (checklist.CompletionReport, checklist.Readiness, error)
	Gaps(ctx context.Context, phone string) (gaps.Analysis, []gaps.ActionItem, error)
	RefreshPrompt(ctx context.Context, phone string) error
}

type Server struct {
	router        *chi.Mux
	port          int
	webhookSecret string
	pipeline      Pipeline
	ops           Ops
}

func NewServer(port int, apiToken, webhookSecret string, pl Pipeline, ops Ops) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:        router,
		port:          port,
		webhookSecret: webhookSecret,
		pipeline:      pl,
		ops:           ops,
	}

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.Handler())
	router.Post("/webhook/voice", s.handleWebhook)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuthMiddleware(apiToken))
		r.Get("/customers/{phone}/report", s.customerReport)
		r.Get("/customers/{phone}/gaps", s.customerGaps)
		r.Post("/customers/{phone}/refresh", s.customerRefresh)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// BearerAuthMiddleware guards the ops routes. An empty token leaves them open
// for local development.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" {
				auth := r.Header.Get("Authorization")
				if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
					http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
