// Package httpapi exposes the draft-then-confirm pipeline and the sales
// reports over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/foxseedlab/kasirsuara/internal/domain"
	"github.com/foxseedlab/kasirsuara/internal/metrics"
	"github.com/foxseedlab/kasirsuara/internal/pipeline"
	"github.com/foxseedlab/kasirsuara/internal/report"
	"github.com/foxseedlab/kasirsuara/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type DraftService interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
	GenerateDraftFromAudio(ctx context.Context, merchantID int64, audio []byte) (*pipeline.AudioDraft, error)
	GenerateDraft(ctx context.Context, merchantID int64, transcript string) (*domain.Draft, error)
	Confirm(ctx context.Context, req domain.ConfirmRequest) (domain.CommitResult, error)
}

type ReportService interface {
	MonthlyTransactions(ctx context.Context, merchantID int64) (report.MonthlyReport, error)
	TransactionSummary(ctx context.Context, merchantID int64) (report.Summary, error)
	LastTransactions(ctx context.Context, merchantID int64) ([]repository.RecentTransaction, error)
}

type ServerDeps struct {
	Drafts        DraftService
	Reports       ReportService
	Health        repository.HealthChecker
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	MaxAudioBytes int64
}

type Server struct {
	drafts        DraftService
	reports       ReportService
	health        repository.HealthChecker
	metrics       *metrics.Metrics
	gatherer      prometheus.Gatherer
	maxAudioBytes int64
	upgrader      websocket.Upgrader
}

func NewServer(deps ServerDeps) *Server {
	return &Server{
		drafts:        deps.Drafts,
		reports:       deps.Reports,
		health:        deps.Health,
		metrics:       deps.Metrics,
		gatherer:      deps.Gatherer,
		maxAudioBytes: deps.MaxAudioBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 1024,
			// The merchant app is served from another origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(s.countRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/speech", func(r chi.Router) {
			r.Post("/speech-to-text", s.handleSpeechToText)
			r.Get("/ws/speech-to-text", s.handleSpeechToTextWS)
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/generate-draft", s.handleGenerateDraft)
			r.Post("/generate-draft-text", s.handleGenerateDraftText)
			r.Post("/confirm", s.handleConfirm)
		})
		r.Route("/reports", func(r chi.Router) {
			r.Get("/monthly_transaction", s.handleMonthlyTransaction)
			r.Get("/transaction_summary", s.handleTransactionSummary)
			r.Get("/last_transaction", s.handleLastTransaction)
		})
	})
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			writeRequestError(w, http.StatusServiceUnavailable, "unhealthy", messageUnhealthy)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
