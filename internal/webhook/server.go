// Package webhook exposes the HTTP surface that receives platform updates.
//
// Inbound deliveries are always acknowledged with 200: a logic failure must
// look like a handled update to the platform, or it retries the delivery
// and masks the bug as a transport problem.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	telebot "gopkg.in/telebot.v3"

	"github.com/fvalenzuela1/botarb/internal/event"
	"github.com/fvalenzuela1/botarb/internal/idempotency"
	"github.com/fvalenzuela1/botarb/pkg/logger"
)

// Processor drives one update to completion. Implemented by *bridge.Bridge.
type Processor interface {
	Process(ctx context.Context, upd telebot.Update) error
}

// WebhookSetter registers the public callback URL with the platform.
// Implemented by *telegram.Client.
type WebhookSetter interface {
	SetWebhook(ctx context.Context, url string) error
}

// Server holds the webhook endpoints' dependencies.
type Server struct {
	processor  Processor
	setter     WebhookSetter
	guard      *idempotency.Guard
	webhookURL string
	log        *slog.Logger
}

// NewServer builds the webhook server.
func NewServer(processor Processor, setter WebhookSetter, guard *idempotency.Guard, webhookURL string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		processor:  processor,
		setter:     setter,
		guard:      guard,
		webhookURL: webhookURL,
		log:        log,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logger.Middleware)
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleUpdate).Methods(http.MethodPost)
	r.HandleFunc("/setwebhook", s.handleSetWebhook).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var upd telebot.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.log.Warn("discarding undecodable update", slog.Any("error", err))
		ack(w)
		return
	}

	if s.guard != nil && s.guard.Seen(upd.ID) {
		s.log.Info("duplicate update acknowledged", slog.Int("update_id", upd.ID))
		ack(w)
		return
	}

	if err := s.processor.Process(r.Context(), upd); err != nil {
		switch {
		case errors.Is(err, event.ErrUnsupportedUpdate):
			s.log.Info("unsupported update shape ignored", slog.Int("update_id", upd.ID))
		default:
			s.log.Error("update processing failed",
				slog.Int("update_id", upd.ID),
				slog.Any("error", err),
			)
		}
	}

	ack(w)
}

func (s *Server) handleSetWebhook(w http.ResponseWriter, r *http.Request) {
	if s.setter == nil || s.webhookURL == "" {
		http.Error(w, "webhook URL not configured", http.StatusServiceUnavailable)
		return
	}

	if err := s.setter.SetWebhook(r.Context(), s.webhookURL); err != nil {
		s.log.Error("failed to register webhook", slog.Any("error", err))
		http.Error(w, "failed to register webhook", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Webhook set"))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// statusWriter captures the response status for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		s.log.Info("handled http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", sw.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("correlation_id", logger.CorrelationIDFromContext(r.Context())),
		)
	})
}
