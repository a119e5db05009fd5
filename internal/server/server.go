// Package server exposes the HTTP surface: the Telegram webhook and the
// authenticated reminder/summary sweep entry points.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"accountability/internal/bot"
	"accountability/internal/logger"
	"accountability/internal/service"
)

// Sweeper triggers reminder processing; implemented by the reminder
// service.
type Sweeper interface {
	ProcessReminders(ctx context.Context, now time.Time) (service.SweepReport, error)
	SendDailySummaries(ctx context.Context, now time.Time) (service.SweepReport, error)
}

// Server wires the chi router around the bot and the reminder sweeps.
type Server struct {
	http    *http.Server
	bot     *bot.Bot
	sweeper Sweeper
	apiKey  string
}

func New(addr string, b *bot.Bot, sweeper Sweeper, apiKey string) *Server {
	s := &Server{bot: b, sweeper: sweeper, apiKey: apiKey}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Post("/api/telegram/webhook", s.handleWebhook)
	r.Get("/api/telegram/webhook", statusNote("Telegram webhook active"))

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/api/reminders/process", s.handleProcess)
		r.Post("/api/reminders/daily-summary", s.handleDailySummary)
	})
	r.Get("/api/reminders/process", statusNote("Reminder processor active"))
	r.Get("/api/reminders/daily-summary", statusNote("Daily summary processor active"))

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleWebhook feeds an inbound Telegram update to the bot. Telegram
// retries non-200 responses, so the handler always answers ok.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logger.Warn("malformed webhook payload", zap.Error(err))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if err := s.bot.HandleUpdate(r.Context(), update); err != nil {
		logger.Error("webhook update", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	report, err := s.sweeper.ProcessReminders(r.Context(), time.Now())
	if err != nil {
		logger.Error("reminder sweep", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to process reminders",
		})
		return
	}
	writeReport(w, report)
}

func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	report, err := s.sweeper.SendDailySummaries(r.Context(), time.Now())
	if err != nil {
		logger.Error("daily summary sweep", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Failed to send daily summaries",
		})
		return
	}
	writeReport(w, report)
}

// requireAPIKey guards the sweep triggers with a shared-secret bearer
// token. An empty configured key leaves the endpoints open, matching
// local-development expectations.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+s.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func statusNote(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": status, "note": "Use POST to trigger"})
	}
}

func writeReport(w http.ResponseWriter, report service.SweepReport) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"processed": report.Processed,
		"sent":      report.Sent,
		"errors":    report.Errors,
		"timestamp": report.Timestamp,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("encode response", err)
	}
}
