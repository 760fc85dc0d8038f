// Package server exposes the client's screens and forms as a JSON API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sheikh-saqib/apb-demo-bank/internal/commands"
	"github.com/sheikh-saqib/apb-demo-bank/internal/logger"
	"github.com/sheikh-saqib/apb-demo-bank/internal/speech"
)

// ClipSource hands out the latest spoken confirmation.
type ClipSource interface {
	Latest() (speech.Clip, bool)
}

type Server struct {
	cmd   *commands.Handler
	clips ClipSource
	log   *logger.Logger
}

func NewServer(cmd *commands.Handler, clips ClipSource, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{cmd: cmd, clips: clips, log: log}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.getSession)
		r.Post("/session", s.login)
		r.Delete("/session", s.logout)

		r.Get("/menu", s.menu)
		r.Get("/views/{view}", s.view)
		r.Get("/notification", s.notification)
		r.Get("/transactions", s.transactions)
		r.Get("/speech/latest", s.latestClip)

		r.Post("/transfers", s.transfer)
		r.Post("/loans", s.requestLoan)
		r.Post("/loans/repayment", s.repayLoan)
		r.Post("/market/{itemID}", s.purchase)

		r.Route("/admin/accounts", func(r chi.Router) {
			r.Post("/", s.createAccount)
			r.Post("/{id}/balance", s.adjustBalance)
			r.Put("/{id}/staff-role", s.setStaffRole)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
