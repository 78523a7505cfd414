package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ccops-lab/caseflow/pkg/usecase"
	"github.com/ccops-lab/caseflow/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases

	maxImageSize int64
	maxAudioSize int64

	documentTimeout time.Duration
	textTimeout     time.Duration
	audioTimeout    time.Duration
	diarizeTimeout  time.Duration
}

type Options func(*Server)

func WithMaxImageSize(n int64) Options {
	return func(s *Server) {
		s.maxImageSize = n
	}
}

func WithMaxAudioSize(n int64) Options {
	return func(s *Server) {
		s.maxAudioSize = n
	}
}

func WithDocumentTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.documentTimeout = d
	}
}

func WithTextTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.textTimeout = d
	}
}

func WithAudioTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.audioTimeout = d
	}
}

func WithDiarizeTimeout(d time.Duration) Options {
	return func(s *Server) {
		s.diarizeTimeout = d
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,

		maxImageSize: 10 * 1024 * 1024,
		maxAudioSize: 100 * 1024 * 1024,

		documentTimeout: 60 * time.Second,
		textTimeout:     60 * time.Second,
		audioTimeout:    120 * time.Second,
		diarizeTimeout:  180 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	r.Route("/image", func(r chi.Router) {
		r.Post("/process-document", withTimeout(s.documentTimeout, s.handleProcessDocument))
	})

	r.Route("/audio", func(r chi.Router) {
		r.Post("/whisper", withTimeout(s.audioTimeout, s.handleAudioWhisper))
		r.Post("/gemini", withTimeout(s.audioTimeout, s.handleAudioGemini))
		r.Post("/diarization", withTimeout(s.diarizeTimeout, s.handleAudioDiarization))
	})

	r.Post("/text", withTimeout(s.textTimeout, s.handleText))

	r.Route("/records", func(r chi.Router) {
		r.Get("/", s.handleListRecords)
		r.Get("/{recordID}", s.handleGetRecord)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// withTimeout bounds the handler's request context
func withTimeout(d time.Duration, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		h(w, r.WithContext(ctx))
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "caseflow",
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
