package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"elderease/memory"
)

const banner = "Welcome to the ElderEase Backend API! The server is running."

// Server translates HTTP requests into memory operations.
type Server struct {
	memory *memory.Memory
	logger zerolog.Logger
}

func NewServer(m *memory.Memory, logger zerolog.Logger) *Server {
	return &Server{memory: m, logger: logger}
}

// Handler returns the routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /memory", s.handleStore)
	mux.HandleFunc("GET /memory", s.handleRecall)
	mux.HandleFunc("GET /memories", s.handleList)

	var h http.Handler = mux
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.NewHandler(s.logger)(h)
	return h
}
