package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"elderease/log"
)

// Service runs a Server as an srv.Service.
type Service struct {
	server *http.Server
}

func NewService(addr string, s *Server) *Service {
	return &Service{
		server: &http.Server{
			Addr:              addr,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Service) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	s.server.BaseContext = func(net.Listener) context.Context { return context.WithoutCancel(ctx) }

	log.FromCtx(ctx).Info().Str("addr", ln.Addr().String()).Msg("http server listening")
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Service) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
