package http

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sushant12/vdisk/internal/firecracker"
	"github.com/sushant12/vdisk/internal/http/handlers"
)

const ShutdownTimeout = 5 * time.Second

type Server struct {
	srv *http.Server
	log logrus.FieldLogger
}

func NewServer(addr string, log logrus.FieldLogger, fcOpts ...firecracker.Option) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(handlers.NewGenerate(log, fcOpts...), log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.WithField("item", "Server"),
	}
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) Start() error {
	s.log.WithField("addr", s.srv.Addr).Info("Server is listening")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	return s.srv.Shutdown(ctx)
}
