package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Server runs the API until its context is cancelled.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *slog.Logger
}

// Listen binds address. The returned server is not yet serving.
func Listen(address string, handler http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", address, err)
	}
	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		listener: listener,
		logger:   logger.With("component", "remote"),
	}, nil
}

// Addr is the bound address, useful when listening on port 0.
func (server *Server) Addr() string {
	return server.listener.Addr().String()
}

// Serve blocks until ctx is done, then shuts down gracefully. Open event
// streams are cut by the shutdown timeout.
func (server *Server) Serve(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.httpServer.Serve(server.listener)
	}()
	server.logger.Info("remote api listening", "addr", server.Addr())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve remote api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.httpServer.Shutdown(shutdownCtx); err != nil {
		_ = server.httpServer.Close()
		return fmt.Errorf("shutdown remote api: %w", err)
	}
	return nil
}
