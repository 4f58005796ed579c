// Package server exposes the render engine to live editor sessions over
// socket.io. Clients submit React-Flow documents and receive rendered frames
// back on the same connection; a plain HTTP health endpoint rides on the
// same listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/zishang520/socket.io/v2/socket"
)

// Server hosts the socket.io endpoint at /socket.io/ and a /healthz probe.
type Server struct {
	logger *slog.Logger
	io     *socket.Server
	mux    *http.ServeMux
	http   *http.Server
}

// New wires a render server. The socket.io handlers are registered here;
// nothing listens until Serve or ListenAndServe is called.
func New(logger *slog.Logger) *Server {
	s := &Server{
		logger: logger,
		io:     socket.NewServer(nil, nil),
	}

	s.io.On("connection", func(clients ...any) {
		s.handleConnection(clients[0].(*socket.Socket))
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	mux.HandleFunc("/healthz", s.healthHandler)
	s.mux = mux
	s.http = &http.Server{Handler: mux}
	return s
}

// Handler returns the HTTP handler carrying both endpoints.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Render server listening.", "address", ln.Addr().String())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("render server failed: %w", err)
	}
	return nil
}

// ListenAndServe listens on addr and serves until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Shutdown disconnects socket.io clients and drains HTTP connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("Shutting down render server.")
	s.io.Close(nil)
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down render server: %w", err)
	}
	return nil
}

// handleConnection registers the per-client event handlers.
func (s *Server) handleConnection(client *socket.Socket) {
	s.logger.Info("Client connected.", "clientID", client.Id())

	client.On("workflow:run", func(datas ...any) {
		res := s.runWorkflow(datas)
		if res.Error != "" {
			s.logger.Warn("Render request failed.", "clientID", client.Id(), "error", res.Error)
		}
		client.Emit("run:result", res)
	})

	client.On("workflow:check", func(datas ...any) {
		client.Emit("check:result", s.checkWorkflow(datas))
	})

	client.On("disconnect", func(reasons ...any) {
		s.logger.Info("Client disconnected.", "clientID", client.Id(), "reason", firstString(reasons))
	})
}

// healthHandler reports liveness for load balancers and local checks.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// firstString renders the first event argument for logging. Disconnect
// reasons arrive as strings, but the signature allows anything.
func firstString(args []any) string {
	if len(args) == 0 {
		return ""
	}
	if s, ok := args[0].(string); ok {
		return s
	}
	return fmt.Sprint(args[0])
}
