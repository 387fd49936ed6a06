// Package server exposes the bridge to content running in a real browser:
// the provider scripts over HTTP and the call/delivery channel over a
// websocket, one bridge per connection.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	w3m "github.com/status-im/status-web3-mock-go"
)

// All general log messages in this package should be routed through this logger.
var logger = log.New("package", "status-web3-mock/server")

// Server serves the provider scripts and the websocket bridge endpoint.
type Server struct {
	session    *w3m.Session
	dispatcher *w3m.MockDispatcher
	generator  *w3m.ScriptGenerator
	upgrader   websocket.Upgrader
	handler    http.Handler

	mu     sync.Mutex
	conns  map[uuid.UUID]*conn
	closed bool
}

func New(session *w3m.Session, dispatcher *w3m.MockDispatcher, cfg w3m.ServerConfig) *Server {
	s := &Server{
		session:    session,
		dispatcher: dispatcher,
		generator:  w3m.NewScriptGenerator(session),
		conns:      make(map[uuid.UUID]*conn),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	s.handler = c.Handler(s.setupRoutes())

	return s
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	logger.Info("bridge server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Close()
	<-errc
	logger.Info("bridge server stopped")
	return err
}

func (s *Server) add(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c.id] = c
	return true
}

func (s *Server) remove(c *conn) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
}

func (s *Server) snapshot() []*conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*conn, 0, len(s.conns))
	for _, c := range s.conns {
		out = append(out, c)
	}
	return out
}

// Broadcast simulates a provider event on every connected page and returns
// how many pages it reached.
func (s *Server) Broadcast(name string, data interface{}) (int, error) {
	n := 0
	for _, c := range s.snapshot() {
		if err := c.bridge.SimulateEvent(name, data); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Connections returns the number of connected pages.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close drops every connection.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	for _, c := range s.snapshot() {
		c.close()
	}
}
