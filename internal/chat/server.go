package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Config holds configuration for the chat server
type Config struct {
	// Addr is the TCP listen address
	Addr string
	// ShutdownTimeout bounds how long Shutdown waits for handlers
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for server configuration
func DefaultConfig() Config {
	return Config{
		Addr:            ":12345",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server accepts connections and runs one handler goroutine per client:
// authentication, registry insertion, the read-dispatch loop, and a
// single cleanup path on every exit branch.
type Server struct {
	cfg           Config
	registry      *Registry
	router        *Router
	authenticator *Authenticator
	logger        *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	sessions map[*Session]struct{}

	wg sync.WaitGroup
}

// NewServer creates a chat server
func NewServer(cfg Config, registry *Registry, router *Router, authenticator *Authenticator, logger *slog.Logger) *Server {
	return &Server{
		cfg:           cfg,
		registry:      registry,
		router:        router,
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "server")),
		sessions:      make(map[*Session]struct{}),
	}
}

// Listen binds the TCP listener. Failure to bind is the only fatal
// startup error in the system.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("chat server listening", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the resolved listen address once Listen has succeeded
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Start accepts connections until the listener is closed, binding it
// first if Listen was not called. Each accepted transport gets its own
// handler goroutine.
func (s *Server) Start() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.listener
		s.mu.Unlock()
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Shutdown closes the listener and every live session, then waits for
// handler goroutines to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down chat server")

	s.mu.Lock()
	ln := s.listener
	sessions := make([]*Session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	for _, sess := range sessions {
		sess.Terminate()
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("chat server stopped")
		return nil
	case <-waitCtx.Done():
		return waitCtx.Err()
	}
}

// handleConn owns one connection from acceptance to termination
func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()

	sess := NewSession(conn)
	s.track(sess)
	s.logger.Info("connection accepted",
		slog.String("remote", sess.RemoteAddr()),
		slog.String("session_id", sess.ID()))

	// Single cleanup path for every exit branch: explicit /exit, read
	// error, empty read, eviction, and shutdown all land here.
	defer func() {
		username := sess.Username()
		sess.Terminate()
		s.untrack(sess)
		if username != "" {
			s.registry.Unregister(username)
			s.registry.Announce(departureAnnouncement(username))
		}
		s.logger.Info("connection closed",
			slog.String("session_id", sess.ID()),
			slog.Duration("connected_for", sess.ConnectedFor()))
	}()

	ctx := context.Background()

	// Authentication phase. A credential that validates but names an
	// already-online user is rejected and the client returns to the
	// prompt; the registry insert is the arbiter for concurrent logins
	// under the same name.
	var username string
	for {
		name, err := s.authenticator.Run(ctx, sess)
		if err != nil {
			return
		}
		if err := s.registry.Register(name, sess); err != nil {
			if sendErr := sess.Send(alreadyOnlineReply(name)); sendErr != nil {
				return
			}
			continue
		}
		username = name
		break
	}

	if err := sess.Authenticate(username); err != nil {
		s.registry.Unregister(username)
		return
	}
	s.registry.Announce(joinAnnouncement(username))

	// Active read-dispatch loop. A transport error ends the session
	// exactly like /exit, minus the farewell.
	for {
		line, err := sess.ReadLine()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}
		if quit := s.router.Dispatch(ctx, sess, line); quit {
			return
		}
	}
}

func (s *Server) track(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess] = struct{}{}
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}
