package chat

import (
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relaychat/relaychat/internal/model"
)

// Session lifecycle states
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateTerminated
)

const (
	// Maximum bytes consumed per read. A payload larger than one read
	// buffer is not reassembled; each chunk is handled as its own line.
	readBufferSize = 1024

	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
)

// Session is the live state of one client connection, from acceptance to
// termination. The transport is exclusively owned by the session; reads
// happen only from the connection's handler goroutine, writes may come
// from any goroutine and are serialized under the session mutex.
type Session struct {
	id          string
	conn        net.Conn
	connectedAt time.Time
	readBuf     []byte

	mu       sync.Mutex
	username string
	state    State
}

// NewSession wraps an accepted connection in an unauthenticated session
func NewSession(conn net.Conn) *Session {
	return &Session{
		id:          uuid.NewString(),
		conn:        conn,
		connectedAt: time.Now(),
		readBuf:     make([]byte, readBufferSize),
		state:       StateUnauthenticated,
	}
}

// ID returns the session's unique identifier
func (s *Session) ID() string {
	return s.id
}

// RemoteAddr returns the peer address for logging
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// Username returns the authenticated username, or "" before authentication
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// State returns the current lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticate marks the session as authenticated under the given
// username. The username is set exactly once; a second call is an error.
func (s *Session) Authenticate(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTerminated {
		return model.ErrSessionTerminated
	}
	if s.state == StateAuthenticated {
		return model.ErrAlreadyOnline
	}
	s.username = username
	s.state = StateAuthenticated
	return nil
}

// ReadLine blocks for the next chunk of client input and returns it with
// surrounding whitespace trimmed. An empty read or transport error ends
// the session's read loop.
func (s *Session) ReadLine() (string, error) {
	n, err := s.conn.Read(s.readBuf)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", io.EOF
	}
	return strings.TrimSpace(string(s.readBuf[:n])), nil
}

// Send writes one newline-terminated message to the client. A send
// failure means the transport is dead; the caller is responsible for
// evicting the session.
func (s *Session) Send(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTerminated {
		return model.ErrSessionTerminated
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_, err := s.conn.Write([]byte(text + "\n"))
	return err
}

// Terminate closes the transport and marks the session terminated.
// Safe to call from any goroutine and idempotent.
func (s *Session) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateTerminated {
		return
	}
	s.state = StateTerminated
	_ = s.conn.Close()
}

// ConnectedFor returns how long the session has been connected
func (s *Session) ConnectedFor() time.Duration {
	return time.Since(s.connectedAt)
}
