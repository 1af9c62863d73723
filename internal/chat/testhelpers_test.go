package chat

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

// testClient is the peer end of an in-memory session transport. A
// background goroutine drains server output into a channel so sends
// from the code under test never block.
type testClient struct {
	conn  net.Conn
	lines chan string
}

// newSessionPair returns a session and the client end of its transport
func newSessionPair(t *testing.T) (*Session, *testClient) {
	t.Helper()

	serverEnd, clientEnd := net.Pipe()
	sess := NewSession(serverEnd)
	tc := &testClient{
		conn:  clientEnd,
		lines: make(chan string, 64),
	}
	go tc.readLoop()

	t.Cleanup(func() {
		sess.Terminate()
		_ = clientEnd.Close()
	})

	return sess, tc
}

func (c *testClient) readLoop() {
	scanner := bufio.NewScanner(c.conn)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	close(c.lines)
}

// send writes one line of client input
func (c *testClient) send(t *testing.T, line string) {
	t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		t.Fatalf("send %q: %v", line, err)
	}
}

// next returns the next line the client received
func (c *testClient) next(t *testing.T) string {
	t.Helper()
	select {
	case line, ok := <-c.lines:
		if !ok {
			t.Fatal("connection closed while waiting for message")
		}
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	return ""
}

// waitFor discards lines until one contains the substring
func (c *testClient) waitFor(t *testing.T, substring string) string {
	t.Helper()
	for {
		line := c.next(t)
		if strings.Contains(line, substring) {
			return line
		}
	}
}

// expectSilence asserts no line arrives within a short window
func (c *testClient) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case line, ok := <-c.lines:
		if ok {
			t.Fatalf("unexpected message: %q", line)
		}
	case <-time.After(50 * time.Millisecond):
	}
}
