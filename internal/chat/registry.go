package chat

import (
	"log/slog"
	"sync"

	"github.com/relaychat/relaychat/internal/model"
)

// Registry is the shared table mapping online usernames to their active
// sessions. It is the single piece of state shared by every connection
// handler; every mutation and enumeration goes through its mutex.
type Registry struct {
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	order    []string // usernames in registration order
}

// NewRegistry creates an empty registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logger.With(slog.String("component", "registry")),
		sessions: make(map[string]*Session),
	}
}

// Register inserts a session under a username. Exactly one session may
// hold a username at a time; a second registration for an online name
// fails with model.ErrAlreadyOnline.
func (r *Registry) Register(username string, sess *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[username]; ok {
		return model.ErrAlreadyOnline
	}
	r.sessions[username] = sess
	r.order = append(r.order, username)
	r.logger.Info("client registered",
		slog.String("username", username),
		slog.String("session_id", sess.ID()),
		slog.Int("online", len(r.sessions)))
	return nil
}

// Unregister removes a username from the registry. Removal is
// idempotent; concurrent failure paths may both attempt it.
func (r *Registry) Unregister(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(username)
}

// Lookup returns the session currently registered under a username
func (r *Registry) Lookup(username string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[username]
	return sess, ok
}

// Usernames returns a snapshot of online usernames in registration order
func (r *Registry) Usernames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of online sessions
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Broadcast delivers text to every registered session except exclude.
// The recipient set is snapshotted under the lock and sends happen
// outside it, so one slow or dead peer never stalls the registry. A
// recipient whose send fails is evicted and its transport closed;
// delivery to the remaining recipients continues.
func (r *Registry) Broadcast(text string, exclude string) {
	type recipient struct {
		username string
		sess     *Session
	}

	r.mu.Lock()
	recipients := make([]recipient, 0, len(r.order))
	for _, name := range r.order {
		if name == exclude {
			continue
		}
		recipients = append(recipients, recipient{username: name, sess: r.sessions[name]})
	}
	r.mu.Unlock()

	for _, rcpt := range recipients {
		if err := rcpt.sess.Send(text); err != nil {
			r.evict(rcpt.username, rcpt.sess, err)
		}
	}
}

// SendTo delivers text to a single named recipient, evicting the
// recipient if its transport has failed.
func (r *Registry) SendTo(username, text string) error {
	sess, ok := r.Lookup(username)
	if !ok {
		return model.ErrUserOffline
	}
	if err := sess.Send(text); err != nil {
		r.evict(username, sess, err)
		return model.ErrUserOffline
	}
	return nil
}

// Announce logs a chat event on the server console and broadcasts the
// same line to every online session.
func (r *Registry) Announce(text string) {
	r.logger.Info(text)
	r.Broadcast(text, "")
}

// evict removes a session whose transport has failed. Only the exact
// session is removed, so a newer login under the same name is never
// clobbered by a stale eviction. The departure announcement is left to
// the session's own handler goroutine, which wakes when the transport
// closes.
func (r *Registry) evict(username string, sess *Session, sendErr error) {
	r.mu.Lock()
	current, ok := r.sessions[username]
	if ok && current == sess {
		r.removeLocked(username)
	}
	r.mu.Unlock()

	sess.Terminate()
	r.logger.Warn("client evicted after send failure",
		slog.String("username", username),
		slog.String("error", sendErr.Error()))
}

// removeLocked deletes a username from the table and the order slice.
// Caller must hold the mutex.
func (r *Registry) removeLocked(username string) {
	if _, ok := r.sessions[username]; !ok {
		return
	}
	delete(r.sessions, username)
	for i, name := range r.order {
		if name == username {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("client unregistered",
		slog.String("username", username),
		slog.Int("online", len(r.sessions)))
}
