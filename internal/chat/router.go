package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/relaychat/relaychat/internal/services/auth"
)

// Router interprets each line from an authenticated session as either a
// slash-command or a chat broadcast and dispatches it against the
// registry.
type Router struct {
	registry *Registry
	auth     *auth.Service
	logger   *slog.Logger
}

// NewRouter creates a Router
func NewRouter(registry *Registry, authSvc *auth.Service, logger *slog.Logger) *Router {
	return &Router{
		registry: registry,
		auth:     authSvc,
		logger:   logger.With(slog.String("component", "router")),
	}
}

// Dispatch handles one line of input and reports whether the session
// asked to leave. Errors talking to the sender itself are not surfaced
// here; a dead sender is noticed by its own read loop.
func (rt *Router) Dispatch(ctx context.Context, sess *Session, line string) (quit bool) {
	if strings.HasPrefix(line, "/") {
		return rt.dispatchCommand(ctx, sess, line)
	}

	rt.registry.Broadcast(chatMessage(sess.Username(), line), sess.Username())
	return false
}

func (rt *Router) dispatchCommand(ctx context.Context, sess *Session, line string) bool {
	parts := splitCommand(line)

	switch parts[0] {
	case "/register", "/login":
		// The username is fixed at authentication for the life of the
		// connection; re-authenticating would split delivery.
		_ = sess.Send(errorReply("you are already signed in as " + sess.Username()))

	case "/dm":
		if len(parts) < 3 {
			_ = sess.Send(usageDM)
			return false
		}
		rt.directMessage(sess, parts[1], parts[2])

	case "/users":
		_ = sess.Send(usersReply(rt.registry.Usernames()))

	case "/exit":
		_ = sess.Send(msgGoodbye)
		return true

	default:
		_ = sess.Send(errorReply("unknown command: " + parts[0]))
	}

	return false
}

// directMessage delivers text privately and confirms to the sender.
// An offline recipient produces an error reply to the sender only.
func (rt *Router) directMessage(sess *Session, recipient, text string) {
	sender := sess.Username()

	if err := rt.registry.SendTo(recipient, dmToRecipient(sender, text)); err != nil {
		_ = sess.Send(userOfflineReply(recipient))
		return
	}
	_ = sess.Send(dmConfirmation(recipient, text))

	rt.logger.Info("direct message delivered",
		slog.String("from", sender),
		slog.String("to", recipient))
}
