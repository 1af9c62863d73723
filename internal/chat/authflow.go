package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/relaychat/relaychat/internal/model"
	"github.com/relaychat/relaychat/internal/services/auth"
)

const (
	replyAccountExists = "that account already exists, try another name"
	replyUnknownUser   = "that account does not exist"
	replyBadPassword   = "wrong password, try again"
	replyInternal      = "something went wrong, try again"
)

// Authenticator drives the pre-join authentication protocol on a
// session: an interactive prompt loop, with one-shot /register and
// /login commands accepted at the choice prompt. Validation and
// credential failures re-prompt; only transport failures end the flow.
//
// The authenticator never inserts the session into the registry. It
// returns the validated username and leaves registration to the caller,
// which owns the conflict policy for already-online names.
type Authenticator struct {
	auth     *auth.Service
	registry *Registry
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator
func NewAuthenticator(authSvc *auth.Service, registry *Registry, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		auth:     authSvc,
		registry: registry,
		logger:   logger.With(slog.String("component", "authflow")),
	}
}

// Run executes the protocol until the client authenticates or the
// transport fails. A non-nil error always means the transport is dead.
func (a *Authenticator) Run(ctx context.Context, sess *Session) (string, error) {
	for {
		if err := sess.Send(msgChoicePrompt); err != nil {
			return "", err
		}
		line, err := sess.ReadLine()
		if err != nil {
			return "", err
		}

		var username string
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "/"):
			username, err = a.oneShot(ctx, sess, line)
		case strings.EqualFold(line, "register"):
			username, err = a.interactiveRegister(ctx, sess)
		case strings.EqualFold(line, "login"):
			username, err = a.interactiveLogin(ctx, sess)
		default:
			err = sess.Send(errorReply("type 'register' or 'login'"))
		}
		if err != nil {
			return "", err
		}
		if username != "" {
			return username, nil
		}
	}
}

// oneShot handles a slash-command received before authentication.
// Malformed or unrelated commands produce a single error reply and
// leave the session unauthenticated.
func (a *Authenticator) oneShot(ctx context.Context, sess *Session, line string) (string, error) {
	parts := splitCommand(line)
	switch parts[0] {
	case "/register":
		if len(parts) < 3 {
			return "", sess.Send(usageRegister)
		}
		return a.register(ctx, sess, parts[1], parts[2])
	case "/login":
		if len(parts) < 3 {
			return "", sess.Send(usageLogin)
		}
		return a.login(ctx, sess, parts[1], parts[2])
	default:
		return "", sess.Send(errorReply("sign in before using chat commands"))
	}
}

func (a *Authenticator) interactiveRegister(ctx context.Context, sess *Session) (string, error) {
	if err := sess.Send(msgRegisterUsernamePrompt); err != nil {
		return "", err
	}
	username, err := sess.ReadLine()
	if err != nil {
		return "", err
	}

	// Length is checked before any store lookup
	if !model.ValidUsername(username) {
		return "", sess.Send(errorReply(model.ErrInvalidUsername.Error()))
	}
	taken, err := a.auth.UsernameTaken(ctx, username)
	if err != nil {
		return "", sess.Send(errorReply(replyInternal))
	}
	if taken {
		return "", sess.Send(errorReply(replyAccountExists))
	}

	if err := sess.Send(msgRegisterPasswordPrompt); err != nil {
		return "", err
	}
	password, err := sess.ReadLine()
	if err != nil {
		return "", err
	}

	return a.register(ctx, sess, username, password)
}

func (a *Authenticator) interactiveLogin(ctx context.Context, sess *Session) (string, error) {
	if err := sess.Send(msgLoginUsernamePrompt); err != nil {
		return "", err
	}
	username, err := sess.ReadLine()
	if err != nil {
		return "", err
	}

	if !model.ValidUsername(username) {
		return "", sess.Send(errorReply(model.ErrInvalidUsername.Error()))
	}
	taken, err := a.auth.UsernameTaken(ctx, username)
	if err != nil {
		return "", sess.Send(errorReply(replyInternal))
	}
	if !taken {
		return "", sess.Send(errorReply(replyUnknownUser))
	}

	if err := sess.Send(msgLoginPasswordPrompt); err != nil {
		return "", err
	}
	password, err := sess.ReadLine()
	if err != nil {
		return "", err
	}

	return a.login(ctx, sess, username, password)
}

// register runs the credential half of registration and, on success,
// confirms to the client and announces the new account to the room.
func (a *Authenticator) register(ctx context.Context, sess *Session, username, password string) (string, error) {
	_, err := a.auth.Register(ctx, username, password)
	switch {
	case errors.Is(err, model.ErrInvalidUsername):
		return "", sess.Send(errorReply(model.ErrInvalidUsername.Error()))
	case errors.Is(err, auth.ErrUsernameExists):
		return "", sess.Send(errorReply(replyAccountExists))
	case err != nil:
		a.logger.Error("registration failed", slog.String("error", err.Error()))
		return "", sess.Send(errorReply(replyInternal))
	}

	if err := sess.Send(welcomeRegistered(username)); err != nil {
		return "", err
	}
	a.registry.Announce(registeredAnnouncement(username))
	return username, nil
}

func (a *Authenticator) login(ctx context.Context, sess *Session, username, password string) (string, error) {
	_, err := a.auth.Login(ctx, username, password)
	switch {
	case errors.Is(err, model.ErrInvalidUsername):
		return "", sess.Send(errorReply(model.ErrInvalidUsername.Error()))
	case errors.Is(err, auth.ErrUnknownUser):
		return "", sess.Send(errorReply(replyUnknownUser))
	case errors.Is(err, auth.ErrBadPassword):
		return "", sess.Send(errorReply(replyBadPassword))
	case err != nil:
		a.logger.Error("login failed", slog.String("error", err.Error()))
		return "", sess.Send(errorReply(replyInternal))
	}

	if err := sess.Send(welcomeBack(username)); err != nil {
		return "", err
	}
	a.registry.Announce(loginAnnouncement(username))
	return username, nil
}
