package chat

import (
	"context"
	"testing"

	"github.com/relaychat/relaychat/internal/dependencies/clock"
	"github.com/relaychat/relaychat/internal/services/auth"
	"github.com/relaychat/relaychat/internal/storage/memory"
	"github.com/relaychat/relaychat/internal/testutil"
)

func newTestRouter(t *testing.T) (*Router, *Registry) {
	t.Helper()
	registry := NewRegistry(testutil.NopLogger())
	authSvc := auth.New(memory.New(), clock.New(), testutil.NopLogger())
	return NewRouter(registry, authSvc, testutil.NopLogger()), registry
}

// join registers an authenticated session under a username
func join(t *testing.T, registry *Registry, username string) (*Session, *testClient) {
	t.Helper()
	sess, client := newSessionPair(t)
	if err := registry.Register(username, sess); err != nil {
		t.Fatalf("Register(%q): %v", username, err)
	}
	if err := sess.Authenticate(username); err != nil {
		t.Fatalf("Authenticate(%q): %v", username, err)
	}
	return sess, client
}

func TestRouter_PlainLineBroadcastsToOthers(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")
	_, bob := join(t, registry, "bobby")

	quit := router.Dispatch(context.Background(), aliceSess, "hello there")

	if quit {
		t.Error("plain message reported quit")
	}
	if got := bob.next(t); got != "alice: hello there" {
		t.Errorf("bob received %q, want %q", got, "alice: hello there")
	}
	alice.expectSilence(t)
}

func TestRouter_DMDeliversToRecipientOnly(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")
	_, bob := join(t, registry, "bobby")
	_, carol := join(t, registry, "carol")

	router.Dispatch(context.Background(), aliceSess, "/dm bobby secret plans here")

	if got := bob.next(t); got != "[dm from alice] secret plans here" {
		t.Errorf("bob received %q", got)
	}
	if got := alice.next(t); got != "[dm to bobby] secret plans here" {
		t.Errorf("alice confirmation %q", got)
	}
	carol.expectSilence(t)
}

func TestRouter_DMOfflineRecipient(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")

	router.Dispatch(context.Background(), aliceSess, "/dm ghost hello?")

	if got := alice.next(t); got != "error: ghost is not online" {
		t.Errorf("alice received %q", got)
	}
}

func TestRouter_DMMissingArgs(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")

	router.Dispatch(context.Background(), aliceSess, "/dm bobby")

	if got := alice.next(t); got != usageDM {
		t.Errorf("alice received %q, want usage reply", got)
	}
}

func TestRouter_UsersListsOnlineUsernames(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")
	_, _ = join(t, registry, "bobby")

	router.Dispatch(context.Background(), aliceSess, "/users")

	if got := alice.next(t); got != msgUsersHeader {
		t.Fatalf("first line %q, want header", got)
	}
	if got := alice.next(t); got != "alice" {
		t.Errorf("second line %q, want alice", got)
	}
	if got := alice.next(t); got != "bobby" {
		t.Errorf("third line %q, want bobby", got)
	}
}

func TestRouter_ExitSendsFarewellAndQuits(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")

	quit := router.Dispatch(context.Background(), aliceSess, "/exit")

	if !quit {
		t.Error("Dispatch(/exit) did not report quit")
	}
	if got := alice.next(t); got != msgGoodbye {
		t.Errorf("alice received %q, want farewell", got)
	}
}

func TestRouter_UnknownCommandReply(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")

	quit := router.Dispatch(context.Background(), aliceSess, "/frobnicate now")

	if quit {
		t.Error("unknown command reported quit")
	}
	if got := alice.next(t); got != "error: unknown command: /frobnicate" {
		t.Errorf("alice received %q", got)
	}
}

func TestRouter_ReauthenticationRejected(t *testing.T) {
	router, registry := newTestRouter(t)
	aliceSess, alice := join(t, registry, "alice")

	router.Dispatch(context.Background(), aliceSess, "/login bobby hunter2")

	if got := alice.next(t); got != "error: you are already signed in as alice" {
		t.Errorf("alice received %q", got)
	}
}
