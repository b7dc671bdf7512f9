package memory

import (
	"testing"

	"wisdom-spin/internal/app"
	"wisdom-spin/internal/question"
)

func newSession(id string) *app.Session {
	return app.NewSession(id, question.NewLocalStrategy(question.NewStaticBank(), nil))
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := store.GetOrCreate("game-1", newSession)
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := store.GetOrCreate("game-1", newSession); again != session {
		t.Fatalf("expected the registered session to be reused")
	}
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("expected session present")
	}

	store.DeleteIfEmpty("game-1")
	if _, ok := store.Get("game-1"); ok {
		t.Fatalf("expected session removed when empty")
	}
}

func TestSessionStoreKeepsOccupiedSessions(t *testing.T) {
	store := NewSessionStore()
	session := store.GetOrCreate("game-1", newSession)
	session.AddParticipant("Alice")

	store.DeleteIfEmpty("game-1")
	if _, ok := store.Get("game-1"); !ok {
		t.Fatalf("session with participants must survive DeleteIfEmpty")
	}
	store.Delete("game-1")
	if store.Len() != 0 {
		t.Fatalf("expected store to be empty")
	}
}
