package session

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendBounding(t *testing.T) {
	store := NewStore()

	for i := 0; i < 25; i++ {
		store.Append("s1", NewUserTurn(fmt.Sprintf("turn %d", i)))
	}

	history := store.History("s1")
	if len(history) != MaxTurns {
		t.Fatalf("expected %d turns, got %d", MaxTurns, len(history))
	}

	// The last 20 appended, in original relative order.
	for i, turn := range history {
		want := fmt.Sprintf("turn %d", i+5)
		if turn.Content != want {
			t.Errorf("history[%d] = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestAppendReturnsBoundedCopy(t *testing.T) {
	store := NewStoreWithCap(3)

	var last []Turn
	for i := 0; i < 5; i++ {
		last = store.Append("s1", NewUserTurn(fmt.Sprintf("turn %d", i)))
	}

	if len(last) != 3 {
		t.Fatalf("expected 3 turns from Append, got %d", len(last))
	}
	if last[0].Content != "turn 2" || last[2].Content != "turn 4" {
		t.Errorf("unexpected window: %v", last)
	}

	// Mutating the returned slice must not affect the store.
	last[0].Content = "mutated"
	if store.History("s1")[0].Content != "turn 2" {
		t.Error("Append returned a live reference into the store")
	}
}

func TestSessionIsolation(t *testing.T) {
	store := NewStore()

	store.Append("a", NewUserTurn("for a"))
	store.Append("b", NewUserTurn("for b"))
	store.Append("b", NewAssistantTurn("reply for b"))

	if got := store.Len("a"); got != 1 {
		t.Errorf("session a has %d turns, want 1", got)
	}
	if got := store.Len("b"); got != 2 {
		t.Errorf("session b has %d turns, want 2", got)
	}
	if store.History("a")[0].Content != "for a" {
		t.Error("session a observed another session's turns")
	}

	store.Clear("a")
	if got := store.Len("b"); got != 2 {
		t.Errorf("clearing a mutated b: %d turns, want 2", got)
	}
}

func TestClearIdempotence(t *testing.T) {
	store := NewStore()

	// Clearing a session that never existed must not panic or error.
	store.Clear("ghost")

	store.Append("s1", NewUserTurn("hello"))
	store.Clear("s1")
	if got := store.Len("s1"); got != 0 {
		t.Fatalf("expected empty history after clear, got %d turns", got)
	}

	// A subsequent append starts a fresh history.
	store.Append("s1", NewUserTurn("fresh start"))
	history := store.History("s1")
	if len(history) != 1 || history[0].Content != "fresh start" {
		t.Errorf("unexpected history after clear+append: %v", history)
	}

	store.Clear("s1")
	store.Clear("s1")
	if store.Sessions() != 0 {
		t.Errorf("expected no sessions, got %d", store.Sessions())
	}
}

func TestConcurrentAppends(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("s%d", id%2)
			for j := 0; j < 50; j++ {
				store.Append(sessionID, NewUserTurn("x"))
			}
		}(i)
	}
	wg.Wait()

	// 250 appends per session, bounded to the cap.
	for _, id := range []string{"s0", "s1"} {
		if got := store.Len(id); got != MaxTurns {
			t.Errorf("session %s has %d turns, want %d", id, got, MaxTurns)
		}
	}
}
