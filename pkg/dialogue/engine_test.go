package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/aaravlabs/go-aarav/pkg/inference"
	"github.com/aaravlabs/go-aarav/pkg/session"
)

func TestConverse(t *testing.T) {
	store := session.NewStore()

	var captured *inference.ChatRequest
	mock := &inference.Mock{
		ChatFunc: func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
			captured = req
			return &inference.ChatResponse{
				Message: inference.NewAssistantMessage("Hi!\nMOTION: hi\nFACE: happy"),
			}, nil
		},
	}

	engine := NewEngine(store, mock, nil)

	raw, err := engine.Converse(context.Background(), "s1", "Hello Aarav")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if raw != "Hi!\nMOTION: hi\nFACE: happy" {
		t.Errorf("unexpected reply: %q", raw)
	}

	// System prompt first, then the user turn.
	if captured == nil || len(captured.Messages) != 2 {
		t.Fatalf("unexpected message list: %+v", captured)
	}
	if captured.Messages[0].Role != inference.RoleSystem {
		t.Errorf("first message role = %s, want system", captured.Messages[0].Role)
	}
	if !strings.Contains(captured.Messages[0].Content, "MOTION:") {
		t.Error("system prompt must carry the output-format contract")
	}
	if captured.Messages[1].Role != inference.RoleUser || captured.Messages[1].Content != "Hello Aarav" {
		t.Errorf("unexpected user message: %+v", captured.Messages[1])
	}
	if captured.MaxTokens != MaxTokens {
		t.Errorf("max tokens = %d, want %d", captured.MaxTokens, MaxTokens)
	}
	if captured.Temperature != Temperature {
		t.Errorf("temperature = %v, want %v", captured.Temperature, Temperature)
	}

	// Both turns recorded.
	history := store.History("s1")
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != session.RoleUser || history[1].Role != session.RoleAssistant {
		t.Errorf("unexpected roles: %+v", history)
	}
}

func TestConverseKeepsUserTurnOnFailure(t *testing.T) {
	store := session.NewStore()
	engine := NewEngine(store, inference.WithError(errors.New("model down")), nil)

	_, err := engine.Converse(context.Background(), "s1", "Hello?")
	if err == nil {
		t.Fatal("expected error")
	}

	// The user turn survives the failed call; no assistant turn exists.
	history := store.History("s1")
	if len(history) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(history))
	}
	if history[0].Role != session.RoleUser || history[0].Content != "Hello?" {
		t.Errorf("unexpected turn: %+v", history[0])
	}
}

func TestConverseSendsBoundedTranscript(t *testing.T) {
	store := session.NewStore()

	var lastLen int
	mock := &inference.Mock{
		ChatFunc: func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
			lastLen = len(req.Messages)
			return &inference.ChatResponse{
				Message: inference.NewAssistantMessage("ok"),
			}, nil
		},
	}
	engine := NewEngine(store, mock, nil)

	for i := 0; i < 30; i++ {
		if _, err := engine.Converse(context.Background(), "s1", fmt.Sprintf("turn %d", i)); err != nil {
			t.Fatalf("Converse failed: %v", err)
		}
	}

	// System prompt plus at most the session cap.
	if lastLen != session.MaxTurns+1 {
		t.Errorf("message list length = %d, want %d", lastLen, session.MaxTurns+1)
	}
	if store.Len("s1") != session.MaxTurns {
		t.Errorf("stored turns = %d, want %d", store.Len("s1"), session.MaxTurns)
	}
}

func TestClearSession(t *testing.T) {
	store := session.NewStore()
	engine := NewEngine(store, inference.NewMockWithReply("ok"), nil)

	engine.Converse(context.Background(), "s1", "hello")
	engine.ClearSession("s1")

	if store.Len("s1") != 0 {
		t.Errorf("expected empty session, got %d turns", store.Len("s1"))
	}
}
