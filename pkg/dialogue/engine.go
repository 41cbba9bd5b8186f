// Package dialogue turns a user utterance into a raw model reply while
// maintaining the per-session conversation transcript.
package dialogue

import (
	"context"
	"log/slog"

	"github.com/aaravlabs/go-aarav/pkg/inference"
	"github.com/aaravlabs/go-aarav/pkg/session"
)

// Request tuning for spoken replies.
const (
	// MaxTokens bounds the reply length; replies are read aloud, so a
	// small budget keeps the audio short.
	MaxTokens = 300

	// Temperature favors varied but coherent phrasing.
	Temperature = 0.7
)

// Engine appends turns, builds the prompt, and invokes the model.
type Engine struct {
	store    *session.Store
	provider inference.Provider
	logger   *slog.Logger
}

// NewEngine creates a dialogue engine.
func NewEngine(store *session.Store, provider inference.Provider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    store,
		provider: provider,
		logger:   logger.With("component", "dialogue.engine"),
	}
}

// Converse records the user turn, asks the model for a reply given the
// system prompt plus the bounded transcript, records the assistant turn,
// and returns the raw reply.
//
// When the model call fails, the user turn stays recorded and no
// assistant turn is appended. The next invocation sees the failed
// question in the transcript; this is deliberate, not a leak.
func (e *Engine) Converse(ctx context.Context, sessionID, userText string) (string, error) {
	transcript := e.store.Append(sessionID, session.NewUserTurn(userText))

	messages := make([]inference.Message, 0, len(transcript)+1)
	messages = append(messages, inference.NewSystemMessage(SystemPrompt))
	for _, turn := range transcript {
		messages = append(messages, inference.Message{
			Role:    inference.Role(turn.Role),
			Content: turn.Content,
		})
	}

	resp, err := e.provider.Chat(ctx, &inference.ChatRequest{
		Messages:    messages,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		e.logger.Error("model call failed",
			"session_id", sessionID,
			"error", err,
		)
		return "", err
	}

	raw := resp.Message.Content
	e.store.Append(sessionID, session.NewAssistantTurn(raw))

	e.logger.Debug("model replied",
		"session_id", sessionID,
		"turns", e.store.Len(sessionID),
		"latency_ms", resp.LatencyMs,
	)

	return raw, nil
}

// ClearSession drops the session's transcript.
func (e *Engine) ClearSession(sessionID string) {
	e.store.Clear(sessionID)
}

// Store exposes the underlying session store.
func (e *Engine) Store() *session.Store {
	return e.store
}
