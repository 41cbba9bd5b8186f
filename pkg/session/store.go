// Package session stores bounded, in-memory conversation transcripts.
//
// A session is an ordered sequence of turns keyed by an opaque session id.
// Sessions are created lazily on first append, capped at MaxTurns (oldest
// turns dropped first), and live until cleared. The store is safe for
// concurrent use; a single store-wide mutex serializes mutations so that
// racing appends against the same session id cannot lose turns or truncate
// inconsistently.
package session

import "sync"

// MaxTurns is the cap on turns retained per session. When an append pushes
// a transcript past the cap, the oldest turns are dropped.
const MaxTurns = 20

// Role identifies who produced a turn.
type Role string

const (
	// RoleUser marks a turn sent by the person talking to the robot.
	RoleUser Role = "user"

	// RoleAssistant marks a turn produced by the dialogue model.
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation transcript. Immutable once created.
type Turn struct {
	Role    Role
	Content string
}

// NewUserTurn creates a user turn.
func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// NewAssistantTurn creates an assistant turn.
func NewAssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Store is a process-wide map of session id to transcript.
// The zero value is not usable; call NewStore.
type Store struct {
	mu       sync.Mutex
	sessions map[string][]Turn
	cap      int
}

// NewStore creates an empty store with the standard MaxTurns cap.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string][]Turn),
		cap:      MaxTurns,
	}
}

// NewStoreWithCap creates a store with a custom per-session turn cap.
// Intended for tests; production code uses NewStore.
func NewStoreWithCap(cap int) *Store {
	return &Store{
		sessions: make(map[string][]Turn),
		cap:      cap,
	}
}

// Append adds a turn to the session, creating the session if needed, and
// enforces the turn cap. It returns a copy of the bounded transcript after
// the append, so callers can build a prompt from exactly the state they
// just wrote without a second lock acquisition.
func (s *Store) Append(sessionID string, turn Turn) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], turn)
	if len(turns) > s.cap {
		turns = turns[len(turns)-s.cap:]
	}
	s.sessions[sessionID] = turns

	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// History returns a copy of the session's transcript in order.
// A session that does not exist yields an empty history.
func (s *Store) History(sessionID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Clear removes the session entirely. Clearing a session that does not
// exist is a no-op, not an error.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of turns recorded for the session.
func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[sessionID])
}

// Sessions returns the number of live sessions.
func (s *Store) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
