package transcode

import (
	"context"
	"sync"
)

// Mock implements Transcoder for testing.
type Mock struct {
	// TranscodeFunc is called when Transcode is invoked.
	// If nil, returns the input marked as transcoded.
	TranscodeFunc func(ctx context.Context, audio []byte) (*Result, error)

	mu    sync.Mutex
	calls [][]byte
}

// NewMock creates a mock that reports its input as transcoded.
func NewMock() *Mock {
	return &Mock{}
}

// NewMockWithAudio creates a mock that always returns the given bytes
// marked as transcoded.
func NewMockWithAudio(audio []byte) *Mock {
	return &Mock{
		TranscodeFunc: func(ctx context.Context, in []byte) (*Result, error) {
			return &Result{Audio: audio, Transcoded: true}, nil
		},
	}
}

// Transcode calls TranscodeFunc and records the input.
func (m *Mock) Transcode(ctx context.Context, audio []byte) (*Result, error) {
	m.mu.Lock()
	in := make([]byte, len(audio))
	copy(in, audio)
	m.calls = append(m.calls, in)
	m.mu.Unlock()

	if m.TranscodeFunc != nil {
		return m.TranscodeFunc(ctx, audio)
	}
	return &Result{Audio: audio, Transcoded: true}, nil
}

// Calls returns the recorded inputs.
func (m *Mock) Calls() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]byte, len(m.calls))
	copy(result, m.calls)
	return result
}

// Verify Mock implements Transcoder at compile time.
var _ Transcoder = (*Mock)(nil)
