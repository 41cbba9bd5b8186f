package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newMurfServer returns a server that serves both the generate endpoint and
// the audio artifact it points at.
func newMurfServer(t *testing.T, audio []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/speech/generate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if key := r.Header.Get("api-key"); key != "test-key" {
			t.Errorf("Expected api-key test-key, got %s", key)
		}

		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["voiceId"] != "en-US-cooper" {
			t.Errorf("unexpected voiceId: %v", payload["voiceId"])
		}
		if payload["channelType"] != "MONO" {
			t.Errorf("unexpected channelType: %v", payload["channelType"])
		}
		if payload["sampleRate"].(float64) != 24000 {
			t.Errorf("unexpected sampleRate: %v", payload["sampleRate"])
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"audioFile":            server.URL + "/artifacts/audio.mp3",
			"audioLengthInSeconds": 1.5,
		})
	})

	mux.HandleFunc("/artifacts/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Write(audio)
	})

	server = httptest.NewServer(mux)
	return server
}

func TestMurfSynthesize(t *testing.T) {
	audio := []byte("fake-mp3-bytes")
	server := newMurfServer(t, audio)
	defer server.Close()

	provider, err := NewMurf(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
	)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	defer provider.Close()

	result, err := provider.Synthesize(context.Background(), "Hello world")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if !bytes.Equal(result.Audio, audio) {
		t.Errorf("unexpected audio bytes: %q", result.Audio)
	}
	if result.CharCount != 11 {
		t.Errorf("expected 11 chars, got %d", result.CharCount)
	}
	if result.Format.SampleRate != 24000 {
		t.Errorf("expected 24000 sample rate, got %d", result.Format.SampleRate)
	}
	if result.Format.Channels != 1 {
		t.Errorf("expected mono, got %d channels", result.Format.Channels)
	}
}

func TestMurfMissingAudioURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer server.Close()

	provider, _ := NewMurf(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer provider.Close()

	_, err := provider.Synthesize(context.Background(), "Hello")
	if !errors.Is(err, ErrNoAudioURL) {
		t.Errorf("expected ErrNoAudioURL, got %v", err)
	}
}

func TestMurfGenerateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"errorMessage": "invalid api key",
		})
	}))
	defer server.Close()

	provider, _ := NewMurf(WithAPIKey("bad-key"), WithBaseURL(server.URL))
	defer provider.Close()

	_, err := provider.Synthesize(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid api key" {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
}

func TestMurfFetchError(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/speech/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"audioFile": server.URL + "/artifacts/gone.mp3",
		})
	})
	mux.HandleFunc("/artifacts/gone.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server = httptest.NewServer(mux)
	defer server.Close()

	provider, _ := NewMurf(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer provider.Close()

	_, err := provider.Synthesize(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", apiErr.StatusCode)
	}
}

func TestMurfConfigValidation(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewMurf()
		if !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("missing voice id", func(t *testing.T) {
		_, err := NewMurf(WithAPIKey("key"), WithVoice(""))
		if !errors.Is(err, ErrNoVoiceID) {
			t.Errorf("expected ErrNoVoiceID, got %v", err)
		}
	})
}

func TestMockProvider(t *testing.T) {
	mock := NewMock()
	ctx := context.Background()

	t.Run("Synthesize returns audio", func(t *testing.T) {
		result, err := mock.Synthesize(ctx, "Hello world")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Audio) == 0 {
			t.Error("expected audio data")
		}
		if result.CharCount != 11 {
			t.Errorf("expected 11 chars, got %d", result.CharCount)
		}
	})

	t.Run("Calls are tracked", func(t *testing.T) {
		if mock.CallCount("Synthesize") != 1 {
			t.Errorf("expected 1 Synthesize call, got %d", mock.CallCount("Synthesize"))
		}
		last := mock.LastCall()
		if last == nil || last.Text != "Hello world" {
			t.Errorf("unexpected last call: %+v", last)
		}
	})

	t.Run("WithError returns error", func(t *testing.T) {
		testErr := errors.New("boom")
		failing := WithError(testErr)
		if _, err := failing.Synthesize(ctx, "Hello"); !errors.Is(err, testErr) {
			t.Errorf("expected test error, got %v", err)
		}
	})
}
