package transcode

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// discard suppresses log output in tests.
var discard = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelError + 1,
}))

func TestFFmpegFallbackOnBrokenBinary(t *testing.T) {
	// Point at a path that exists but is not executable audio tooling,
	// so LookPath is skipped and the invocation itself fails.
	f, err := NewFFmpeg(
		WithFFmpegPath(filepath.Join(t.TempDir(), "missing-ffmpeg")),
		WithLogger(discard),
	)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	input := []byte("not really mp3 data")
	result, err := f.Transcode(context.Background(), input)
	if err != nil {
		t.Fatalf("Transcode must not fail: %v", err)
	}

	if result.Transcoded {
		t.Error("expected fallback result")
	}
	if result.Reason == "" {
		t.Error("expected a fallback reason")
	}
	if !bytes.Equal(result.Audio, input) {
		t.Error("fallback must return the original bytes unchanged")
	}
}

func TestFFmpegCleansUpTempFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	f, _ := NewFFmpeg(
		WithFFmpegPath(filepath.Join(tmp, "missing-ffmpeg")),
		WithLogger(discard),
	)

	if _, err := f.Transcode(context.Background(), []byte("audio")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var leftovers []string
	filepath.WalkDir(tmp, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasPrefix(d.Name(), "aarav-") {
			leftovers = append(leftovers, d.Name())
		}
		return nil
	})
	if len(leftovers) != 0 {
		t.Errorf("temp files leaked: %v", leftovers)
	}
}

func TestNewFFmpegMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := NewFFmpeg(); err == nil {
		t.Error("expected error when ffmpeg is not on PATH")
	}
}

func TestPassThrough(t *testing.T) {
	input := []byte("compressed audio")
	result, err := PassThrough{}.Transcode(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Transcoded {
		t.Error("pass-through must not claim the target format")
	}
	if !bytes.Equal(result.Audio, input) {
		t.Error("pass-through must return input unchanged")
	}
}

func TestMockTracksCalls(t *testing.T) {
	mock := NewMockWithAudio([]byte("pcm"))

	result, err := mock.Transcode(context.Background(), []byte("mp3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Audio) != "pcm" || !result.Transcoded {
		t.Errorf("unexpected result: %+v", result)
	}

	calls := mock.Calls()
	if len(calls) != 1 || string(calls[0]) != "mp3" {
		t.Errorf("unexpected recorded calls: %v", calls)
	}
}
