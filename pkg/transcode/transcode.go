// Package transcode converts synthesized speech into the format the
// playback device understands.
//
// The target device decodes 8-bit unsigned PCM, mono, 8000 Hz WAV and
// nothing else. Conversion shells out to ffmpeg. A conversion failure is
// never fatal: the transcoder hands back the original bytes and marks the
// result as a fallback, so a reply still reaches the device even when it
// cannot be downsampled.
package transcode

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Device playback format.
const (
	TargetSampleRate = 8000
	TargetChannels   = 1
	TargetCodec      = "pcm_u8"
)

// Result carries the outcome of one conversion.
//
// Callers that need a strict format guarantee must check Transcoded:
// when false, Audio is the untouched input and Reason says why.
type Result struct {
	// Audio is the device-ready WAV, or the original input on fallback.
	Audio []byte

	// Transcoded is true when Audio is in the target format.
	Transcoded bool

	// Reason explains the fallback. Empty when Transcoded is true.
	Reason string
}

// Transcoder converts compressed audio to the device playback format.
type Transcoder interface {
	// Transcode converts audio bytes. Implementations degrade to the
	// original bytes rather than failing; a non-nil error is reserved
	// for conditions where no audio can be returned at all.
	Transcode(ctx context.Context, audio []byte) (*Result, error)
}

// Config holds transcoder configuration.
type Config struct {
	// FFmpegPath overrides the ffmpeg binary location.
	// Empty means look it up on PATH.
	FFmpegPath string

	// Timeout bounds a single ffmpeg invocation.
	Timeout time.Duration

	// Logger for conversion failures.
	Logger *slog.Logger
}

// Option is a functional option for configuring the transcoder.
type Option func(*Config)

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(path string) Option {
	return func(c *Config) { c.FFmpegPath = path }
}

// WithTimeout bounds a single conversion.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		Logger:  slog.Default(),
	}
}

// FFmpeg converts audio by invoking the ffmpeg binary.
type FFmpeg struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

// NewFFmpeg creates an ffmpeg-backed transcoder.
// Fails only when the binary cannot be found.
func NewFFmpeg(opts ...Option) (*FFmpeg, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	path := cfg.FFmpegPath
	if path == "" {
		found, err := exec.LookPath("ffmpeg")
		if err != nil {
			return nil, err
		}
		path = found
	}

	return &FFmpeg{
		path:    path,
		timeout: cfg.Timeout,
		logger:  cfg.Logger.With("component", "transcode.ffmpeg"),
	}, nil
}

// Transcode converts compressed audio to 8-bit unsigned PCM mono 8kHz WAV.
//
// Input and output go through temp files scoped to this call; both are
// removed on every exit path. Any conversion failure logs and falls back
// to the original bytes.
func (f *FFmpeg) Transcode(ctx context.Context, audio []byte) (*Result, error) {
	in, err := os.CreateTemp("", "aarav-tts-*.mp3")
	if err != nil {
		return f.fallback(audio, "create temp input: "+err.Error()), nil
	}
	defer os.Remove(in.Name())

	if _, err := in.Write(audio); err != nil {
		in.Close()
		return f.fallback(audio, "write temp input: "+err.Error()), nil
	}
	in.Close()

	out, err := os.CreateTemp("", "aarav-device-*.wav")
	if err != nil {
		return f.fallback(audio, "create temp output: "+err.Error()), nil
	}
	out.Close()
	defer os.Remove(out.Name())

	cctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, f.path,
		"-y", "-i", in.Name(),
		"-ar", "8000",
		"-ac", "1",
		"-acodec", TargetCodec,
		out.Name(),
	)

	if output, err := cmd.CombinedOutput(); err != nil {
		f.logger.Warn("ffmpeg conversion failed, returning original audio",
			"error", err,
			"output", truncate(string(output), 512),
		)
		return f.fallback(audio, "ffmpeg: "+err.Error()), nil
	}

	wav, err := os.ReadFile(out.Name())
	if err != nil {
		return f.fallback(audio, "read output: "+err.Error()), nil
	}

	f.logger.Debug("transcoded audio",
		"in_bytes", len(audio),
		"out_bytes", len(wav),
	)

	return &Result{Audio: wav, Transcoded: true}, nil
}

// fallback packages the untouched input as a degraded result.
func (f *FFmpeg) fallback(audio []byte, reason string) *Result {
	return &Result{Audio: audio, Transcoded: false, Reason: reason}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// PassThrough is a transcoder that never converts. Used when ffmpeg is
// unavailable so the pipeline still runs with the compressed audio.
type PassThrough struct{}

// Transcode returns the input unchanged as a fallback result.
func (PassThrough) Transcode(ctx context.Context, audio []byte) (*Result, error) {
	return &Result{Audio: audio, Transcoded: false, Reason: "transcoding disabled"}, nil
}

// Verify implementations at compile time.
var (
	_ Transcoder = (*FFmpeg)(nil)
	_ Transcoder = PassThrough{}
)
