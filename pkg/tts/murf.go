package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	murfBaseURL  = "https://api.murf.ai/v1"
	providerMurf = "murf"
)

// Murf implements Provider for the Murf AI speech API.
//
// Synthesis is two-step: a generate request returns a URL pointing at the
// finished audio artifact, and a second fetch downloads the bytes. Both
// steps must succeed for Synthesize to succeed.
type Murf struct {
	config  *Config
	client  *http.Client
	fetch   *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewMurf creates a new Murf TTS provider.
func NewMurf(opts ...Option) (*Murf, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = murfBaseURL
	}

	return &Murf{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		fetch:   &http.Client{Timeout: cfg.FetchTimeout},
		logger:  cfg.Logger.With("component", "tts.murf"),
		baseURL: baseURL,
	}, nil
}

// Synthesize converts text to audio, returning the complete audio buffer.
func (m *Murf) Synthesize(ctx context.Context, text string) (*AudioResult, error) {
	start := time.Now()

	audioURL, err := m.generate(ctx, text)
	if err != nil {
		return nil, err
	}

	audio, err := m.download(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	latency := time.Since(start).Milliseconds()

	m.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
		"voice", m.config.VoiceID,
	)

	return &AudioResult{
		Audio: audio,
		Format: AudioFormat{
			Encoding:   m.config.OutputFormat,
			SampleRate: m.config.SampleRate,
			Channels:   1,
		},
		CharCount: len(text),
		LatencyMs: latency,
	}, nil
}

// Health checks API connectivity and API key validity.
func (m *Murf) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/speech/voices", m.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return WrapError(providerMurf, err)
	}

	req.Header.Set("api-key", m.config.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return WrapError(providerMurf, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return m.parseError(resp)
	}

	return nil
}

// Close releases resources held by the provider.
func (m *Murf) Close() error {
	m.client.CloseIdleConnections()
	m.fetch.CloseIdleConnections()
	return nil
}

// VoiceID returns the configured voice ID.
func (m *Murf) VoiceID() string {
	return m.config.VoiceID
}

// generate requests synthesis and returns the audio artifact URL.
func (m *Murf) generate(ctx context.Context, text string) (string, error) {
	payload := map[string]interface{}{
		"text":         text,
		"voiceId":      m.config.VoiceID,
		"format":       string(m.config.OutputFormat),
		"modelVersion": m.config.ModelVersion,
		"channelType":  m.config.ChannelType,
		"sampleRate":   m.config.SampleRate,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", WrapError(providerMurf, fmt.Errorf("marshal payload: %w", err))
	}

	url := fmt.Sprintf("%s/speech/generate", m.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerMurf, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("api-key", m.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.doWithRetry(ctx, req, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", m.parseError(resp)
	}

	var result struct {
		AudioFile      string  `json:"audioFile"`
		AudioLengthSec float64 `json:"audioLengthInSeconds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerMurf, fmt.Errorf("decode response: %w", err))
	}

	if result.AudioFile == "" {
		return "", WrapError(providerMurf, ErrNoAudioURL)
	}

	return result.AudioFile, nil
}

// download fetches the finished audio artifact.
func (m *Murf) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, WrapError(providerMurf, fmt.Errorf("create fetch request: %w", err))
	}

	resp, err := m.fetch.Do(req)
	if err != nil {
		return nil, WrapError(providerMurf, fmt.Errorf("fetch audio: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "audio fetch failed",
			Provider:   providerMurf,
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerMurf, fmt.Errorf("read audio: %w", err))
	}

	return audio, nil
}

// doWithRetry performs the request with retry logic.
func (m *Murf) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= m.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(m.config.RetryDelay * time.Duration(attempt)):
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := m.client.Do(req)
		if err != nil {
			lastErr = WrapError(providerMurf, err)
			continue
		}

		// Check if retryable
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = m.parseError(resp)
			m.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response.
func (m *Murf) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		ErrorMessage string `json:"errorMessage"`
		Message      string `json:"message"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.ErrorMessage != "" {
			message = errResp.ErrorMessage
		} else if errResp.Message != "" {
			message = errResp.Message
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerMurf,
	}
}

// Verify Murf implements Provider at compile time.
var _ Provider = (*Murf)(nil)
