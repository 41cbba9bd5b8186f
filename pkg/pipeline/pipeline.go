// Package pipeline orchestrates one full voice interaction: user text in,
// bundled robot action (audio + motion + face) out.
//
// Each invocation is a single linear traversal of the stages
//
//	RECEIVED → HISTORY_UPDATED → LLM_REPLIED → PARSED → SYNTHESIZED →
//	TRANSCODED → ASSEMBLED
//
// with no retries between stages. A dialogue or synthesis failure aborts
// the remaining stages and surfaces as a failure Result; a transcode
// failure only degrades the audio format. Session mutations are not
// rolled back on later-stage failure.
package pipeline

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aaravlabs/go-aarav/pkg/dialogue"
	"github.com/aaravlabs/go-aarav/pkg/directive"
	"github.com/aaravlabs/go-aarav/pkg/transcode"
	"github.com/aaravlabs/go-aarav/pkg/tts"
)

// Stage names for the event feed.
const (
	StageReceived       = "received"
	StageHistoryUpdated = "history_updated"
	StageLLMReplied     = "llm_replied"
	StageParsed         = "parsed"
	StageSynthesized    = "synthesized"
	StageTranscoded     = "transcoded"
	StageAssembled      = "assembled"
	StageFailed         = "failed"
)

// Result is the bundled outcome of one invocation, returned across the
// system boundary. On failure only Success, Transcript, and Error are
// meaningful.
type Result struct {
	Success         bool   `json:"success"`
	AudioBase64     string `json:"audio_base64,omitempty"`
	Transcript      string `json:"transcript"`
	Response        string `json:"response,omitempty"`
	Motion          string `json:"motion,omitempty"`
	Face            string `json:"face,omitempty"`
	AudioTranscoded bool   `json:"audio_transcoded"`
	Error           string `json:"error,omitempty"`
}

// EventFunc receives stage transitions for observability.
// Called synchronously from the pipeline goroutine; keep it cheap.
type EventFunc func(requestID, sessionID, stage, detail string)

// Pipeline wires the dialogue engine, speech synthesizer, and transcoder
// into the response path.
type Pipeline struct {
	engine     *dialogue.Engine
	synth      tts.Provider
	transcoder transcode.Transcoder
	logger     *slog.Logger
	onEvent    EventFunc
}

// New creates a pipeline.
func New(engine *dialogue.Engine, synth tts.Provider, transcoder transcode.Transcoder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		engine:     engine,
		synth:      synth,
		transcoder: transcoder,
		logger:     logger.With("component", "pipeline"),
	}
}

// OnEvent registers a stage-transition hook. Set once during wiring,
// before the pipeline serves requests.
func (p *Pipeline) OnEvent(fn EventFunc) {
	p.onEvent = fn
}

// Run executes one invocation. It never returns an error: failures are
// folded into the Result so the transport layer can always answer 200
// with a success flag.
func (p *Pipeline) Run(ctx context.Context, sessionID, text string) *Result {
	requestID := uuid.New().String()
	logger := p.logger.With("request_id", requestID, "session_id", sessionID)

	p.emit(requestID, sessionID, StageReceived, text)

	raw, err := p.engine.Converse(ctx, sessionID, text)
	if err != nil {
		logger.Error("dialogue failed", "error", err)
		p.emit(requestID, sessionID, StageFailed, err.Error())
		return &Result{Success: false, Transcript: text, Error: err.Error()}
	}
	p.emit(requestID, sessionID, StageHistoryUpdated, "")
	p.emit(requestID, sessionID, StageLLMReplied, raw)

	d := directive.Parse(raw)
	logger.Info("directive parsed",
		"motion", string(d.Motion),
		"face", string(d.Face),
		"motion_known", d.Motion.Known(),
		"face_known", d.Face.Known(),
	)
	p.emit(requestID, sessionID, StageParsed, d.SpokenText)

	speech, err := p.synth.Synthesize(ctx, d.SpokenText)
	if err != nil {
		logger.Error("synthesis failed", "error", err)
		p.emit(requestID, sessionID, StageFailed, err.Error())
		return &Result{Success: false, Transcript: text, Error: err.Error()}
	}
	p.emit(requestID, sessionID, StageSynthesized, "")

	converted, err := p.transcoder.Transcode(ctx, speech.Audio)
	if err != nil {
		// Transcoders degrade rather than fail; a hard error still
		// must not kill the reply, so fall back here too.
		logger.Warn("transcoder errored, using synthesized audio", "error", err)
		converted = &transcode.Result{Audio: speech.Audio, Reason: err.Error()}
	}
	if !converted.Transcoded {
		logger.Warn("audio not in device format", "reason", converted.Reason)
	}
	p.emit(requestID, sessionID, StageTranscoded, "")

	result := assemble(text, converted, d)
	p.emit(requestID, sessionID, StageAssembled, "")

	logger.Info("pipeline complete",
		"audio_bytes", len(converted.Audio),
		"transcoded", converted.Transcoded,
	)
	return result
}

// assemble packages the final audio and directive into a Result.
// Pure and side-effect-free.
func assemble(transcript string, audio *transcode.Result, d directive.Directive) *Result {
	return &Result{
		Success:         true,
		AudioBase64:     base64.StdEncoding.EncodeToString(audio.Audio),
		Transcript:      transcript,
		Response:        d.SpokenText,
		Motion:          string(d.Motion),
		Face:            string(d.Face),
		AudioTranscoded: audio.Transcoded,
	}
}

func (p *Pipeline) emit(requestID, sessionID, stage, detail string) {
	if p.onEvent != nil {
		p.onEvent(requestID, sessionID, stage, detail)
	}
}
