// aarav-server: Voice interaction service for the Aarav desktop robot.
// Turns user text into an LLM reply, synthesized speech, and motion/face
// directives, optionally relaying the result to the robot device.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravlabs/go-aarav/internal/config"
	"github.com/aaravlabs/go-aarav/internal/log"
	"github.com/aaravlabs/go-aarav/pkg/device"
	"github.com/aaravlabs/go-aarav/pkg/dialogue"
	"github.com/aaravlabs/go-aarav/pkg/inference"
	"github.com/aaravlabs/go-aarav/pkg/pipeline"
	"github.com/aaravlabs/go-aarav/pkg/session"
	"github.com/aaravlabs/go-aarav/pkg/transcode"
	"github.com/aaravlabs/go-aarav/pkg/tts"
	"github.com/aaravlabs/go-aarav/pkg/web"
)

var (
	version  = "1.0.0"
	port     = flag.String("port", config.DefaultPort, "HTTP server port")
	debug    = flag.Bool("debug", false, "Enable debug logging")
	deviceIP = flag.String("device-ip", "", "Robot device IP for command relay (empty disables relay)")
)

func main() {
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	log.Init(level)
	logger := log.L()

	// Override from environment
	if envPort := os.Getenv("PORT"); envPort != "" {
		*port = envPort
	}

	fmt.Println()
	fmt.Println("🤖 Aarav Server v" + version)
	fmt.Println("   Voice interaction service")
	fmt.Println()

	llm, err := inference.NewClient(
		inference.WithAPIKey(config.GroqAPIKey()),
		inference.WithLogger(logger.With("component", "inference")),
	)
	if err != nil {
		logger.Error("inference client init failed", "error", err)
		os.Exit(1)
	}
	defer llm.Close()

	synth, err := tts.NewMurf(
		tts.WithAPIKey(config.MurfAPIKey()),
		tts.WithVoice(config.MurfVoiceID()),
		tts.WithLogger(logger.With("component", "tts")),
	)
	if err != nil {
		logger.Error("tts client init failed", "error", err)
		os.Exit(1)
	}
	defer synth.Close()

	// Transcoding is best-effort: without ffmpeg the device gets the
	// original synthesized audio instead of 8-bit/8kHz PCM.
	var transcoder transcode.Transcoder
	transcoder, err = transcode.NewFFmpeg(
		transcode.WithLogger(logger.With("component", "transcode")),
	)
	if err != nil {
		logger.Warn("ffmpeg not available, audio will be passed through unconverted", "error", err)
		transcoder = transcode.PassThrough{}
	}

	store := session.NewStore()
	engine := dialogue.NewEngine(store, llm, logger.With("component", "dialogue"))
	pipe := pipeline.New(engine, synth, transcoder, logger.With("component", "pipeline"))

	var dispatcher *device.Dispatcher
	if ip := config.DeviceIP(*deviceIP); ip != "" {
		dispatcher = device.NewDispatcher(ip, logger.With("component", "device"))
		logger.Info("device relay enabled", "device_ip", ip)
	} else {
		logger.Info("device relay disabled")
	}

	srv := web.NewServer(web.Config{
		Pipeline:   pipe,
		Store:      store,
		Dispatcher: dispatcher,
		Version:    version,
		Debug:      *debug,
		Logger:     logger.With("component", "web"),
	})

	// Start server
	go func() {
		addr := ":" + *port
		logger.Info("starting server",
			"addr", addr,
			"talk", fmt.Sprintf("http://localhost:%s/talk", *port),
			"health", fmt.Sprintf("http://localhost:%s/health", *port),
			"events", fmt.Sprintf("ws://localhost:%s/ws/events", *port))

		if err := srv.Listen(addr); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("goodbye")
}
