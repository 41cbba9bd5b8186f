// Package config provides configuration helpers for go-aarav commands.
package config

import (
	"os"
)

// Default service configuration.
const (
	DefaultPort      = "5000"
	DefaultMurfVoice = "en-US-cooper"
)

// Port returns the HTTP port from the PORT env var.
// Falls back to DefaultPort if not set.
func Port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// GroqAPIKey returns the Groq API key from GROQ_API_KEY.
func GroqAPIKey() string {
	return os.Getenv("GROQ_API_KEY")
}

// MurfAPIKey returns the Murf API key from MURF_API_KEY.
func MurfAPIKey() string {
	return os.Getenv("MURF_API_KEY")
}

// MurfVoiceID returns the Murf voice from MURF_VOICE_ID or the default.
func MurfVoiceID() string {
	if v := os.Getenv("MURF_VOICE_ID"); v != "" {
		return v
	}
	return DefaultMurfVoice
}

// DeviceIP returns the robot device IP from DEVICE_IP.
// Falls back to the provided default if not set. Empty means no device
// relay is configured.
func DeviceIP(defaultIP string) string {
	if ip := os.Getenv("DEVICE_IP"); ip != "" {
		return ip
	}
	return defaultIP
}
