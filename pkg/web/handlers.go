package web

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/aaravlabs/go-aarav/pkg/device"
)

// DefaultSessionID is used when the client omits session_id.
const DefaultSessionID = "default"

// TalkRequest is the inbound payload for /talk and /talk_text.
type TalkRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
}

// ClearSessionRequest is the inbound payload for /clear_session.
type ClearSessionRequest struct {
	SessionID string `json:"session_id"`
}

// decodeBody decodes a request tolerantly. The mobile app builder used by
// the lab sends JSON with a text/plain content type, which BodyParser
// rejects on content-type grounds, so fall back to decoding the raw body.
func decodeBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err == nil {
		return nil
	}
	if body := c.Body(); len(body) > 0 {
		return json.Unmarshal(body, out)
	}
	return fmt.Errorf("empty request body")
}

// failure answers 200 with a structured failure body.
func failure(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// handleTalk runs the full pipeline and returns the bundled robot action.
// The caller forwards the bundle to the device; when a dispatcher is
// configured the server additionally relays it directly, best-effort.
func (s *Server) handleTalk(c *fiber.Ctx) error {
	var req TalkRequest
	if err := decodeBody(c, &req); err != nil {
		s.logger.Warn("undecodable talk request", "error", err)
		return failure(c, "Could not parse request data")
	}
	if req.Text == "" {
		return failure(c, "No text provided")
	}
	if req.SessionID == "" {
		req.SessionID = DefaultSessionID
	}

	s.requests.Add(1)
	result := s.pipe.Run(c.UserContext(), req.SessionID, req.Text)
	if !result.Success {
		s.failures.Add(1)
		return c.JSON(result)
	}

	if s.dispatcher != nil {
		s.relayToDevice(result.AudioBase64, result.Motion, result.Face)
	}

	return c.JSON(result)
}

// handleTalkText is the text-first variant kept for bench testing; it
// runs the same pipeline but answers with the original field names.
func (s *Server) handleTalkText(c *fiber.Ctx) error {
	var req TalkRequest
	if err := decodeBody(c, &req); err != nil {
		s.logger.Warn("undecodable talk_text request", "error", err)
		return failure(c, "Could not parse request data")
	}
	if req.Text == "" {
		return failure(c, "No text provided")
	}
	if req.SessionID == "" {
		req.SessionID = DefaultSessionID
	}

	s.requests.Add(1)
	result := s.pipe.Run(c.UserContext(), req.SessionID, req.Text)
	if !result.Success {
		s.failures.Add(1)
		return c.JSON(result)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"audio_base64": result.AudioBase64,
		"motion":       result.Motion,
		"face":         result.Face,
		"spoken_text":  result.Response,
	})
}

// handleClearSession drops a session's transcript. Clearing an unknown
// session succeeds too.
func (s *Server) handleClearSession(c *fiber.Ctx) error {
	var req ClearSessionRequest
	if err := decodeBody(c, &req); err != nil {
		s.logger.Warn("undecodable clear_session request", "error", err)
		return failure(c, "Could not parse request data")
	}
	if req.SessionID == "" {
		req.SessionID = DefaultSessionID
	}

	s.store.Clear(req.SessionID)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Session '%s' cleared.", req.SessionID),
	})
}

// relayToDevice fire-and-forgets the assembled command to the device.
// The HTTP response is already decided; a failed relay is only logged.
func (s *Server) relayToDevice(audioB64, motion, face string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), device.DispatchTimeout)
		defer cancel()

		err := s.dispatcher.Send(ctx, device.Command{
			Audio:  audioB64,
			Motion: motion,
			Face:   face,
		})
		if err != nil {
			s.logger.Warn("device dispatch failed", "error", err)
			return
		}
		s.dispatches.Add(1)
	}()
}
