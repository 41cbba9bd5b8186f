// Package device relays assembled commands to the physical robot.
//
// The robot firmware exposes a single POST /command endpoint taking
// base64 audio plus motion and face labels. Delivery is best-effort:
// callers log a failed dispatch and move on, the response already sent
// to the client is never affected.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravlabs/go-aarav/internal/httpc"
)

// DispatchTimeout bounds one delivery attempt to the device.
const DispatchTimeout = 10 * time.Second

// Command is the payload the device firmware executes.
type Command struct {
	// Audio is base64-encoded device-format audio.
	Audio string `json:"audio"`

	// Motion label to perform.
	Motion string `json:"motion"`

	// Face label to show.
	Face string `json:"face"`
}

// Dispatcher posts commands to a device over its local HTTP API.
type Dispatcher struct {
	// BaseURL of the device HTTP API, e.g. "http://192.168.1.50".
	BaseURL string

	client *http.Client
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher for the device at the given IP.
func NewDispatcher(deviceIP string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		BaseURL: fmt.Sprintf("http://%s", deviceIP),
		client:  httpc.NewClient(DispatchTimeout),
		logger:  logger.With("component", "device.dispatcher"),
	}
}

// Send posts the command to the device. A non-200 status or network
// failure is returned as an error; no retry is attempted.
func (d *Dispatcher) Send(ctx context.Context, cmd Command) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("device: marshal command: %w", err)
	}

	url := d.BaseURL + "/command"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("device: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("device: send command: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("device: command rejected with status %d: %s",
			resp.StatusCode, detail)
	}

	d.logger.Debug("command dispatched",
		"motion", cmd.Motion,
		"face", cmd.Face,
		"audio_bytes", len(cmd.Audio),
	)
	return nil
}
