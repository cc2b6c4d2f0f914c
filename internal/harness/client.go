package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"voiceqa/telemetry/internal/types"
)

// Client reads telemetry snapshots from a running harness over HTTP.
// The engine never writes back; this is a read-only view.
type Client struct {
	http *http.Client
	base string
}

func NewClient(base string) *Client {
	return &Client{
		http: &http.Client{Timeout: 5 * time.Second},
		base: base,
	}
}

// Snapshot fetches the current harness state for a session. A (nil, nil)
// return means the harness is not ready yet (session still starting, log
// not created); callers retry on their own schedule. Errors are transport
// problems and are equally retryable.
func (c *Client) Snapshot(ctx context.Context, sessionID string) (*types.HarnessSnapshot, error) {
	url := c.base + "/sessions/" + sessionID + "/telemetry"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound, http.StatusServiceUnavailable:
		// Not ready. The session may not have produced a snapshot yet.
		return nil, nil
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("harness snapshot: %s: %s", resp.Status, string(b))
	}

	var snap types.HarnessSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
