package health

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CheckResult is the outcome of one reachability probe.
type CheckResult struct {
	Name    string        `json:"name"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
}

func (c CheckResult) String() string {
	mark := "✓"
	if !c.OK {
		mark = "✗"
	}
	s := fmt.Sprintf("%s %s (%dms)", mark, c.Name, c.Latency.Milliseconds())
	if c.Error != "" {
		s += fmt.Sprintf(" - %s", c.Error)
	}
	return s
}

// CheckHarness probes the harness's health endpoint. An unreachable
// harness is reported, not fatal: the snapshot poller treats absence as
// transient, so callers normally log this and proceed.
func CheckHarness(ctx context.Context, baseURL string) CheckResult {
	start := time.Now()
	result := CheckResult{Name: "harness"}

	if baseURL == "" {
		result.Error = "HARNESS_BASE_URL not set"
		result.Latency = time.Since(start)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/healthz", nil)
	if err != nil {
		result.Error = fmt.Sprintf("request build failed: %v", err)
		result.Latency = time.Since(start)
		return result
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Latency = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	result.Latency = time.Since(start)

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		result.Error = fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body))
		return result
	}

	result.OK = true
	return result
}
