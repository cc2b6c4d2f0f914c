package diagws

import (
	"context"
	"log"
	"strings"
	"time"

	"nhooyr.io/websocket"
)

// Client maintains a single live websocket connection to the harness's
// diagnostic text stream and hands each line to a callback. The stream is
// a best-effort, degraded channel: lines are pattern-matched downstream
// for counters that have no structured source, and false negatives are
// accepted. Disconnects reconnect with backoff; missing the stream
// entirely never fails a session.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc

	url    string
	onLine func(string)

	fails []time.Time
}

func NewClient(parent context.Context, url string, onLine func(string)) *Client {
	ctx, cancel := context.WithCancel(parent)
	return &Client{ctx: ctx, cancel: cancel, url: url, onLine: onLine}
}

func (c *Client) Start() {
	go c.run()
}

func (c *Client) Close() { c.cancel() }

func (c *Client) run() {
	for {
		if err := c.connectAndPump(); err != nil {
			c.addFailure()
			log.Printf("[diagws] stream error: %v", err)
		} else {
			c.fails = nil
		}
		if c.ctx.Err() != nil {
			return
		}
		time.Sleep(c.nextBackoff())
	}
}

func (c *Client) connectAndPump() error {
	ctx, cancel := context.WithTimeout(c.ctx, 10*time.Second)
	ws, _, err := websocket.Dial(ctx, c.url, nil)
	cancel()
	if err != nil {
		return err
	}
	defer ws.Close(websocket.StatusNormalClosure, "done")
	log.Printf("[diagws] connected to %s", c.url)

	for {
		if c.ctx.Err() != nil {
			return nil
		}
		typ, data, err := ws.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText || len(data) == 0 {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				c.onLine(line)
			}
		}
	}
}

func (c *Client) addFailure() {
	c.fails = append(c.fails, time.Now())
	cutoff := time.Now().Add(-60 * time.Second)
	j := 0
	for _, t := range c.fails {
		if t.After(cutoff) {
			c.fails[j] = t
			j++
		}
	}
	c.fails = c.fails[:j]
}

func (c *Client) nextBackoff() time.Duration {
	n := len(c.fails)
	if n <= 0 {
		return time.Second
	}
	if n > 5 {
		n = 5
	}
	d := time.Duration(1<<uint(n-1)) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}
