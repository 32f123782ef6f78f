package api

import (
	"context"
	"time"
)

// Probe defaults are sized for a free-tier backend cold start: a long
// overall window, short per-attempt timeouts.
const (
	DefaultProbeTimeout  = 60 * time.Second
	DefaultProbeInterval = 3 * time.Second
	DefaultPingTimeout   = 5 * time.Second
)

// Prober polls the backend base URL until it answers or the window closes.
type Prober struct {
	Client   *Client
	Timeout  time.Duration // overall give-up window
	Interval time.Duration // pause between attempts
	PerPing  time.Duration // per-attempt timeout
}

func NewProber(c *Client) *Prober {
	return &Prober{
		Client:   c,
		Timeout:  DefaultProbeTimeout,
		Interval: DefaultProbeInterval,
		PerPing:  DefaultPingTimeout,
	}
}

// Wait pings until a 200 arrives or the window closes. Failures between
// attempts are logged and swallowed; they never surface as errors. Returns
// false on timeout or context cancellation.
func (p *Prober) Wait(ctx context.Context) bool {
	deadline := time.Now().Add(p.Timeout)
	for time.Now().Before(deadline) {
		pingCtx, cancel := context.WithTimeout(ctx, p.PerPing)
		err := p.Client.Health(pingCtx)
		cancel()
		if err == nil {
			return true
		}
		p.Client.log.Debug("backend not ready", "err", err)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.Interval):
		}
	}
	return false
}

// WaitForBackend runs a prober with the default windows. It blocks until
// the backend answers or the 60s window closes.
func WaitForBackend(ctx context.Context, c *Client) bool {
	return NewProber(c).Wait(ctx)
}
