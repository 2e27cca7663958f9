package backend

import (
	"context"
	"fmt"
	"time"
)

// Backoff is a bounded exponential retry policy. Delay starts at Initial
// and doubles each attempt, capped at Max; the whole sequence stops after
// MaxAttempts.
type Backoff struct {
	Initial     time.Duration
	Max         time.Duration
	MaxAttempts int
}

// DefaultBackoff covers model warm-up at daemon start: roughly a minute of
// probing before giving up.
func DefaultBackoff() Backoff {
	return Backoff{
		Initial:     time.Second,
		Max:         10 * time.Second,
		MaxAttempts: 10,
	}
}

// WaitForModel polls the backend health endpoint until the model reports
// loaded, the policy is exhausted, or the context is canceled. Probe
// failures count as attempts; a reachable backend with an unloaded model
// keeps being polled the same way.
func (c *Client) WaitForModel(ctx context.Context, b Backoff) error {
	if b.MaxAttempts <= 0 {
		return fmt.Errorf("wait for model: non-positive MaxAttempts %d", b.MaxAttempts)
	}

	delay := b.Initial
	var lastErr error

	for attempt := 1; attempt <= b.MaxAttempts; attempt++ {
		status, err := c.Health(ctx)
		if err == nil && status.ModelLoaded {
			return nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("model not loaded (status %q)", status.Status)
		}

		if attempt == b.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > b.Max {
			delay = b.Max
		}
	}

	return fmt.Errorf("wait for model: gave up after %d attempts: %w", b.MaxAttempts, lastErr)
}
