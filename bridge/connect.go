package bridge

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/nats-io/nats.go"
)

// Connection retry tuning for Connect.
const (
	connectRetryBase = 250 * time.Millisecond
	connectRetryCap  = 10 * time.Second
	connectRetryMult = 2.0
)

// Connect dials the NATS server carrying the notification subjects, retrying
// with jittered exponential backoff until the context is cancelled.
//
// Clerk workstations come up before the message broker in some deployments,
// so a flat "connection refused" must not fail session startup.
//
// Parameters:
//   - ctx: Bounds the overall connection attempt
//   - url: NATS server URL, e.g. nats.DefaultURL
//   - opts: Additional NATS options, appended after the bridge defaults
//
// Returns:
//   - *nats.Conn: Established connection; the caller owns it
//   - error: Last dial error when ctx expires first
func Connect(ctx context.Context, url string, opts ...nats.Option) (*nats.Conn, error) {
	// The initial dial must fail fast so this loop owns the retry policy;
	// once established, the client reconnects on its own indefinitely.
	options := append([]nats.Option{
		nats.Timeout(2 * time.Second),
		nats.MaxReconnects(-1),
	}, opts...)

	var delay time.Duration
	var lastErr error

	for {
		nc, err := nats.Connect(url, options...)
		if err == nil {
			return nc, nil
		}
		lastErr = err

		delay = nextDelay(delay, connectRetryBase, connectRetryMult, connectRetryCap)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("failed to connect to %s: %w", url, lastErr)
		case <-time.After(delay):
		}
	}
}

// nextDelay computes the next retry delay using capped jittered exponential
// backoff. Given the previous delay it returns a random duration in
// [base, base+prev*mult), capped at capDur.
//
// See: https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
func nextDelay(prev, base time.Duration, mult float64, capDur time.Duration) time.Duration {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if mult < 1.0 {
		mult = 1.0
	}
	if capDur > 0 && capDur < base {
		return capDur
	}

	if prev <= 0 {
		return base
	}

	spread := time.Duration(float64(prev)*mult) - base
	if spread <= 0 {
		spread = base
	}

	next := base + time.Duration(rand.Int64N(int64(spread))) //nolint:gosec // non-crypto backoff jitter

	if capDur > 0 && next > capDur {
		return capDur
	}

	return next
}
