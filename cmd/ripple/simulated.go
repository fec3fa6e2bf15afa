package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/ripple"
)

// simulatedChecker answers after a fixed latency with a coin flip.
type simulatedChecker struct {
	clock   clockz.Clock
	latency time.Duration
	coin    func() bool
}

func newSimulatedChecker(clock clockz.Clock, latency time.Duration) *simulatedChecker {
	return &simulatedChecker{
		clock:   clock,
		latency: latency,
		coin:    func() bool { return rand.IntN(2) == 0 }, //nolint:gosec // not security sensitive
	}
}

// Check implements ripple.Checker.
func (c *simulatedChecker) Check(ctx context.Context, _ string) (bool, error) {
	if c.latency > 0 {
		timer := c.clock.NewTimer(c.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C():
		}
	}
	return c.coin(), nil
}

var _ ripple.Checker[string] = (*simulatedChecker)(nil)
