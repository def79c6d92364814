// Package ratelimit paces repeated site interactions.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pacer wraps rate.Limiter with a name for logging/debugging. It enforces a
// minimum interval between events, with no bursting, so batch runs don't
// hammer the site.
type Pacer struct {
	limiter *rate.Limiter
	name    string
}

// New creates a pacer that allows one event per interval.
func New(name string, interval time.Duration) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		name:    name,
	}
}

// Wait blocks until the next event may proceed.
// Returns an error if the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("pacing wait for %s: %w", p.name, err)
	}
	return nil
}

// Name returns the name of this pacer.
func (p *Pacer) Name() string {
	return p.name
}
