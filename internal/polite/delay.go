package polite

import (
	"context"
	"math/rand/v2"
	"time"
)

// PaceProfile names a pacing configuration.
type PaceProfile string

const (
	PaceCautious PaceProfile = "cautious"
	PaceNormal   PaceProfile = "normal"
	PaceFast     PaceProfile = "fast"
)

// Pacer inserts randomized gaps between requests so query bursts do
// not hit a storefront in lockstep.
type Pacer struct {
	Min time.Duration
	Max time.Duration
}

// NewPacer returns a pacer for the given profile. Unknown profiles
// fall back to normal.
func NewPacer(profile PaceProfile) *Pacer {
	switch profile {
	case PaceCautious:
		return &Pacer{Min: 1 * time.Second, Max: 3 * time.Second}
	case PaceFast:
		return &Pacer{Min: 50 * time.Millisecond, Max: 250 * time.Millisecond}
	default:
		return &Pacer{Min: 300 * time.Millisecond, Max: time.Second}
	}
}

// Wait sleeps for a random duration within the configured range or
// until ctx is canceled.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.Min
	if p.Max > p.Min {
		d += time.Duration(rand.Int64N(int64(p.Max - p.Min)))
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
