// Package startup provides the genesis-anchored clock the gossip
// verification pipelines measure message timeliness against.
package startup

import (
	"time"

	"github.com/dapplion/gloas/consensus-types/primitives"
	"github.com/dapplion/gloas/time/slots"
)

// Nower is a function that can return the current time.
type Nower func() time.Time

// Clock abstracts important time-related concerns in the beacon chain:
//   - provides a time.Now() construct that can be overridden in tests
//   - GenesisTime() to know the genesis time or use genesis time determination as a synchronization point.
//   - CurrentSlot: convenience conversion for current time -> slot.
type Clock struct {
	t   time.Time
	vr  [32]byte
	now Nower
}

// GenesisTime returns the genesis timestamp.
func (g *Clock) GenesisTime() time.Time {
	return g.t
}

// GenesisValidatorsRoot returns the genesis state validator root.
func (g *Clock) GenesisValidatorsRoot() [32]byte {
	return g.vr
}

// CurrentSlot returns the current slot relative to the time.Time value that
// Clock embeds.
func (g *Clock) CurrentSlot() primitives.Slot {
	now := g.now()
	return slots.Duration(g.t, now)
}

// SlotStart computes the time the given slot begins.
func (g *Clock) SlotStart(slot primitives.Slot) time.Time {
	return slots.BeginsAt(slot, g.t)
}

// Now provides a value for time.Now() that can be overridden in tests.
func (g *Clock) Now() time.Time {
	return g.now()
}

// ClockOpt is a functional option to change the behavior of a clock value
// made by NewClock.
type ClockOpt func(*Clock)

// WithNower allows tests in particular to inject an alternate implementation
// of time.Now (vs using system time).
func WithNower(n Nower) ClockOpt {
	return func(g *Clock) {
		g.now = n
	}
}

// NewClock constructs a Clock value from a genesis timestamp (t) and a
// Genesis Validator Root (vr).
func NewClock(t time.Time, vr [32]byte, opts ...ClockOpt) *Clock {
	c := &Clock{t: t, vr: vr}
	for _, o := range opts {
		o(c)
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}
