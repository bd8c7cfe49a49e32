package bridge

import (
	"context"
	"time"

	"github.com/looplab/fsm"
)

// Landed-suppression states and events.
const (
	landedStateActive  = "active"
	landedStateDwell   = "dwell_pending"
	landedStateBlocked = "landed_blocked"

	landedEventDescend = "descend"
	landedEventExpire  = "expire"
	landedEventClimb   = "climb"
)

// landedFSM wraps the per-track suppression state machine.
type landedFSM struct {
	*fsm.FSM
}

func newLandedFSM() *landedFSM {
	return &landedFSM{fsm.NewFSM(
		landedStateActive,
		fsm.Events{
			{Name: landedEventDescend, Src: []string{landedStateActive}, Dst: landedStateDwell},
			{Name: landedEventExpire, Src: []string{landedStateDwell}, Dst: landedStateBlocked},
			{Name: landedEventClimb, Src: []string{landedStateDwell, landedStateBlocked}, Dst: landedStateActive},
		},
		fsm.Callbacks{},
	)}
}

func (f *landedFSM) fire(event string) {
	// Transitions are guarded by state checks in Evaluate, so the only
	// possible failure is a no-op.
	_ = f.Event(context.Background(), event)
}

// LandedDecision is the suppressor's verdict on one report.
type LandedDecision int

const (
	// LandedPass lets the report continue through the pipeline
	LandedPass LandedDecision = iota

	// LandedSuppress drops the report: the track is blocked and still
	// at low altitude
	LandedSuppress

	// LandedDelete means the dwell just expired: emit one delete and
	// freeze the track
	LandedDelete
)

// LandedSuppressor implements the parked-aircraft state machine.
//
// An aircraft at or below LandedAltFt starts a dwell timer; if it
// stays in that band for Dwell, its object is deleted and further
// low-altitude reports are dropped. Only climbing above ClearAltFt, a
// separate higher threshold, re-enables it. Between the two altitudes
// a blocked track's reports pass through while the block itself is
// retained.
type LandedSuppressor struct {
	// LandedAltFt is the altitude at or below which the dwell runs
	LandedAltFt float64

	// ClearAltFt re-enables a blocked track once exceeded
	ClearAltFt float64

	// Dwell is how long the aircraft must hold the low band
	Dwell time.Duration
}

// Evaluate advances the track's suppression state for one report and
// returns what the engine should do with it. A nil altitude counts as
// "not low": absence of data never starts or sustains a dwell.
func (s LandedSuppressor) Evaluate(t *Track, alt *float64, now time.Time) LandedDecision {
	low := alt != nil && *alt <= s.LandedAltFt
	clear := alt == nil || *alt > s.ClearAltFt

	if t.LandedBlocked() {
		if clear {
			t.landed.fire(landedEventClimb)
			t.LowAltSince = time.Time{}
			return LandedPass
		}
		if low {
			return LandedSuppress
		}
		return LandedPass
	}

	if low {
		if t.LowAltSince.IsZero() {
			t.LowAltSince = now
			t.landed.fire(landedEventDescend)
		}
		// The timer is never reset by intermediate reports; only
		// leaving the band does that.
		if now.Sub(t.LowAltSince) >= s.Dwell {
			t.landed.fire(landedEventExpire)
			return LandedDelete
		}
		return LandedPass
	}

	if !t.LowAltSince.IsZero() {
		t.LowAltSince = time.Time{}
		t.landed.fire(landedEventClimb)
	}
	return LandedPass
}
