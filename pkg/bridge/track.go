// Package bridge implements the track lifecycle manager: the stateful
// decision engine that converts a stream of aircraft position reports
// into create/update/delete actions for named APRS objects, under
// range, time, distance, and rate constraints.
package bridge

import (
	"time"

	"github.com/unklstewy/adsb2aprs/pkg/coordinates"
	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// SentSnapshot records the last report actually transmitted for a
// track. The update policy compares every new report against it, so it
// must survive renames intact.
type SentSnapshot struct {
	// Time is when the packet went out
	Time time.Time

	// Report is the full report that was transmitted
	Report sbs.PositionReport
}

// Position returns the transmitted coordinates.
func (s *SentSnapshot) Position() coordinates.Geographic {
	return coordinates.Geographic{
		Latitude:  s.Report.Latitude,
		Longitude: s.Report.Longitude,
	}
}

// Track is the bridge's record of one currently-monitored aircraft.
type Track struct {
	// Name is the 9-character padded object name, unique among active
	// tracks
	Name string

	// Hex is the ICAO transponder address, empty if never resolved
	Hex string

	// LastSeen is the time of the most recent accepted report
	LastSeen time.Time

	// LastSent is the last transmitted state, nil before the first send
	// and after a suppression delete
	LastSent *SentSnapshot

	// LowAltSince marks the start of a continuous low-altitude dwell;
	// zero when the aircraft is not dwelling
	LowAltSince time.Time

	// landed is the suppression state machine, see landed.go
	landed *landedFSM
}

func newTrack(name, hex string, now time.Time) *Track {
	return &Track{
		Name:     name,
		Hex:      hex,
		LastSeen: now,
		landed:   newLandedFSM(),
	}
}

// LandedBlocked reports whether the track is frozen by the landed
// suppressor: its object has been deleted and low-altitude reports are
// being dropped.
func (t *Track) LandedBlocked() bool {
	return t.landed.Current() == landedStateBlocked
}

// LandedState returns the suppression state name, for diagnostics.
func (t *Track) LandedState() string {
	return t.landed.Current()
}
