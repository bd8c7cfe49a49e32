package bridge

import (
	"math"
	"time"

	"github.com/unklstewy/adsb2aprs/pkg/coordinates"
	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// UpdatePolicy decides whether a report differs enough from the last
// transmitted state, and enough time has passed, to justify a send.
type UpdatePolicy struct {
	// MinUpdateInterval gates sends triggered by state change alone
	MinUpdateInterval time.Duration

	// MinMoveMi justifies a send regardless of elapsed time
	MinMoveMi float64

	// Change epsilons. A field whose presence flips (reported vs not)
	// always counts as changed.
	EpsLatLonDeg float64
	EpsAltFt     float64
	EpsTrackDeg  float64
	EpsSpeedKt   float64
}

// ShouldSend applies the three independent triggers: first sighting,
// significant displacement, or material state change after the minimum
// interval. Any one suffices.
func (p UpdatePolicy) ShouldSend(prev *SentSnapshot, cur sbs.PositionReport, now time.Time) bool {
	if prev == nil {
		return true
	}

	moved := coordinates.DistanceMiles(prev.Position(), coordinates.Geographic{
		Latitude:  cur.Latitude,
		Longitude: cur.Longitude,
	}) >= p.MinMoveMi
	if moved {
		return true
	}

	return p.StateChanged(prev.Report, cur) && now.Sub(prev.Time) >= p.MinUpdateInterval
}

// StateChanged compares two reports against the configured epsilons.
// Pure: no registry state is consulted.
func (p UpdatePolicy) StateChanged(prev, cur sbs.PositionReport) bool {
	if math.Abs(cur.Latitude-prev.Latitude) >= p.EpsLatLonDeg {
		return true
	}
	if math.Abs(cur.Longitude-prev.Longitude) >= p.EpsLatLonDeg {
		return true
	}
	if optionalChanged(prev.Altitude, cur.Altitude, p.EpsAltFt) {
		return true
	}
	if trackAngleChanged(prev.Track, cur.Track, p.EpsTrackDeg) {
		return true
	}
	if optionalChanged(prev.GroundSpeed, cur.GroundSpeed, p.EpsSpeedKt) {
		return true
	}
	return false
}

// optionalChanged compares two optional values: a presence flip is a
// change, and so is a delta of at least eps. Absent is never treated
// as zero.
func optionalChanged(prev, cur *float64, eps float64) bool {
	if (cur == nil) != (prev == nil) {
		return true
	}
	if cur == nil {
		return false
	}
	return math.Abs(*cur-*prev) >= eps
}

// trackAngleChanged compares track angles circularly: the delta is the
// shorter way around the compass, so 359° vs 1° is a 2° change.
func trackAngleChanged(prev, cur *float64, eps float64) bool {
	if (cur == nil) != (prev == nil) {
		return true
	}
	if cur == nil {
		return false
	}
	d := normalizeAngle(*cur) - normalizeAngle(*prev)
	if d < 0 {
		d = -d
	}
	if 360-d < d {
		d = 360 - d
	}
	return float64(d) >= eps
}

// normalizeAngle folds any angle into [0, 360). Go's % keeps the sign
// of the dividend, so negative inputs need the extra fold.
func normalizeAngle(v float64) int {
	return ((int(v) % 360) + 360) % 360
}
