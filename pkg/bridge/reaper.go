package bridge

import (
	"log"
	"strings"
	"time"
)

// Sweep reaps tracks whose silence has reached the object TTL. Each
// reaped track gets one final delete packet so downstream clients drop
// the object promptly instead of waiting for their own decay timers.
//
// Call this periodically from the same loop that drives ProcessReport.
// Deletes issued here bypass the output throttle; a burst of expiries
// must not be able to starve live position updates, and the reverse
// would leave ghost objects on the map.
func (e *Engine) Sweep(now time.Time) {
	for _, track := range e.tracks.All() {
		if now.Sub(track.LastSeen) < e.ttl {
			continue
		}
		name := track.Name

		// A track that never produced a send has no known coordinates.
		// 0,0 is a knowingly bogus placement; the delete body only
		// needs to parse, the name is what kills the object.
		var lat, lon float64
		if track.LastSent != nil {
			lat = track.LastSent.Report.Latitude
			lon = track.LastSent.Report.Longitude
		}

		sym := e.symbolFor(e.meta.Lookup(track.Hex))
		e.emitDelete(name, lat, lon, sym, "ttl")
		e.tracks.Remove(name)
		log.Printf("[EXPIRE] No data %v: Deleted %s", e.ttl, strings.TrimSpace(name))
	}
	e.metrics.trackCount(e.tracks.Len())
}
