package bridge

import (
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/unklstewy/adsb2aprs/pkg/aprs"
	"github.com/unklstewy/adsb2aprs/pkg/config"
	"github.com/unklstewy/adsb2aprs/pkg/coordinates"
	"github.com/unklstewy/adsb2aprs/pkg/metadata"
	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// PacketEmitter turns a decided action into an outbound wire packet.
// Implementations are fire-and-forget; the engine never retries a
// failed send, it just leaves the last-sent baseline untouched so the
// next eligible report tries again.
type PacketEmitter interface {
	SendObject(name string, r sbs.PositionReport, sym aprs.Symbol, flight, hex string) error
	SendDelete(name string, lat, lon float64, sym aprs.Symbol) error
}

// Engine is the track lifecycle manager. Each inbound report passes
// through the range gate, the landed suppressor, the output throttle,
// the rename coordinator and the update policy, consulting and
// mutating the registries along the way; Sweep independently reaps
// silent tracks.
//
// The engine is deliberately single-threaded: one report at a time,
// no locking. Callers own the loop.
type Engine struct {
	tracks   *TrackRegistry
	gate     RangeGate
	landed   LandedSuppressor
	policy   UpdatePolicy
	throttle OutputThrottle
	ttl      time.Duration

	meta    *metadata.Cache
	emitter PacketEmitter
	metrics *Metrics
}

// NewEngine builds an engine from the bridge configuration.
// metrics may be nil to disable instrumentation.
func NewEngine(cfg config.BridgeConfig, meta *metadata.Cache, emitter PacketEmitter, metrics *Metrics) *Engine {
	if meta == nil {
		meta = metadata.NewCache()
	}
	return &Engine{
		tracks: NewTrackRegistry(),
		gate: RangeGate{
			Reference: coordinates.Geographic{
				Latitude:  cfg.ReferenceLatitude,
				Longitude: cfg.ReferenceLongitude,
			},
			AddDistanceMi:   cfg.AddDistanceMiles,
			ClearDistanceMi: cfg.ClearDistanceMiles,
		},
		landed: LandedSuppressor{
			LandedAltFt: cfg.LandedAltFt,
			ClearAltFt:  cfg.LandClearAltFt,
			Dwell:       time.Duration(cfg.LandedDwellSeconds) * time.Second,
		},
		policy: UpdatePolicy{
			MinUpdateInterval: time.Duration(cfg.MinUpdateSeconds) * time.Second,
			MinMoveMi:         cfg.MinMoveMiles,
			EpsLatLonDeg:      cfg.EpsLatLonDeg,
			EpsAltFt:          cfg.EpsAltFt,
			EpsTrackDeg:       cfg.EpsTrackDeg,
			EpsSpeedKt:        cfg.EpsSpeedKt,
		},
		throttle: OutputThrottle{Ceiling: cfg.MaxPacketsPerSecond},
		ttl:      time.Duration(cfg.ObjectTTLSeconds) * time.Second,
		meta:     meta,
		emitter:  emitter,
		metrics:  metrics,
	}
}

// Tracks exposes the registry read-only, for status displays.
func (e *Engine) Tracks() *TrackRegistry {
	return e.tracks
}

// ProcessReport runs one position report through the lifecycle
// pipeline.
func (e *Engine) ProcessReport(r sbs.PositionReport, now time.Time) {
	hex := strings.ToUpper(r.Hex)
	entry := e.meta.Lookup(hex)

	flight := r.Callsign
	if flight == "" {
		flight, _ = entry.Flight()
	}
	desired := aprs.ObjectName(flight, hex)
	sym := e.symbolFor(entry)
	dist := e.gate.Distance(r.Latitude, r.Longitude)

	// A hex already being tracked keeps its current name until the
	// rename coordinator says otherwise. A name match alone is not
	// ours unless the hex agrees; a different aircraft may hold it.
	name := desired
	var track *Track
	if current, ok := e.tracks.NameForHex(hex); ok {
		name = current
		track = e.tracks.Get(current)
	} else if existing := e.tracks.Get(desired); existing != nil && existing.Hex == hex {
		track = existing
	}

	// Range hysteresis: evict admitted tracks beyond the clear radius,
	// refuse new ones beyond the add radius.
	if track != nil && e.gate.Evict(dist) {
		lat, lon := lastPosition(track, &r)
		e.emitDelete(name, lat, lon, sym, "range")
		e.tracks.Remove(name)
		e.metrics.trackCount(e.tracks.Len())
		log.Printf("[EXPIRE] Out of range >%.0fmi: Deleted %s", e.gate.ClearDistanceMi, strings.TrimSpace(name))
		return
	}
	if track == nil {
		if !e.gate.Admit(dist) {
			return
		}
		var err error
		track, err = e.tracks.Create(name, hex, now)
		if err != nil {
			// Name collision with another live aircraft; keep the
			// existing object rather than corrupt the mapping.
			log.Printf("[TRACK] Cannot create %s: %v", strings.TrimSpace(name), err)
			return
		}
		e.metrics.trackCount(e.tracks.Len())
	}

	switch e.landed.Evaluate(track, r.Altitude, now) {
	case LandedSuppress:
		// Keep the block alive while the aircraft keeps transmitting
		// on the ground; only true silence lets the reaper take it.
		track.LastSeen = now
		e.metrics.suppressed("landed")
		return
	case LandedDelete:
		lat, lon := lastPosition(track, &r)
		e.emitDelete(track.Name, lat, lon, sym, "landed")
		track.LastSent = nil
		track.LastSeen = now
		log.Printf("[LAND] Dwell delete %s (<=%.0fft for %v)",
			strings.TrimSpace(track.Name), e.landed.LandedAltFt, e.landed.Dwell)
		return
	}

	// Global output ceiling. The report still refreshes the track; only
	// the send (and any pending rename) waits for the next second.
	if !e.throttle.Allow(now) {
		track.LastSeen = now
		e.metrics.suppressed("throttle")
		return
	}

	if track.Name != desired {
		track = e.rename(track, desired, &r, sym)
	}

	track.LastSeen = now

	if !e.policy.ShouldSend(track.LastSent, r, now) {
		e.metrics.suppressed("policy")
		return
	}

	if err := e.emitter.SendObject(track.Name, r, sym, flight, hex); err != nil {
		log.Printf("[APRS] Send fail for %s: %v", strings.TrimSpace(track.Name), err)
		return
	}
	track.LastSent = &SentSnapshot{Time: now, Report: r}
	e.throttle.Count(now)
	e.metrics.sent()
	log.Printf("[SEND] %s %.5f,%.5f alt=%s gs=%s trk=%s sym=%c%c tag=%s",
		strings.TrimSpace(track.Name), r.Latitude, r.Longitude,
		fmtOpt(r.Altitude), fmtOpt(r.GroundSpeed), fmtOpt(r.Track),
		sym.Table, sym.Code, sym.Tag)
}

// rename upgrades a track's identity, typically hex-only → callsign:
// one delete for the old object, then an atomic re-key that carries
// the last-sent baseline so the next policy decision is not a bogus
// first sighting. If the new name is already held by another live
// track the upgrade is refused and the old identity kept: two
// simultaneously live objects for one aircraft is the one thing this
// must never produce.
func (e *Engine) rename(track *Track, desired string, r *sbs.PositionReport, sym aprs.Symbol) *Track {
	oldName := track.Name
	lat, lon := lastPosition(track, r)

	renamed, err := e.tracks.Rename(oldName, desired)
	if err != nil {
		log.Printf("[RENAME] Keeping %s: %v", strings.TrimSpace(oldName), err)
		return track
	}

	e.emitDelete(oldName, lat, lon, sym, "rename")
	e.metrics.renamed()
	log.Printf("[RENAME] %s -> %s", strings.TrimSpace(oldName), strings.TrimSpace(desired))
	return renamed
}

// emitDelete sends an object deletion. Delete failures are logged and
// otherwise ignored: the object will age out downstream regardless,
// and the track-state decision that triggered the delete stands.
func (e *Engine) emitDelete(name string, lat, lon float64, sym aprs.Symbol, reason string) {
	if err := e.emitter.SendDelete(name, lat, lon, sym); err != nil {
		log.Printf("[APRS] Delete send fail for %s: %v", strings.TrimSpace(name), err)
	}
	e.metrics.deleted(reason)
}

// symbolFor classifies from cached metadata, degrading to the default
// fixed-wing symbol when nothing is known.
func (e *Engine) symbolFor(entry metadata.Entry) aprs.Symbol {
	cat, _ := entry.Category()
	typ, _ := entry.Type()
	return aprs.SymbolForAircraft(cat, typ)
}

// lastPosition is where a delete for this track should be placed: the
// last transmitted coordinates if any, else the current report's.
func lastPosition(t *Track, r *sbs.PositionReport) (float64, float64) {
	if t.LastSent != nil {
		return t.LastSent.Report.Latitude, t.LastSent.Report.Longitude
	}
	return r.Latitude, r.Longitude
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(int(*v))
}
