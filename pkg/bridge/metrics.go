package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the engine's Prometheus instrumentation.
// The engine runs fine without it; a nil *Metrics disables collection.
type Metrics struct {
	// PacketsSent counts transmitted position packets
	PacketsSent prometheus.Counter

	// PacketsSuppressed counts reports accepted but not transmitted,
	// labeled by why (throttle, landed, policy)
	PacketsSuppressed *prometheus.CounterVec

	// ObjectDeletes counts emitted deletions, labeled by cause
	// (range, landed, ttl, rename)
	ObjectDeletes *prometheus.CounterVec

	// Renames counts hex→callsign identity upgrades
	Renames prometheus.Counter

	// ActiveTracks is the current number of live tracks
	ActiveTracks prometheus.Gauge
}

// NewMetrics registers the engine metrics against the given
// registerer, defaulting to the global Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		PacketsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "adsb2aprs_packets_sent_total",
			Help: "Total APRS object position packets transmitted.",
		}),
		PacketsSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adsb2aprs_packets_suppressed_total",
			Help: "Reports accepted but not transmitted, by reason.",
		}, []string{"reason"}),
		ObjectDeletes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adsb2aprs_object_deletes_total",
			Help: "APRS object deletions emitted, by cause.",
		}, []string{"reason"}),
		Renames: factory.NewCounter(prometheus.CounterOpts{
			Name: "adsb2aprs_track_renames_total",
			Help: "Tracks re-keyed from hex to callsign identity.",
		}),
		ActiveTracks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "adsb2aprs_active_tracks",
			Help: "Number of currently tracked aircraft objects.",
		}),
	}
}

func (m *Metrics) suppressed(reason string) {
	if m != nil {
		m.PacketsSuppressed.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) deleted(reason string) {
	if m != nil {
		m.ObjectDeletes.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) sent() {
	if m != nil {
		m.PacketsSent.Inc()
	}
}

func (m *Metrics) renamed() {
	if m != nil {
		m.Renames.Inc()
	}
}

func (m *Metrics) trackCount(n int) {
	if m != nil {
		m.ActiveTracks.Set(float64(n))
	}
}
