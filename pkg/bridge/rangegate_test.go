package bridge

import (
	"testing"

	"github.com/unklstewy/adsb2aprs/pkg/coordinates"
)

func testGate() RangeGate {
	return RangeGate{
		Reference:       coordinates.Geographic{Latitude: 42.9405, Longitude: -78.7322},
		AddDistanceMi:   35,
		ClearDistanceMi: 40,
	}
}

func TestRangeGateHysteresis(t *testing.T) {
	g := testGate()

	tests := []struct {
		name  string
		dist  float64
		admit bool
		evict bool
	}{
		{"AtReference", 0, true, false},
		{"WellInside", 20, true, false},
		{"ExactlyAddRadius", 35, true, false},
		{"JustBeyondAdd", 35.1, false, false},
		{"ExactlyClearRadius", 40, false, false},
		{"BeyondClear", 40.1, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Admit(tt.dist); got != tt.admit {
				t.Errorf("Admit(%.1f): expected %v, got %v", tt.dist, tt.admit, got)
			}
			if got := g.Evict(tt.dist); got != tt.evict {
				t.Errorf("Evict(%.1f): expected %v, got %v", tt.dist, tt.evict, got)
			}
		})
	}
}

func TestRangeGateDistance(t *testing.T) {
	g := testGate()
	if d := g.Distance(42.9405, -78.7322); d != 0 {
		t.Errorf("Expected zero distance at reference, got %f", d)
	}
	// One degree of latitude is about 69 statute miles.
	d := g.Distance(43.9405, -78.7322)
	if d < 68 || d > 70 {
		t.Errorf("Expected ~69mi for one degree of latitude, got %f", d)
	}
}
