package bridge

import (
	"testing"
	"time"
)

func testSuppressor() LandedSuppressor {
	return LandedSuppressor{
		LandedAltFt: 1000,
		ClearAltFt:  1500,
		Dwell:       180 * time.Second,
	}
}

func TestLandedSuppressorDwell(t *testing.T) {
	s := testSuppressor()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrack("DAL123   ", "ABC123", now)

	if got := s.Evaluate(tr, f64(800), now); got != LandedPass {
		t.Fatalf("Expected first low report to pass, got %v", got)
	}
	if tr.LandedState() != landedStateDwell {
		t.Errorf("Expected dwell_pending state, got %q", tr.LandedState())
	}

	// Still inside the dwell window.
	if got := s.Evaluate(tr, f64(700), now.Add(100*time.Second)); got != LandedPass {
		t.Errorf("Expected report inside dwell to pass, got %v", got)
	}

	// Dwell expires: one delete, then the block holds.
	if got := s.Evaluate(tr, f64(600), now.Add(181*time.Second)); got != LandedDelete {
		t.Fatalf("Expected dwell expiry to delete, got %v", got)
	}
	if !tr.LandedBlocked() {
		t.Error("Expected track to be blocked after dwell expiry")
	}
	if got := s.Evaluate(tr, f64(500), now.Add(200*time.Second)); got != LandedSuppress {
		t.Errorf("Expected low report on blocked track to be suppressed, got %v", got)
	}
}

func TestLandedSuppressorIntermediateReportsDoNotResetDwell(t *testing.T) {
	s := testSuppressor()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrack("DAL123   ", "ABC123", now)

	s.Evaluate(tr, f64(900), now)
	s.Evaluate(tr, f64(850), now.Add(60*time.Second))
	s.Evaluate(tr, f64(800), now.Add(120*time.Second))

	if got := s.Evaluate(tr, f64(750), now.Add(180*time.Second)); got != LandedDelete {
		t.Errorf("Expected dwell measured from first low report, got %v", got)
	}
}

func TestLandedSuppressorClimbClearsDwell(t *testing.T) {
	s := testSuppressor()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrack("DAL123   ", "ABC123", now)

	s.Evaluate(tr, f64(900), now)
	if got := s.Evaluate(tr, f64(3000), now.Add(60*time.Second)); got != LandedPass {
		t.Fatalf("Expected climb report to pass, got %v", got)
	}
	if !tr.LowAltSince.IsZero() {
		t.Error("Expected dwell timer to be cleared by climb")
	}

	// A later descent starts a fresh dwell.
	s.Evaluate(tr, f64(900), now.Add(120*time.Second))
	if got := s.Evaluate(tr, f64(900), now.Add(200*time.Second)); got != LandedPass {
		t.Errorf("Expected new dwell not yet expired, got %v", got)
	}
}

func TestLandedSuppressorBlockedHysteresis(t *testing.T) {
	s := testSuppressor()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrack("DAL123   ", "ABC123", now)

	s.Evaluate(tr, f64(600), now)
	s.Evaluate(tr, f64(600), now.Add(181*time.Second))
	if !tr.LandedBlocked() {
		t.Fatal("Expected blocked track")
	}

	t.Run("BetweenThresholdsPassesButStaysBlocked", func(t *testing.T) {
		if got := s.Evaluate(tr, f64(1200), now.Add(200*time.Second)); got != LandedPass {
			t.Errorf("Expected report between thresholds to pass, got %v", got)
		}
		if !tr.LandedBlocked() {
			t.Error("Expected block to survive report between thresholds")
		}
	})

	t.Run("AboveClearUnblocks", func(t *testing.T) {
		if got := s.Evaluate(tr, f64(1600), now.Add(210*time.Second)); got != LandedPass {
			t.Errorf("Expected climb above clear altitude to pass, got %v", got)
		}
		if tr.LandedBlocked() {
			t.Error("Expected block cleared above the clear altitude")
		}
	})
}

func TestLandedSuppressorNilAltitude(t *testing.T) {
	s := testSuppressor()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("DoesNotStartDwell", func(t *testing.T) {
		tr := newTrack("DAL123   ", "ABC123", now)
		if got := s.Evaluate(tr, nil, now); got != LandedPass {
			t.Errorf("Expected report without altitude to pass, got %v", got)
		}
		if !tr.LowAltSince.IsZero() {
			t.Error("Expected no dwell from a report without altitude")
		}
	})

	t.Run("ClearsBlock", func(t *testing.T) {
		tr := newTrack("DAL123   ", "ABC123", now)
		s.Evaluate(tr, f64(600), now)
		s.Evaluate(tr, f64(600), now.Add(181*time.Second))
		if got := s.Evaluate(tr, nil, now.Add(200*time.Second)); got != LandedPass {
			t.Errorf("Expected report without altitude to pass, got %v", got)
		}
		if tr.LandedBlocked() {
			t.Error("Expected missing altitude to count as clear")
		}
	})
}
