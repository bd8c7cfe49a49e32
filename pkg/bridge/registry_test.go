package bridge

import (
	"testing"
	"time"
)

func TestNameRegistryBind(t *testing.T) {
	t.Run("BindAndLookup", func(t *testing.T) {
		r := NewNameRegistry()
		if err := r.Bind("ABC123", "DAL123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		name, ok := r.NameForHex("ABC123")
		if !ok || name != "DAL123   " {
			t.Errorf("Expected name 'DAL123   ', got %q (ok=%v)", name, ok)
		}
		hex, ok := r.HexForName("DAL123   ")
		if !ok || hex != "ABC123" {
			t.Errorf("Expected hex 'ABC123', got %q (ok=%v)", hex, ok)
		}
	})

	t.Run("RejectsHexConflict", func(t *testing.T) {
		r := NewNameRegistry()
		if err := r.Bind("ABC123", "DAL123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		if err := r.Bind("ABC123", "UAL456   "); err == nil {
			t.Error("Expected error binding same hex to second name, got nil")
		}
	})

	t.Run("RejectsNameConflict", func(t *testing.T) {
		r := NewNameRegistry()
		if err := r.Bind("ABC123", "DAL123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		if err := r.Bind("DEF456", "DAL123   "); err == nil {
			t.Error("Expected error binding second hex to same name, got nil")
		}
	})

	t.Run("RebindSamePairIsIdempotent", func(t *testing.T) {
		r := NewNameRegistry()
		if err := r.Bind("ABC123", "DAL123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		if err := r.Bind("ABC123", "DAL123   "); err != nil {
			t.Errorf("Expected rebinding identical pair to succeed, got %v", err)
		}
	})

	t.Run("EmptyHexIsNoOp", func(t *testing.T) {
		r := NewNameRegistry()
		if err := r.Bind("", "DAL123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		if _, ok := r.HexForName("DAL123   "); ok {
			t.Error("Expected no mapping for name bound with empty hex")
		}
	})
}

func TestNameRegistryRename(t *testing.T) {
	t.Run("AtomicRekey", func(t *testing.T) {
		r := NewNameRegistry()
		if err := r.Bind("ABC123", "ABC123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		if err := r.Rename("ABC123", "ABC123   ", "DAL123   "); err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		if _, ok := r.HexForName("ABC123   "); ok {
			t.Error("Old name still mapped after rename")
		}
		name, ok := r.NameForHex("ABC123")
		if !ok || name != "DAL123   " {
			t.Errorf("Expected hex to map to new name, got %q (ok=%v)", name, ok)
		}
	})

	t.Run("RefusesOccupiedTarget", func(t *testing.T) {
		r := NewNameRegistry()
		if err := r.Bind("ABC123", "ABC123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		if err := r.Bind("DEF456", "DAL123   "); err != nil {
			t.Fatalf("Bind failed: %v", err)
		}
		if err := r.Rename("ABC123", "ABC123   ", "DAL123   "); err == nil {
			t.Fatal("Expected rename onto occupied name to fail")
		}
		// Both original mappings must survive intact.
		if name, _ := r.NameForHex("ABC123"); name != "ABC123   " {
			t.Errorf("Expected source mapping unchanged, got %q", name)
		}
		if name, _ := r.NameForHex("DEF456"); name != "DAL123   " {
			t.Errorf("Expected target mapping unchanged, got %q", name)
		}
	})
}

func TestNameRegistryReleaseName(t *testing.T) {
	r := NewNameRegistry()
	if err := r.Bind("ABC123", "DAL123   "); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if hex := r.ReleaseName("DAL123   "); hex != "ABC123" {
		t.Errorf("Expected ReleaseName to return 'ABC123', got %q", hex)
	}
	if _, ok := r.NameForHex("ABC123"); ok {
		t.Error("Hex still mapped after release")
	}
	if hex := r.ReleaseName("DAL123   "); hex != "" {
		t.Errorf("Expected empty hex for unknown name, got %q", hex)
	}
}

func TestTrackRegistry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("CreateAndGet", func(t *testing.T) {
		r := NewTrackRegistry()
		tr, err := r.Create("ABC123   ", "ABC123", now)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if tr.Name != "ABC123   " || tr.Hex != "ABC123" {
			t.Errorf("Unexpected track identity: %q / %q", tr.Name, tr.Hex)
		}
		if got := r.Get("ABC123   "); got != tr {
			t.Error("Get did not return the created track")
		}
		if r.Len() != 1 {
			t.Errorf("Expected 1 track, got %d", r.Len())
		}
	})

	t.Run("CreateDuplicateName", func(t *testing.T) {
		r := NewTrackRegistry()
		if _, err := r.Create("ABC123   ", "ABC123", now); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := r.Create("ABC123   ", "DEF456", now); err == nil {
			t.Error("Expected error creating duplicate name, got nil")
		}
	})

	t.Run("RenameCarriesState", func(t *testing.T) {
		r := NewTrackRegistry()
		tr, err := r.Create("ABC123   ", "ABC123", now)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		tr.LastSent = &SentSnapshot{Time: now}

		renamed, err := r.Rename("ABC123   ", "DAL123   ")
		if err != nil {
			t.Fatalf("Rename failed: %v", err)
		}
		if renamed != tr {
			t.Error("Rename returned a different track instance")
		}
		if renamed.Name != "DAL123   " {
			t.Errorf("Expected name 'DAL123   ', got %q", renamed.Name)
		}
		if renamed.LastSent == nil {
			t.Error("Last-sent snapshot lost across rename")
		}
		if r.Get("ABC123   ") != nil {
			t.Error("Track still reachable under old name")
		}
		if name, _ := r.NameForHex("ABC123"); name != "DAL123   " {
			t.Errorf("Expected hex mapping to follow rename, got %q", name)
		}
	})

	t.Run("RenameOntoLiveTrackRefused", func(t *testing.T) {
		r := NewTrackRegistry()
		if _, err := r.Create("ABC123   ", "ABC123", now); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := r.Create("DAL123   ", "DEF456", now); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if _, err := r.Rename("ABC123   ", "DAL123   "); err == nil {
			t.Fatal("Expected rename onto live track to fail")
		}
		if r.Len() != 2 {
			t.Errorf("Expected both tracks to survive, got %d", r.Len())
		}
	})

	t.Run("RemoveReleasesName", func(t *testing.T) {
		r := NewTrackRegistry()
		if _, err := r.Create("ABC123   ", "ABC123", now); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		r.Remove("ABC123   ")
		if r.Len() != 0 {
			t.Errorf("Expected empty registry, got %d tracks", r.Len())
		}
		// The hex is free for a fresh track under a different name.
		if _, err := r.Create("DAL123   ", "ABC123", now); err != nil {
			t.Errorf("Expected hex reusable after remove, got %v", err)
		}
	})
}
