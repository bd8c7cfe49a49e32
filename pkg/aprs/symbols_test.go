package aprs

import "testing"

// TestSymbolForAircraft tests category and type classification.
func TestSymbolForAircraft(t *testing.T) {
	t.Run("Category takes priority", func(t *testing.T) {
		cases := []struct {
			category string
			want     Symbol
		}{
			{"A7", SymbolHeli},
			{"a7", SymbolHeli},
			{" B2 ", SymbolBalloon},
			{"B1", SymbolGlider},
			{"B4", SymbolGlider},
			{"A1", SymbolPlane},
			{"A3", SymbolPlane},
		}
		for _, c := range cases {
			if got := SymbolForAircraft(c.category, "GLID"); got != c.want {
				t.Errorf("Category %q: expected %s, got %s", c.category, c.want.Tag, got.Tag)
			}
		}
	})

	t.Run("Type heuristics without category", func(t *testing.T) {
		cases := []struct {
			acType string
			want   Symbol
		}{
			{"H60", SymbolHeli},
			{"R44", SymbolHeli},
			{"BELL 407", SymbolHeli},
			{"EC35", SymbolHeli},
			{"AS350 HELICOPTER", SymbolHeli}, // "HELI" substring
			{"ASW20", SymbolGlider},
			{"DG800", SymbolGlider},
			{"SZD GLIDER", SymbolGlider},
			// "HAB" starts with H, and the helicopter prefix check
			// runs before the balloon substrings.
			{"HAB", SymbolHeli},
			{"W-HAB1", SymbolBalloon},
			{"BALLOON", SymbolBalloon},
			{"B738", SymbolPlane},
			{"C172", SymbolPlane},
		}
		for _, c := range cases {
			if got := SymbolForAircraft("", c.acType); got != c.want {
				t.Errorf("Type %q: expected %s, got %s", c.acType, c.want.Tag, got.Tag)
			}
		}
	})

	t.Run("Nothing known defaults to fixed-wing", func(t *testing.T) {
		if got := SymbolForAircraft("", ""); got != SymbolPlane {
			t.Errorf("Expected PLANE default, got %s", got.Tag)
		}
	})
}
