package aprs

import "strings"

// The four symbols the bridge distinguishes.
var (
	SymbolPlane   = Symbol{Table: '/', Code: '^', Tag: "PLANE"}
	SymbolHeli    = Symbol{Table: '/', Code: 'X', Tag: "HELI"}
	SymbolBalloon = Symbol{Table: '/', Code: 'O', Tag: "BALLOON"}
	SymbolGlider  = Symbol{Table: '/', Code: 'g', Tag: "GLIDER"}
)

// heliPrefixes and gliderPrefixes match common type designators when no
// emitter category is available.
var (
	heliPrefixes   = []string{"EC", "UH", "AH", "CH", "MH", "R22", "R44", "BELL", "BK"}
	gliderPrefixes = []string{"DG", "ASW", "ASK", "LS", "G1", "G2", "G3"}
)

// SymbolForAircraft classifies an aircraft into a display symbol.
//
// The ADS-B emitter category takes priority when present: A7 is
// rotorcraft, B2 lighter-than-air, B1/B4 glider/ultralight, anything
// else fixed-wing. Without a category the free-text type designator is
// matched against known helicopter, glider and balloon families.
// Fixed-wing is the default when neither source says otherwise, so
// classification degrades safely when metadata is missing.
func SymbolForAircraft(category, acType string) Symbol {
	if cat := strings.ToUpper(strings.TrimSpace(category)); cat != "" {
		switch cat {
		case "A7": // rotorcraft
			return SymbolHeli
		case "B2": // lighter-than-air
			return SymbolBalloon
		case "B1", "B4": // glider/ultralight
			return SymbolGlider
		}
		return SymbolPlane
	}

	t := strings.ToUpper(acType)
	if t != "" {
		if strings.HasPrefix(t, "H") || strings.Contains(t, "HELI") || hasAnyPrefix(t, heliPrefixes) {
			return SymbolHeli
		}
		if strings.Contains(t, "GLID") || hasAnyPrefix(t, gliderPrefixes) {
			return SymbolGlider
		}
		if strings.Contains(t, "BAL") || strings.Contains(t, "BLN") || strings.Contains(t, "HAB") {
			return SymbolBalloon
		}
	}
	return SymbolPlane
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
