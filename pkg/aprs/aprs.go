// Package aprs formats APRS object packets and maintains the
// connection to an APRS-IS server.
package aprs

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Version is reported in the APRS-IS login line.
const Version = "1.0"

// Symbol identifies a map icon: the symbol table, the code within it,
// and a human-readable tag appended to the object comment.
type Symbol struct {
	Table byte
	Code  byte
	Tag   string
}

// Object carries every field of an outbound APRS object packet.
// The lifecycle engine supplies all values; this package only renders
// them onto the wire.
type Object struct {
	// Name is the 9-character padded object name
	Name string

	// Latitude in decimal degrees
	Latitude float64

	// Longitude in decimal degrees
	Longitude float64

	Symbol Symbol

	// Track in degrees, nil if unknown
	Track *float64

	// GroundSpeed in knots, nil if unknown
	GroundSpeed *float64

	// Altitude in feet, nil if unknown
	Altitude *float64

	// Callsign is the flight identification for the FLT annotation
	Callsign string

	// Hex is the ICAO address for the ICAO annotation
	Hex string

	// Delete marks the packet as an object deletion
	Delete bool
}

var nameCleaner = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizeCallsign uppercases a callsign and strips everything outside
// A-Z0-9. Returns "" when nothing useful remains.
func NormalizeCallsign(callsign string) string {
	return nameCleaner.ReplaceAllString(strings.ToUpper(callsign), "")
}

// ObjectName derives the display name for an aircraft: the normalized
// callsign when one is known, otherwise the ICAO hex, otherwise a
// generic placeholder. APRS object names are exactly 9 characters, so
// the result is truncated and right-padded with spaces.
func ObjectName(callsign, hex string) string {
	name := NormalizeCallsign(callsign)
	if name == "" {
		name = hex
	}
	if name == "" {
		name = "AIRCRAFT"
	}
	if len(name) > 9 {
		name = name[:9]
	}
	return name + strings.Repeat(" ", 9-len(name))
}

// FormatObject renders an object packet body.
//
// The layout is ";NAME*HHMMSSzDDMM.mmN/DDDMM.mmW^comment" where the
// two symbol bytes straddle the longitude. appendSymTag controls the
// SYM annotation in the comment.
func FormatObject(o Object, at time.Time, appendSymTag bool) string {
	ts := at.UTC().Format("150405") + "z"

	var parts []string
	if o.Track != nil {
		parts = append(parts, fmt.Sprintf("TRK %03d", int(*o.Track)%360))
	}
	if o.GroundSpeed != nil {
		parts = append(parts, fmt.Sprintf("GS %dkt", int(*o.GroundSpeed)))
	}
	if o.Altitude != nil {
		parts = append(parts, fmt.Sprintf("ALT %dft", int(*o.Altitude)))
	}
	if cs := NormalizeCallsign(o.Callsign); cs != "" {
		parts = append(parts, "FLT "+cs)
	}
	if o.Hex != "" {
		parts = append(parts, "ICAO "+o.Hex)
	}
	if appendSymTag && o.Symbol.Tag != "" {
		parts = append(parts, "SYM "+o.Symbol.Tag)
	}
	if o.Delete {
		parts = append(parts, "DEL")
	}

	comment := "ADS-B"
	if len(parts) > 0 {
		comment = strings.Join(parts, " ")
	}

	return fmt.Sprintf(";%s*%s%s%c%s%c%s",
		o.Name, ts,
		formatLatitude(o.Latitude), o.Symbol.Table,
		formatLongitude(o.Longitude), o.Symbol.Code,
		comment)
}

// Frame wraps a packet body in the TCPIP header used on APRS-IS.
func Frame(callsign, body string) string {
	return fmt.Sprintf("%s>APRS,TCPIP*:%s\n", callsign, body)
}

// formatLatitude renders latitude as APRS degrees-minutes: DDMM.mmH.
func formatLatitude(lat float64) string {
	hemi := "N"
	if lat < 0 {
		hemi = "S"
	}
	a := math.Abs(lat)
	d := int(a)
	m := (a - float64(d)) * 60
	return fmt.Sprintf("%02d%05.2f%s", d, m, hemi)
}

// formatLongitude renders longitude as APRS degrees-minutes: DDDMM.mmH.
func formatLongitude(lon float64) string {
	hemi := "E"
	if lon < 0 {
		hemi = "W"
	}
	a := math.Abs(lon)
	d := int(a)
	m := (a - float64(d)) * 60
	return fmt.Sprintf("%03d%05.2f%s", d, m, hemi)
}
