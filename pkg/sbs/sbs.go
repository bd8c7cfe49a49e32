// Package sbs reads and parses the BaseStation (SBS-1) CSV protocol
// emitted by dump1090 and compatible receivers on port 30003.
package sbs

import (
	"strconv"
	"strings"
)

// PositionReport is a single position-carrying SBS record.
//
// Only MSG subtypes 3 (airborne position) and 4 (airborne velocity,
// which some feeds decorate with position) are parsed; everything else
// is irrelevant to the bridge. Latitude and longitude are mandatory.
// The remaining kinematic fields are optional: a nil pointer means the
// field was absent from the record, which is distinct from zero.
type PositionReport struct {
	// Hex is the ICAO 24-bit transponder address, uppercased (e.g. "A12345")
	Hex string

	// Callsign is the flight identification, empty if not broadcast
	Callsign string

	// Latitude in decimal degrees
	Latitude float64

	// Longitude in decimal degrees
	Longitude float64

	// Altitude in feet MSL, nil if absent
	Altitude *float64

	// GroundSpeed in knots, nil if absent
	GroundSpeed *float64

	// Track is the ground track in degrees (0-359), nil if absent
	Track *float64
}

// SBS-1 field indices within a MSG record.
const (
	fieldMessageType = 0
	fieldSubtype     = 1
	fieldHex         = 4
	fieldCallsign    = 10
	fieldAltitude    = 11
	fieldGroundSpeed = 12
	fieldTrack       = 13
	fieldLatitude    = 14
	fieldLongitude   = 15

	minFields = 22
)

// Parse decodes one SBS line into a PositionReport.
//
// Returns nil for anything that is not a well-formed position record:
// non-MSG lines, subtypes other than 3/4, short lines, and records
// missing latitude or longitude. Malformed input is dropped silently;
// it carries no state the bridge cares about.
func Parse(line string) *PositionReport {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < minFields || fields[fieldMessageType] != "MSG" {
		return nil
	}

	subtype, err := strconv.Atoi(fields[fieldSubtype])
	if err != nil || (subtype != 3 && subtype != 4) {
		return nil
	}

	lat := parseFloat(fields[fieldLatitude])
	lon := parseFloat(fields[fieldLongitude])
	if lat == nil || lon == nil {
		return nil
	}

	return &PositionReport{
		Hex:         strings.ToUpper(strings.TrimSpace(fields[fieldHex])),
		Callsign:    strings.TrimSpace(fields[fieldCallsign]),
		Latitude:    *lat,
		Longitude:   *lon,
		Altitude:    parseFloat(fields[fieldAltitude]),
		GroundSpeed: parseFloat(fields[fieldGroundSpeed]),
		Track:       parseFloat(fields[fieldTrack]),
	}
}

// parseFloat decodes an optional numeric field.
// Empty or unparseable fields are absent, not zero.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
