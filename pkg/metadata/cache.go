// Package metadata maintains an eventually-consistent cache of
// aircraft metadata (emitter category, type designator, flight number)
// polled from a dump1090 JSON endpoint.
package metadata

import "strings"

// Entry holds the metadata known for one airframe. Every field is
// optional: an aircraft may never report a category or flight number,
// and the side channel may simply not know it yet. Use the accessor
// methods rather than comparing fields against "".
type Entry struct {
	category string
	acType   string
	flight   string
}

// Category returns the ADS-B emitter category (e.g. "A7") if known.
func (e Entry) Category() (string, bool) {
	return e.category, e.category != ""
}

// Type returns the free-text type designator (e.g. "B738") if known.
func (e Entry) Type() (string, bool) {
	return e.acType, e.acType != ""
}

// Flight returns the flight number / callsign if known.
func (e Entry) Flight() (string, bool) {
	return e.flight, e.flight != ""
}

// Cache maps ICAO hex addresses to their last known metadata.
//
// The cache is written only by the poller and read only by the
// lifecycle engine, both on the same loop, so no locking is needed.
// Entries survive fetch failures: stale metadata beats none.
type Cache struct {
	entries map[string]Entry
}

// NewCache creates an empty metadata cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Lookup returns the metadata for a hex address. The zero Entry is
// returned when nothing is known, so callers can use the accessors
// unconditionally.
func (c *Cache) Lookup(hex string) Entry {
	return c.entries[strings.ToUpper(hex)]
}

// Len returns the number of airframes with cached metadata.
func (c *Cache) Len() int {
	return len(c.entries)
}

// merge folds newly fetched values into an airframe's entry.
// Absent fields never clear previously cached values.
func (c *Cache) merge(hex, category, acType, flight string) {
	hex = strings.ToUpper(strings.TrimSpace(hex))
	if hex == "" {
		return
	}
	e := c.entries[hex]
	if v := strings.TrimSpace(category); v != "" {
		e.category = v
	}
	if v := strings.TrimSpace(acType); v != "" {
		e.acType = v
	}
	if v := strings.TrimSpace(flight); v != "" {
		e.flight = v
	}
	c.entries[hex] = e
}
