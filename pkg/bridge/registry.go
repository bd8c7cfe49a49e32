package bridge

import (
	"fmt"
	"time"
)

// NameRegistry maintains the bidirectional hex↔name mapping.
//
// The invariant: at any instant each hex maps to at most one name and
// each name to at most one hex. All mutation goes through Bind, Rename
// and ReleaseName, which preserve it; callers never touch the maps.
type NameRegistry struct {
	hexToName map[string]string
	nameToHex map[string]string
}

// NewNameRegistry creates an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		hexToName: make(map[string]string),
		nameToHex: make(map[string]string),
	}
}

// NameForHex returns the name currently bound to a hex.
func (r *NameRegistry) NameForHex(hex string) (string, bool) {
	name, ok := r.hexToName[hex]
	return name, ok
}

// HexForName returns the hex currently bound to a name.
func (r *NameRegistry) HexForName(name string) (string, bool) {
	hex, ok := r.nameToHex[name]
	return hex, ok
}

// Bind installs a fresh hex↔name pair. Binding an empty hex is a
// no-op: tracks without a resolved transponder address are keyed by
// name only.
func (r *NameRegistry) Bind(hex, name string) error {
	if hex == "" {
		return nil
	}
	if existing, ok := r.hexToName[hex]; ok && existing != name {
		return fmt.Errorf("hex %s already bound to %q", hex, existing)
	}
	if existing, ok := r.nameToHex[name]; ok && existing != hex {
		return fmt.Errorf("name %q already bound to hex %s", name, existing)
	}
	r.hexToName[hex] = name
	r.nameToHex[name] = hex
	return nil
}

// Rename re-keys hex from oldName to newName as a single step: the old
// mapping is removed and the new one installed together, never leaving
// both or neither present.
func (r *NameRegistry) Rename(hex, oldName, newName string) error {
	if current, ok := r.hexToName[hex]; !ok || current != oldName {
		return fmt.Errorf("hex %s is not bound to %q", hex, oldName)
	}
	if existing, ok := r.nameToHex[newName]; ok && existing != hex {
		return fmt.Errorf("name %q already bound to hex %s", newName, existing)
	}
	delete(r.nameToHex, oldName)
	r.hexToName[hex] = newName
	r.nameToHex[newName] = hex
	return nil
}

// ReleaseName drops the mapping for a name, returning the hex that was
// bound to it ("" if none).
func (r *NameRegistry) ReleaseName(name string) string {
	hex, ok := r.nameToHex[name]
	if !ok {
		return ""
	}
	delete(r.nameToHex, name)
	delete(r.hexToName, hex)
	return hex
}

// TrackRegistry owns all per-track mutable state, keyed by object
// name, together with the NameRegistry. Every lifecycle mutation
// (create, rename, remove) goes through it so the two stay consistent.
type TrackRegistry struct {
	tracks map[string]*Track
	names  *NameRegistry
}

// NewTrackRegistry creates an empty registry.
func NewTrackRegistry() *TrackRegistry {
	return &TrackRegistry{
		tracks: make(map[string]*Track),
		names:  NewNameRegistry(),
	}
}

// Get returns the track for a name, nil if not tracked.
func (r *TrackRegistry) Get(name string) *Track {
	return r.tracks[name]
}

// NameForHex returns the name currently tracking a hex.
func (r *TrackRegistry) NameForHex(hex string) (string, bool) {
	return r.names.NameForHex(hex)
}

// Create registers a new track and binds its hex. The caller must have
// checked that neither the name nor the hex is already tracked.
func (r *TrackRegistry) Create(name, hex string, now time.Time) (*Track, error) {
	if _, exists := r.tracks[name]; exists {
		return nil, fmt.Errorf("track %q already exists", name)
	}
	if err := r.names.Bind(hex, name); err != nil {
		return nil, err
	}
	t := newTrack(name, hex, now)
	r.tracks[name] = t
	return t, nil
}

// Rename re-keys a track to a new name, carrying all of its state, in
// particular the last-sent snapshot, so the update policy's distance
// and time baseline survives the identity upgrade.
func (r *TrackRegistry) Rename(oldName, newName string) (*Track, error) {
	t, ok := r.tracks[oldName]
	if !ok {
		return nil, fmt.Errorf("track %q does not exist", oldName)
	}
	if _, taken := r.tracks[newName]; taken {
		return nil, fmt.Errorf("track %q already exists", newName)
	}
	if t.Hex != "" {
		if err := r.names.Rename(t.Hex, oldName, newName); err != nil {
			return nil, err
		}
	}
	delete(r.tracks, oldName)
	t.Name = newName
	r.tracks[newName] = t
	return t, nil
}

// Remove drops a track and its name mapping entirely, including any
// landed-suppression state.
func (r *TrackRegistry) Remove(name string) {
	delete(r.tracks, name)
	r.names.ReleaseName(name)
}

// All returns every active track. The slice is a copy; removing tracks
// while iterating it is safe.
func (r *TrackRegistry) All() []*Track {
	out := make([]*Track, 0, len(r.tracks))
	for _, t := range r.tracks {
		out = append(out, t)
	}
	return out
}

// Len returns the number of active tracks.
func (r *TrackRegistry) Len() int {
	return len(r.tracks)
}
