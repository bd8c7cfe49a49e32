package bridge

import "time"

// OutputThrottle is the global ceiling on transmitted position packets
// per wall-clock second.
//
// It is a plain counter keyed to the current second, not a token
// bucket: the requirement is "never more than N sends within any one
// second", ceiling included, and a bucket's burst carryover across the
// second boundary would violate it. Deletes are not counted; removing
// stale objects promptly matters more than smoothing their bandwidth.
type OutputThrottle struct {
	// Ceiling is the maximum sends per second
	Ceiling int

	second int64
	sent   int
}

// Allow reports whether another send fits in the current second.
// It does not consume the slot; call Count after a successful send.
func (t *OutputThrottle) Allow(now time.Time) bool {
	t.roll(now)
	return t.sent < t.Ceiling
}

// Count records a completed send.
func (t *OutputThrottle) Count(now time.Time) {
	t.roll(now)
	t.sent++
}

func (t *OutputThrottle) roll(now time.Time) {
	if s := now.Unix(); s != t.second {
		t.second = s
		t.sent = 0
	}
}
