package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// fetchTimeout bounds a single side-channel request so a stalled
// endpoint can never hold up report processing.
const fetchTimeout = 1500 * time.Millisecond

// Poller refreshes a Cache from a dump1090 aircraft JSON endpoint.
//
// MaybeRefresh is called once per main-loop iteration; it does nothing
// until the refresh interval has elapsed, so the poll is interleaved
// with report processing rather than scheduled on its own timer. A
// rate limiter backstops the interval check so the endpoint is never
// hammered even if the caller misbehaves.
type Poller struct {
	url      string
	interval time.Duration

	client  *http.Client
	limiter *rate.Limiter
	cache   *Cache

	lastPoll time.Time

	// status edge detection for logging
	ok        bool
	everFetch bool
	lastOK    time.Time
	lastPrint time.Time
}

// NewPoller creates a poller feeding the given cache.
func NewPoller(url string, interval time.Duration, cache *Cache) *Poller {
	return &Poller{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: fetchTimeout},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		cache:    cache,
	}
}

// MaybeRefresh polls the side channel when the refresh interval has
// elapsed. Failures leave the cache untouched; the bridge keeps
// classifying from stale metadata until the endpoint recovers.
func (p *Poller) MaybeRefresh(now time.Time) {
	if !p.lastPoll.IsZero() && now.Sub(p.lastPoll) < p.interval {
		return
	}
	if !p.limiter.Allow() {
		return
	}
	p.lastPoll = now

	count, err := p.fetch()
	if err != nil {
		p.logStatus(now, false, 0, err)
		return
	}
	p.lastOK = now
	p.logStatus(now, true, count, nil)
}

// fetch performs one request and merges the result into the cache.
// Returns the number of airframes merged.
func (p *Poller) fetch() (int, error) {
	resp, err := p.client.Get(p.url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch aircraft data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	list, err := decodeAircraftList(body)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, ac := range list {
		if ac.Hex == "" {
			continue
		}
		acType := ac.Type
		if acType == "" {
			acType = ac.T
		}
		flight := ac.Flight
		if flight == "" {
			flight = ac.Call
		}
		if flight == "" {
			flight = ac.FlightNumber
		}
		p.cache.merge(ac.Hex, ac.Category, acType, flight)
		count++
	}
	return count, nil
}

// aircraftJSON covers the dump1090 field variants seen in the wild.
type aircraftJSON struct {
	Hex          string `json:"hex"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	T            string `json:"t"`
	Flight       string `json:"flight"`
	Call         string `json:"call"`
	FlightNumber string `json:"flightnumber"`
}

// decodeAircraftList accepts both the {"aircraft":[...]} document and
// a bare top-level list.
func decodeAircraftList(body []byte) ([]aircraftJSON, error) {
	var doc struct {
		Aircraft []aircraftJSON `json:"aircraft"`
	}
	if err := json.Unmarshal(body, &doc); err == nil && doc.Aircraft != nil {
		return doc.Aircraft, nil
	}

	var list []aircraftJSON
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	return nil, fmt.Errorf("unrecognized aircraft JSON format")
}

// logStatus prints on OK/FAIL transitions plus a once-a-minute
// heartbeat, so a flapping endpoint doesn't flood the log.
func (p *Poller) logStatus(now time.Time, ok bool, count int, err error) {
	changed := !p.everFetch || ok != p.ok
	p.everFetch = true
	p.ok = ok

	if !changed && now.Sub(p.lastPrint) <= time.Minute {
		return
	}
	p.lastPrint = now

	if ok {
		log.Printf("[JSON] OK  source=%s count=%d last_ok=%ds",
			p.url, count, int(now.Sub(p.lastOK).Seconds()))
	} else {
		log.Printf("[JSON] FAIL (%v)  url=%s", err, p.url)
	}
}
