package aprs

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// Client is a fire-and-forget APRS-IS uplink.
//
// Connect blocks until a connection is up, retrying with a fixed
// delay. A failed send closes the connection and reconnects; the
// in-flight packet is not retried; the next eligible report for that
// track will produce a fresh one.
type Client struct {
	addr     string
	callsign string
	passcode int
	filter   string

	// appendSymTag controls the SYM annotation on outbound objects
	appendSymTag bool

	retryDelay time.Duration
	conn       net.Conn
}

// NewClient creates an APRS-IS client. callsign and passcode are the
// APRS-IS login credentials; filter is the server-side filter
// expression (e.g. "m/500").
func NewClient(host string, port int, callsign string, passcode int, filter string, appendSymTag bool) *Client {
	return &Client{
		addr:         fmt.Sprintf("%s:%d", host, port),
		callsign:     callsign,
		passcode:     passcode,
		filter:       filter,
		appendSymTag: appendSymTag,
		retryDelay:   3 * time.Second,
	}
}

// Connect dials the APRS-IS server and sends the login line, retrying
// until it succeeds.
func (c *Client) Connect() {
	for {
		conn, err := net.Dial("tcp", c.addr)
		if err == nil {
			login := fmt.Sprintf("user %s pass %d vers ADSB2APRS %s filter %s\n",
				c.callsign, c.passcode, Version, c.filter)
			if _, err = conn.Write([]byte(login)); err == nil {
				c.conn = conn
				log.Printf("[APRS] Connected as %s (v%s)", c.callsign, Version)
				return
			}
			conn.Close()
		}
		log.Printf("[APRS] Connect fail (%v); retry %v", err, c.retryDelay)
		time.Sleep(c.retryDelay)
	}
}

// SendObject transmits a position update for a named object.
func (c *Client) SendObject(name string, r sbs.PositionReport, sym Symbol, flight, hex string) error {
	return c.send(FormatObject(Object{
		Name:        name,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Symbol:      sym,
		Track:       r.Track,
		GroundSpeed: r.GroundSpeed,
		Altitude:    r.Altitude,
		Callsign:    flight,
		Hex:         hex,
	}, time.Now(), c.appendSymTag))
}

// SendDelete transmits a deletion for a named object at its last
// known position.
func (c *Client) SendDelete(name string, lat, lon float64, sym Symbol) error {
	return c.send(FormatObject(Object{
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		Symbol:    sym,
		Delete:    true,
	}, time.Now(), c.appendSymTag))
}

// send frames and writes one packet. A write failure is treated as a
// dead connection: reconnect, drop the packet, report the error.
func (c *Client) send(body string) error {
	if c.conn == nil {
		return fmt.Errorf("aprs not connected")
	}
	if _, err := c.conn.Write([]byte(Frame(c.callsign, body))); err != nil {
		log.Printf("[APRS] Send fail (%v); reconnecting...", err)
		c.Close()
		c.Connect()
		return fmt.Errorf("aprs send: %w", err)
	}
	return nil
}

// Close shuts down the connection. Safe to call when not connected.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
