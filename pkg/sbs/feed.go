package sbs

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"time"
)

// Feed is a line-oriented TCP client for an SBS (port 30003) stream.
//
// Connect blocks until a connection is established, retrying with a
// fixed delay; the receiver may simply not be up yet, and the bridge
// has nothing useful to do without it. Track state held elsewhere is
// unaffected by feed outages.
type Feed struct {
	addr string

	// retryDelay is the fixed wait between connection attempts
	retryDelay time.Duration

	conn   net.Conn
	reader *bufio.Reader
}

// NewFeed creates a feed client for the given receiver address.
func NewFeed(host string, port int) *Feed {
	return &Feed{
		addr:       fmt.Sprintf("%s:%d", host, port),
		retryDelay: 3 * time.Second,
	}
}

// Connect dials the receiver, retrying until it succeeds.
func (f *Feed) Connect() {
	for {
		conn, err := net.Dial("tcp", f.addr)
		if err == nil {
			f.conn = conn
			f.reader = bufio.NewReader(conn)
			log.Printf("[SBS] Connected to %s", f.addr)
			return
		}
		log.Printf("[SBS] Connect fail (%v); retry %v", err, f.retryDelay)
		time.Sleep(f.retryDelay)
	}
}

// ReadLine blocks until the next line arrives on the feed.
// An error indicates the connection is gone; the caller should call
// Reconnect and carry on.
func (f *Feed) ReadLine() (string, error) {
	if f.reader == nil {
		return "", fmt.Errorf("feed not connected")
	}
	line, err := f.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("feed read: %w", err)
	}
	return line, nil
}

// Reconnect tears down the current connection and dials again,
// blocking until a new connection is up.
func (f *Feed) Reconnect() {
	f.Close()
	f.Connect()
}

// Close shuts down the connection. Safe to call when not connected.
func (f *Feed) Close() {
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
		f.reader = nil
	}
}
