package aprs

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// startServer runs a one-connection APRS-IS stand-in and returns its
// port plus a channel of received lines.
func startServer(t *testing.T) (int, <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	lines := make(chan string, 16)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, lines
}

func recvLine(t *testing.T, lines <-chan string) string {
	t.Helper()
	select {
	case line := <-lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for line")
		return ""
	}
}

// TestClientLogin tests the APRS-IS login exchange.
func TestClientLogin(t *testing.T) {
	port, lines := startServer(t)

	client := NewClient("127.0.0.1", port, "N2UGS-10", -1, "m/500", true)
	client.Connect()
	defer client.Close()

	login := recvLine(t, lines)
	want := "user N2UGS-10 pass -1 vers ADSB2APRS " + Version + " filter m/500"
	if login != want {
		t.Errorf("Expected login %q, got %q", want, login)
	}
}

// TestClientSendObject tests framing of an outbound object packet.
func TestClientSendObject(t *testing.T) {
	port, lines := startServer(t)

	client := NewClient("127.0.0.1", port, "N2UGS-10", -1, "m/500", true)
	client.Connect()
	defer client.Close()

	recvLine(t, lines) // login

	alt := 35000.0
	report := sbs.PositionReport{
		Hex:       "A12345",
		Latitude:  42.9405,
		Longitude: -78.7322,
		Altitude:  &alt,
	}
	if err := client.SendObject("DAL123   ", report, SymbolPlane, "DAL123", "A12345"); err != nil {
		t.Fatalf("SendObject failed: %v", err)
	}

	pkt := recvLine(t, lines)
	if !strings.HasPrefix(pkt, "N2UGS-10>APRS,TCPIP*:;DAL123   *") {
		t.Errorf("Expected framed object packet, got %q", pkt)
	}
	if !strings.Contains(pkt, "ALT 35000ft") || !strings.Contains(pkt, "ICAO A12345") {
		t.Errorf("Expected annotations in packet, got %q", pkt)
	}
}

// TestClientSendDelete tests the deletion variant.
func TestClientSendDelete(t *testing.T) {
	port, lines := startServer(t)

	client := NewClient("127.0.0.1", port, "N2UGS-10", -1, "m/500", false)
	client.Connect()
	defer client.Close()

	recvLine(t, lines) // login

	if err := client.SendDelete("A12345   ", 42.0, -78.0, SymbolPlane); err != nil {
		t.Fatalf("SendDelete failed: %v", err)
	}

	pkt := recvLine(t, lines)
	if !strings.HasSuffix(pkt, "DEL") {
		t.Errorf("Expected DEL marker, got %q", pkt)
	}
}

// TestClientSendNotConnected tests the disconnected error path.
func TestClientSendNotConnected(t *testing.T) {
	client := NewClient("127.0.0.1", 1, "N2UGS-10", -1, "m/500", false)
	if err := client.SendDelete("A12345   ", 0, 0, SymbolPlane); err == nil {
		t.Error("Expected error when not connected")
	}
}
