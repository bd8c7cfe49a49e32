package main

import (
	"flag"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/unklstewy/adsb2aprs/pkg/config"
	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// Diagnostic tool: connects to the SBS feed and prints every position
// report it can parse. Useful for verifying the receiver before
// pointing the bridge at it.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	duration := flag.Int("duration", 30, "How long to listen, in seconds")
	raw := flag.Bool("raw", false, "Also print unparsed lines")
	flag.Parse()

	log.Println("===========================================")
	log.Println("  SBS Feed Test")
	log.Println("===========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Connecting to %s:%d for %d seconds...", cfg.SBS.Host, cfg.SBS.Port, *duration)

	feed := sbs.NewFeed(cfg.SBS.Host, cfg.SBS.Port)
	feed.Connect()
	defer feed.Close()

	deadline := time.Now().Add(time.Duration(*duration) * time.Second)
	total, parsed := 0, 0

	for time.Now().Before(deadline) {
		line, err := feed.ReadLine()
		if err != nil {
			log.Printf("Read fail (%v); reconnecting...", err)
			feed.Reconnect()
			continue
		}
		total++

		r := sbs.Parse(line)
		if r == nil {
			if *raw {
				log.Printf("  . %s", strings.TrimSpace(line))
			}
			continue
		}
		parsed++
		log.Printf("  ✓ %s callsign=%q pos=%.5f,%.5f alt=%s gs=%s trk=%s",
			r.Hex, r.Callsign, r.Latitude, r.Longitude,
			fmtOpt(r.Altitude), fmtOpt(r.GroundSpeed), fmtOpt(r.Track))
	}

	log.Println("===========================================")
	log.Printf("  %d lines received, %d position reports", total, parsed)
	log.Println("===========================================")
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
