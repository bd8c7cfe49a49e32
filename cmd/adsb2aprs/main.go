package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unklstewy/adsb2aprs/internal/db"
	"github.com/unklstewy/adsb2aprs/pkg/aprs"
	"github.com/unklstewy/adsb2aprs/pkg/bridge"
	"github.com/unklstewy/adsb2aprs/pkg/config"
	"github.com/unklstewy/adsb2aprs/pkg/metadata"
	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// Packet log retention. Old packets are only useful for recent-history
// debugging; a day covers every "what did it send last night" question.
const (
	packetRetention = 24 * time.Hour
	cleanupInterval = 5 * time.Minute
)

// The bridge daemon: reads SBS position reports from a dump1090
// receiver, runs each one through the track lifecycle engine, and
// uplinks APRS object packets. One goroutine reads the feed; the main
// loop owns all track state.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	flag.Parse()

	log.Println("===========================================")
	log.Println("  ADS-B to APRS-IS Bridge")
	log.Println("===========================================")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Configuration loaded from: %s", *configPath)
	log.Printf("SBS feed: %s:%d", cfg.SBS.Host, cfg.SBS.Port)
	log.Printf("APRS-IS: %s:%d as %s (filter %q)",
		cfg.APRSIS.Host, cfg.APRSIS.Port, cfg.APRSIS.Callsign, cfg.APRSIS.Filter)
	log.Printf("Coverage: %.0fmi add / %.0fmi clear around %.4f, %.4f",
		cfg.Bridge.AddDistanceMiles, cfg.Bridge.ClearDistanceMiles,
		cfg.Bridge.ReferenceLatitude, cfg.Bridge.ReferenceLongitude)
	log.Printf("Rates: %d pkt/s ceiling, %ds min update, %.2fmi min move, %ds TTL",
		cfg.Bridge.MaxPacketsPerSecond, cfg.Bridge.MinUpdateSeconds,
		cfg.Bridge.MinMoveMiles, cfg.Bridge.ObjectTTLSeconds)

	// Metadata side channel
	cache := metadata.NewCache()
	poller := metadata.NewPoller(cfg.Metadata.URL, time.Duration(cfg.Metadata.RefreshSeconds)*time.Second, cache)
	log.Printf("Metadata source: %s (every %ds)", cfg.Metadata.URL, cfg.Metadata.RefreshSeconds)

	// APRS-IS uplink
	client := aprs.NewClient(cfg.APRSIS.Host, cfg.APRSIS.Port,
		cfg.APRSIS.Callsign, cfg.APRSIS.Passcode, cfg.APRSIS.Filter, cfg.APRSIS.AppendSymbolTag)
	client.Connect()
	defer client.Close()

	var emitter bridge.PacketEmitter = client

	// Optional packet log
	if cfg.Database.Enabled {
		log.Println("Connecting to packet log database...")
		database, err := db.ReconnectWithRetry(cfg.Database, 5, time.Second)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		ctx := context.Background()
		if err := database.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("✓ Packet log ready")

		emitter = &loggingEmitter{
			next: client,
			repo: db.NewPacketRepository(database),
			db:   database,
		}

		// Retention sweep, so the log doesn't grow without bound.
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := database.CleanupOldData(ctx, packetRetention); err != nil {
					log.Printf("[DB] Cleanup failed: %v", err)
				} else {
					log.Println("[DB] ✓ Cleanup completed")
				}
				cancel()
			}
		}()
	}

	// Optional Prometheus endpoint
	var metrics *bridge.Metrics
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		metrics = bridge.NewMetrics(registry)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			log.Printf("Metrics listening on %s", cfg.Metrics.Listen)
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				log.Printf("Metrics listener failed: %v", err)
			}
		}()
	}

	engine := bridge.NewEngine(cfg.Bridge, cache, emitter, metrics)

	// SBS feed, read by a dedicated goroutine so the main loop can keep
	// sweeping during quiet air.
	feed := sbs.NewFeed(cfg.SBS.Host, cfg.SBS.Port)
	feed.Connect()
	defer feed.Close()

	lines := make(chan string, 64)
	go func() {
		for {
			line, err := feed.ReadLine()
			if err != nil {
				log.Printf("[SBS] Read fail (%v); reconnecting...", err)
				feed.Reconnect()
				continue
			}
			lines <- line
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	log.Println("===========================================")
	log.Println("  Bridge running. Press Ctrl+C to stop")
	log.Println("===========================================")

	lastSweep := time.Now()
	for {
		select {
		case sig := <-sigChan:
			log.Printf("Received signal: %v", sig)
			log.Println("✓ Bridge stopped")
			return

		case line := <-lines:
			now := time.Now()
			poller.MaybeRefresh(now)
			if r := sbs.Parse(line); r != nil {
				engine.ProcessReport(*r, now)
			}
			if now.Sub(lastSweep) >= time.Second {
				engine.Sweep(now)
				lastSweep = now
			}

		case now := <-ticker.C:
			poller.MaybeRefresh(now)
			engine.Sweep(now)
			lastSweep = now
		}
	}
}
