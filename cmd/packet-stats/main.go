package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/unklstewy/adsb2aprs/internal/db"
	"github.com/unklstewy/adsb2aprs/pkg/config"
)

// Diagnostic tool: summarizes the packet log and prints the most
// recent transmissions. Requires the database to be enabled in the
// bridge configuration.
func main() {
	configPath := flag.String("config", "configs/config.json", "Path to configuration file")
	hex := flag.String("hex", "", "Show packets for one ICAO hex address only")
	limit := flag.Int("limit", 20, "How many recent packets to print")
	flag.Parse()

	log.Println("===========================================")
	log.Println("  APRS Packet Log Stats")
	log.Println("===========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.Database.Enabled {
		log.Fatal("Database is disabled in the configuration; nothing to report")
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("✓ Database connected")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := database.GetStats(ctx)
	if err != nil {
		log.Fatalf("Failed to get stats: %v", err)
	}
	log.Printf("📊 %v packets total (%v objects, %v deletes) across %v aircraft",
		stats["packets_total"],
		stats["packets_objects"],
		stats["packets_deletes"],
		stats["distinct_aircraft"],
	)

	repo := db.NewPacketRepository(database)

	var packets []db.PacketRecord
	if *hex != "" {
		log.Printf("\nRecent packets for %s:", *hex)
		packets, err = repo.RecentForAircraft(ctx, *hex, *limit)
	} else {
		log.Println("\nRecent packets:")
		packets, err = repo.Recent(ctx, *limit)
	}
	if err != nil {
		log.Fatalf("Failed to query packets: %v", err)
	}

	if len(packets) == 0 {
		log.Println("  (none)")
		return
	}
	for _, p := range packets {
		kind := p.Kind
		if p.Reason != "" {
			kind += "/" + p.Reason
		}
		log.Printf("  %s  %-9s %-6s %-8s %.5f,%.5f",
			p.SentAt.Local().Format("15:04:05"),
			p.ObjectName, p.Hex, kind, p.Latitude, p.Longitude)
	}
}
