package main

import (
	"context"
	"log"
	"time"

	"github.com/unklstewy/adsb2aprs/internal/db"
	"github.com/unklstewy/adsb2aprs/pkg/aprs"
	"github.com/unklstewy/adsb2aprs/pkg/sbs"
)

// loggingEmitter wraps the APRS-IS uplink and records every packet
// that actually went out in the database. The log is best-effort: a
// database hiccup never blocks or fails a send.
type loggingEmitter struct {
	next *aprs.Client
	repo *db.PacketRepository
	db   *db.DB
}

func (e *loggingEmitter) SendObject(name string, r sbs.PositionReport, sym aprs.Symbol, flight, hex string) error {
	if err := e.next.SendObject(name, r, sym, flight, hex); err != nil {
		return err
	}
	e.record(db.PacketRecord{
		ObjectName:     name,
		Hex:            hex,
		Callsign:       flight,
		Kind:           db.PacketKindObject,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		AltitudeFt:     r.Altitude,
		GroundSpeedKts: r.GroundSpeed,
		TrackDeg:       r.Track,
		SentAt:         time.Now(),
	})
	return nil
}

func (e *loggingEmitter) SendDelete(name string, lat, lon float64, sym aprs.Symbol) error {
	if err := e.next.SendDelete(name, lat, lon, sym); err != nil {
		return err
	}
	e.record(db.PacketRecord{
		ObjectName: name,
		Kind:       db.PacketKindDelete,
		Latitude:   lat,
		Longitude:  lon,
		SentAt:     time.Now(),
	})
	return nil
}

func (e *loggingEmitter) record(p db.PacketRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := db.WithRetry(func() error {
		return e.repo.Insert(ctx, p)
	}, 1)
	if err != nil {
		log.Printf("[DB] Packet log insert failed: %v", err)
	}
}
