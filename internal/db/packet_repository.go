package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Packet kinds as stored in the log.
const (
	PacketKindObject = "object"
	PacketKindDelete = "delete"
)

// PacketRecord is one transmitted APRS packet.
type PacketRecord struct {
	ID         int64
	ObjectName string
	Hex        string
	Callsign   string
	Kind       string
	Reason     string
	Latitude   float64
	Longitude  float64

	// Optional state fields, nil when the report lacked them
	AltitudeFt     *float64
	GroundSpeedKts *float64
	TrackDeg       *float64

	SentAt time.Time
}

// PacketRepository handles database operations for the packet log.
type PacketRepository struct {
	db *DB
}

// NewPacketRepository creates a new packet repository.
func NewPacketRepository(db *DB) *PacketRepository {
	return &PacketRepository{db: db}
}

// Insert records one transmitted packet. Object names are stored
// trimmed; the 9-character padding is a wire concern, not a log one.
func (r *PacketRepository) Insert(ctx context.Context, p PacketRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO packets (
			object_name, hex, callsign, kind, reason,
			latitude, longitude, altitude_ft, ground_speed_kts, track_deg,
			sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		strings.TrimSpace(p.ObjectName), p.Hex, p.Callsign, p.Kind, p.Reason,
		p.Latitude, p.Longitude, p.AltitudeFt, p.GroundSpeedKts, p.TrackDeg,
		p.SentAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert packet: %w", err)
	}
	return nil
}

// RecentForAircraft returns the latest packets for one hex, newest first.
func (r *PacketRepository) RecentForAircraft(ctx context.Context, hex string, limit int) ([]PacketRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, object_name, hex, callsign, kind, reason,
		        latitude, longitude, altitude_ft, ground_speed_kts, track_deg,
		        sent_at
		 FROM packets
		 WHERE hex = $1
		 ORDER BY sent_at DESC
		 LIMIT $2`,
		strings.ToUpper(hex), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query packets: %w", err)
	}
	defer rows.Close()

	return scanPackets(rows)
}

// Recent returns the latest packets across all aircraft, newest first.
func (r *PacketRepository) Recent(ctx context.Context, limit int) ([]PacketRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, object_name, hex, callsign, kind, reason,
		        latitude, longitude, altitude_ft, ground_speed_kts, track_deg,
		        sent_at
		 FROM packets
		 ORDER BY sent_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query packets: %w", err)
	}
	defer rows.Close()

	return scanPackets(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanPackets(rows rowScanner) ([]PacketRecord, error) {
	var out []PacketRecord
	for rows.Next() {
		var p PacketRecord
		if err := rows.Scan(
			&p.ID, &p.ObjectName, &p.Hex, &p.Callsign, &p.Kind, &p.Reason,
			&p.Latitude, &p.Longitude, &p.AltitudeFt, &p.GroundSpeedKts, &p.TrackDeg,
			&p.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan packet: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read packets: %w", err)
	}
	return out, nil
}
