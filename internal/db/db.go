package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/unklstewy/adsb2aprs/pkg/config"
)

//go:embed schema.sql
var schemaSQL embed.FS

// DB wraps the packet-log database connection.
type DB struct {
	*sql.DB
	config config.DatabaseConfig
}

// Connect establishes a connection to the PostgreSQL database.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     sqlDB,
		config: cfg,
	}, nil
}

// InitSchema creates or updates the database schema.
// This should be called once at application startup.
func (db *DB) InitSchema(ctx context.Context) error {
	schemaBytes, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// CleanupOldData trims the packet log to the retention window.
// Should be called periodically to prevent unbounded growth.
func (db *DB) CleanupOldData(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)

	if _, err := db.ExecContext(ctx,
		`DELETE FROM packets WHERE sent_at < $1`,
		cutoff,
	); err != nil {
		return fmt.Errorf("failed to delete old packets: %w", err)
	}

	return nil
}

// GetStats returns packet-log statistics.
func (db *DB) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM packets`,
	).Scan(&total)
	if err != nil {
		return nil, err
	}
	stats["packets_total"] = total

	var objects int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM packets WHERE kind = 'object'`,
	).Scan(&objects)
	if err != nil {
		return nil, err
	}
	stats["packets_objects"] = objects

	var deletes int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM packets WHERE kind = 'delete'`,
	).Scan(&deletes)
	if err != nil {
		return nil, err
	}
	stats["packets_deletes"] = deletes

	var aircraft int64
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT hex) FROM packets WHERE hex <> ''`,
	).Scan(&aircraft)
	if err != nil {
		return nil, err
	}
	stats["distinct_aircraft"] = aircraft

	return stats, nil
}
