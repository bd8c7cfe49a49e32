package db

import (
	"log"
	"strings"
	"time"

	"github.com/unklstewy/adsb2aprs/pkg/config"
)

// ReconnectWithRetry connects with exponential backoff, for resilience
// against the database starting after the bridge does.
// maxRetries of 0 retries forever.
func ReconnectWithRetry(cfg config.DatabaseConfig, maxRetries int, initialDelay time.Duration) (*DB, error) {
	delay := initialDelay
	attempt := 0

	for {
		attempt++

		log.Printf("[DB] Connection attempt %d...", attempt)

		database, err := Connect(cfg)
		if err == nil {
			log.Println("[DB] ✓ Connected")
			return database, nil
		}

		if maxRetries > 0 && attempt >= maxRetries {
			log.Printf("[DB] Failed to connect after %d attempts", attempt)
			return nil, err
		}

		log.Printf("[DB] Connection failed: %v (retry in %v)", err, delay)
		time.Sleep(delay)

		// Exponential backoff with cap at 60 seconds
		delay *= 2
		if delay > 60*time.Second {
			delay = 60 * time.Second
		}
	}
}

// WithRetry executes a database operation, retrying on connection
// failures only. Other errors return immediately.
func WithRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isConnectionError(err) {
			return err
		}

		if attempt < maxRetries {
			waitTime := time.Duration(attempt+1) * time.Second
			log.Printf("[DB] Operation failed (attempt %d/%d): %v (retry in %v)",
				attempt+1, maxRetries+1, err, waitTime)
			time.Sleep(waitTime)
		}
	}

	return lastErr
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"broken pipe",
		"no connection",
		"connection reset",
		"eof",
		"timeout",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
