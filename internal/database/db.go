package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables this service needs when they do not
// exist yet.  Flights and bookings keep their seat map / passenger list
// as JSON documents that are rewritten whole on every mutation.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			INDEX idx_refresh_hash (token_hash),
			INDEX idx_refresh_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS planes (
			id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			seat_rows INT NOT NULL,
			seat_cols INT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS flights (
			id CHAR(36) NOT NULL PRIMARY KEY,
			plane_id CHAR(36) NOT NULL,
			plane_name VARCHAR(255) NOT NULL,
			departure VARCHAR(255) NOT NULL,
			destination VARCHAR(255) NOT NULL,
			fly_date CHAR(10) NOT NULL,
			departure_time DATETIME NOT NULL,
			price DOUBLE NOT NULL,
			duration VARCHAR(64) NOT NULL,
			seats JSON NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_flights_route (departure, destination),
			INDEX idx_flights_date (fly_date)
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id CHAR(36) NOT NULL PRIMARY KEY,
			flight_id CHAR(36) NOT NULL,
			user_id BIGINT UNSIGNED NULL,
			passengers JSON NOT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_bookings_flight (flight_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
