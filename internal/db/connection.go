package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBService represents a service that interacts with the database.
type DBService struct {
	DB *sql.DB
}

// NewDBService opens a pooled connection to Postgres and verifies it with a ping.
func NewDBService(connStr string) (*DBService, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	return &DBService{DB: db}, nil
}

// Health reports whether the database connection is still alive.
func (s *DBService) Health() map[string]string {
	stats := make(map[string]string)

	if err := s.DB.Ping(); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	return stats
}

// Close closes the database connection.
func (s *DBService) Close() error {
	return s.DB.Close()
}
