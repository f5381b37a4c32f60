package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type DB struct {
	conn *sql.DB
}

// NewDB opens the postgres pool and verifies connectivity.
func NewDB(databaseURL string) (*DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// GetConnection exposes the raw pool for modules that run their own queries.
func (db *DB) GetConnection() *sql.DB {
	return db.conn
}
