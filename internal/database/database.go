package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
)

// OpenDB creates and configures the primary connection pool.
// parseTime is forced on because every timestamp column is scanned into time.Time.
// clientFoundRows makes UPDATE report matched rows, so a no-op edit is not a miss.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Printf("Error connecting to database %s@%s/%s: %v", cfg.User, cfg.Addr, cfg.DBName, err)
		db.Close()
		return nil, err
	}

	log.Println("Database connection pool established successfully")
	return db, nil
}
