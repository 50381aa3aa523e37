package database

import (
	"database/sql"
	"fmt"
	"log"

	"meme-scanner/agent/internal/models"

	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// MigrateDatabase runs GORM's AutoMigrate for the pipeline tables and then a
// raw SQL pass as a safety fallback so a fresh database always ends up with
// the full schema even if AutoMigrate skips something.
func MigrateDatabase(db *gorm.DB, dsn string) error {
	log.Println("Running GORM migrations...")
	err := db.AutoMigrate(
		&models.TokenLifecycle{},
		&models.ScanEvent{},
		&models.Call{},
		&models.CallOutcome{},
		&models.HotKeyword{},
	)
	if err != nil {
		return fmt.Errorf("GORM migrations failed: %w", err)
	}
	log.Println("GORM migrations executed successfully.")

	dbSQL, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("SQL fallback connection failed: %w", err)
	}
	defer dbSQL.Close()

	return executeSQLMigrations(dbSQL)
}

func executeSQLMigrations(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS token_lifecycle (
            pair_address TEXT PRIMARY KEY,
            symbol TEXT,
            token_mint TEXT,
            stage INT DEFAULT 1,
            notes TEXT,
            first_seen TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
            last_checked TIMESTAMPTZ,
            meta JSONB
        );`,
		`CREATE TABLE IF NOT EXISTS scan_events (
            id BIGSERIAL PRIMARY KEY,
            seen_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
            stage TEXT,
            pair_address TEXT,
            chain TEXT,
            dex TEXT,
            symbol TEXT,
            score NUMERIC,
            reasons JSONB
        );`,
		`CREATE TABLE IF NOT EXISTS calls (
            id BIGSERIAL PRIMARY KEY,
            token_mint TEXT,
            pair_address TEXT UNIQUE,
            score NUMERIC,
            liq_usd NUMERIC,
            fdv_usd NUMERIC,
            pchg_5m NUMERIC,
            pchg_1h NUMERIC,
            meta JSONB,
            called_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS call_outcomes (
            id BIGSERIAL PRIMARY KEY,
            call_id BIGINT,
            pair_address TEXT,
            token_mint TEXT,
            called_at TIMESTAMPTZ,
            price_at_call NUMERIC,
            due_15m TIMESTAMPTZ,
            due_1h TIMESTAMPTZ,
            price_15m NUMERIC,
            gain_15m NUMERIC,
            win_15m BOOLEAN,
            price_1h NUMERIC,
            gain_1h NUMERIC,
            win_1h BOOLEAN
        );`,
		`CREATE TABLE IF NOT EXISTS hot_keywords (
            term TEXT PRIMARY KEY,
            score NUMERIC NOT NULL,
            last_seen TIMESTAMPTZ NOT NULL
        );`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("fallback migration failed: %w", err)
		}
	}
	log.Println("Raw SQL migrations executed successfully.")
	return nil
}
