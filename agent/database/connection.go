package database

import (
	"fmt"
	"log"

	"meme-scanner/shared/env"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectToDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Printf("ERROR: Failed to connect to the database using DSN: %v", err)
		return nil, err
	}
	log.Println("INFO: Database connection successful.")
	return db, nil
}

// BuildDSN returns DATABASE_URL when set, otherwise a DSN assembled from the
// PG* variables with localhost defaults.
func BuildDSN() string {
	if env.DATABASE_URL != "" {
		return env.DATABASE_URL
	}
	host := env.PGHOST
	if host == "" {
		host = "localhost"
	}
	port := env.PGPORT
	if port == "" {
		port = "5432"
	}
	user := env.PGUSER
	if user == "" {
		user = "postgres"
	}
	dbname := env.PGDATABASE
	if dbname == "" {
		dbname = "memebot"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, env.PGPASSWORD, dbname, port)
}
