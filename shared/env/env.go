package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	DiscordWebhook    string
	OpsDiscordWebhook string

	Port string

	DATABASE_URL string

	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
)

func loadEnvVariable(key string, isRequired bool) string {
	value := os.Getenv(key)
	if isRequired && value == "" {
		log.Fatalf("FATAL: Environment variable %s is required but not set.", key)
	}
	isHidden := key == "DATABASE_URL" || key == "PGPASSWORD" || key == "DISCORD_WEBHOOK" || key == "OPS_DISCORD_WEBHOOK"
	if value == "" {
		if !isRequired {
			log.Printf("INFO: Environment variable %s is not set.", key)
		}
	} else if isHidden {
		log.Printf("INFO: Loaded %s (value hidden)", key)
	} else {
		log.Printf("INFO: Loaded %s = %s", key, value)
	}
	return value
}

func LoadEnv() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("INFO: .env file not found or error loading, relying on system environment variables.")
	} else {
		log.Println("INFO: .env file loaded successfully.")
	}

	DiscordWebhook = loadEnvVariable("DISCORD_WEBHOOK", false)
	OpsDiscordWebhook = loadEnvVariable("OPS_DISCORD_WEBHOOK", false)

	Port = loadEnvVariable("PORT", false)
	if Port == "" {
		Port = "8080"
		log.Printf("INFO: PORT not set, defaulting to %s", Port)
	}

	DATABASE_URL = loadEnvVariable("DATABASE_URL", false)

	PGHOST = loadEnvVariable("PGHOST", false)
	PGPORT = loadEnvVariable("PGPORT", false)
	PGUSER = loadEnvVariable("PGUSER", false)
	PGPASSWORD = loadEnvVariable("PGPASSWORD", false)
	PGDATABASE = loadEnvVariable("PGDATABASE", false)

	if DATABASE_URL == "" && PGHOST == "" {
		log.Println("WARN: Neither DATABASE_URL nor PG* variables are set. Database connection will fall back to local defaults.")
	}
	if DiscordWebhook == "" {
		log.Println("WARN: DISCORD_WEBHOOK is not set. Alerts will be logged but not delivered.")
	}

	log.Println("INFO: Environment variables loading process complete.")
	return nil
}
