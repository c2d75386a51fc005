package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config collects every environment setting the server reads, so handlers and
// clients never reach for os.Getenv themselves.
type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigin  string

	ProfanityURL string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	LastFMUsername string
	LastFMAPIKey   string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Fine in production, where env vars are set directly.
		log.Println("No .env file found, reading from environment")
	}

	cfg := &Config{
		Port:                os.Getenv("PORT"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		CORSOrigin:          os.Getenv("CORS_ORIGIN"),
		ProfanityURL:        os.Getenv("PROFANITY_API_URL"),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		LastFMUsername:      os.Getenv("LASTFM_USERNAME"),
		LastFMAPIKey:        os.Getenv("LASTFM_API_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ProfanityURL == "" {
		cfg.ProfanityURL = "https://vector.profanity.dev"
	}

	return cfg
}
