package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront reads from the environment.
type Config struct {
	Env  string
	Port string

	DSN string

	SessionSecret string
	SessionTTL    time.Duration

	UploadDir string

	// Admin bootstrap. Empty username disables it.
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	SeedSampleProducts bool

	GeminiAPIKey string
	GeminiModel  string
}

const (
	devDSN    = "root@tcp(127.0.0.1:3306)/bookstore"
	devSecret = "dev-session-secret-change-me"
)

// Load reads the optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		Port:               getEnv("APP_PORT", "8080"),
		DSN:                os.Getenv("DB_DSN_PRIMARY"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		SessionTTL:         getDuration("SESSION_TTL", 72*time.Hour),
		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		AdminUsername:      strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminEmail:         strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		SeedSampleProducts: getBool("SEED_SAMPLE_PRODUCTS", true),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	}

	if !cfg.IsProd() {
		if cfg.DSN == "" {
			cfg.DSN = devDSN
		}
		if cfg.SessionSecret == "" {
			cfg.SessionSecret = devSecret
		}
	}
	return cfg
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// Validate rejects configurations the server must not start with.
func (c Config) Validate() error {
	var errs []error
	if c.DSN == "" {
		errs = append(errs, errors.New("DB_DSN_PRIMARY is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.AdminPassword != "" && c.AdminUsername == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is set but ADMIN_USERNAME is empty"))
	}
	return errors.Join(errs...)
}

// AdminConfigured reports whether an admin account should be provisioned at startup.
func (c Config) AdminConfigured() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %t", k, v, d)
		return d
	}
	return b
}

func getDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %s", k, v, d)
		return d
	}
	return dur
}
