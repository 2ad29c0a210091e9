package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrInvalidRefreshInterval = errors.New("invalid FATIGUE_REFRESH_INTERVAL")
	ErrInvalidSeed            = errors.New("invalid SEED_RANDOM")
)

// Config holds the server settings read from the environment
type Config struct {
	Port                      string
	FatigueRefreshInterval    time.Duration
	SeedDrivers               bool
	SeedRandom                int64
	FirebaseCredentialsBase64 string
	FirebaseCredentialsFile   string
	AllowedOrigins            []string
}

// Load reads .env (if present) and then the process environment
func Load() (*Config, error) {
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, defaults applied
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                      getenv("PORT"),
		FatigueRefreshInterval:    60 * time.Second,
		SeedDrivers:               true,
		SeedRandom:                time.Now().UnixNano(),
		FirebaseCredentialsBase64: getenv("FIREBASE_CREDENTIALS_BASE64"),
		FirebaseCredentialsFile:   getenv("FIREBASE_CREDENTIALS_FILE"),
		AllowedOrigins:            []string{"*"},
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", cfg.Port)
	}

	if v := getenv("FATIGUE_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshInterval, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: must be positive, got %s", ErrInvalidRefreshInterval, v)
		}
		cfg.FatigueRefreshInterval = d
	}

	if v := getenv("SEED_DRIVERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SEED_DRIVERS: %w", err)
		}
		cfg.SeedDrivers = b
	}

	if v := getenv("SEED_RANDOM"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
		}
		cfg.SeedRandom = n
	}

	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}

	return cfg, nil
}
