// Package config reads server configuration from the environment.
//
// cmd/server loads an optional .env file with godotenv first, so every value
// here can come from either the real environment or that file. Real
// environment variables win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"

	BlobLocal      = "local"
	BlobCloudinary = "cloudinary"
)

type Config struct {
	Port           int
	Environment    string   // ENV: development, production, ...
	LogLevel       string   // LOG_LEVEL: debug, info, warn, error
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS, else FRONTEND_URL

	StoreDriver string // STORE_DRIVER: memory | sqlite
	SQLiteDSN   string

	BlobDriver          string // BLOB_DRIVER: local | cloudinary
	UploadDir           string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	AllowWebP           bool

	SeedSampleData bool
	Location       *time.Location // TZ_NAME: calendar days for date filters and seed data
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the configuration and validates it.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "3001"))
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("config: invalid PORT %q", os.Getenv("PORT"))
	}

	origins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(origins) == 0 {
		origins = parseOrigins(getEnv("FRONTEND_URL", "http://localhost:5173"))
	}

	seed, err := parseBool("SEED_SAMPLE_DATA", true)
	if err != nil {
		return nil, err
	}
	webp, err := parseBool("ALLOW_WEBP", false)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if name := getEnv("TZ_NAME", ""); name != "" {
		if loc, err = time.LoadLocation(name); err != nil {
			return nil, fmt.Errorf("config: invalid TZ_NAME %q: %w", name, err)
		}
	}

	cfg := &Config{
		Port:                port,
		Environment:         strings.ToLower(getEnv("ENV", "development")),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins:      origins,
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		SQLiteDSN:           getEnv("SQLITE_DSN", ":memory:"),
		BlobDriver:          strings.ToLower(getEnv("BLOB_DRIVER", BlobLocal)),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "mini-diary"),
		AllowWebP:           webp,
		SeedSampleData:      seed,
		Location:            loc,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, StoreMemory, StoreSQLite)
	}

	switch c.BlobDriver {
	case BlobLocal:
	case BlobCloudinary:
		if c.CloudinaryName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("config: BLOB_DRIVER=cloudinary needs CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("config: unknown BLOB_DRIVER %q (want %s or %s)", c.BlobDriver, BlobLocal, BlobCloudinary)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("config: invalid %s %q", key, raw)
	}
	return v, nil
}

// parseOrigins splits a comma-separated origin list, dropping blanks and
// trailing slashes.
func parseOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
