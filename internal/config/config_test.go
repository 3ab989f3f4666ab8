package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test. t.Setenv restores the old values afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "ALLOWED_ORIGINS", "FRONTEND_URL",
		"STORE_DRIVER", "SQLITE_DSN", "BLOB_DRIVER", "UPLOAD_DIR",
		"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET", "CLOUDINARY_FOLDER",
		"ALLOW_WEBP", "SEED_SAMPLE_DATA", "TZ_NAME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, ":memory:", cfg.SQLiteDSN)
	assert.Equal(t, BlobLocal, cfg.BlobDriver)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.True(t, cfg.SeedSampleData)
	assert.False(t, cfg.AllowWebP)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "Production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ALLOWED_ORIGINS", "https://diary.example.com/, https://www.diary.example.com,,")
	t.Setenv("FRONTEND_URL", "http://ignored.example.com")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_DSN", "data/diary.db")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	t.Setenv("ALLOW_WEBP", "1")
	t.Setenv("TZ_NAME", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://diary.example.com", "https://www.diary.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "data/diary.db", cfg.SQLiteDSN)
	assert.False(t, cfg.SeedSampleData)
	assert.True(t, cfg.AllowWebP)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "non-numeric port", env: map[string]string{"PORT": "http"}},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "unknown store", env: map[string]string{"STORE_DRIVER": "postgres"}},
		{name: "unknown blob driver", env: map[string]string{"BLOB_DRIVER": "s3"}},
		{name: "cloudinary without credentials", env: map[string]string{"BLOB_DRIVER": "cloudinary"}},
		{name: "bad bool", env: map[string]string{"SEED_SAMPLE_DATA": "maybe"}},
		{name: "bad time zone", env: map[string]string{"TZ_NAME": "Mars/Olympus"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Cloudinary(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOB_DRIVER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BlobCloudinary, cfg.BlobDriver)
	assert.Equal(t, "mini-diary", cfg.CloudinaryFolder)
}
