package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, ":8080", cfg.ServerAddress)
	require.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	require.Equal(t, "file", cfg.StorageBackend)
	require.Equal(t, "gemini-3-flash-preview", cfg.GeminiModel)
	require.NotEmpty(t, cfg.GeminiBaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg := Load()
	require.Equal(t, ":9999", cfg.ServerAddress)
	require.Equal(t, "mongo", cfg.StorageBackend)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
}
