package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	vars := []string{
		"SOLARMD_APP_NAME",
		"SOLARMD_APP_ENV",
		"SOLARMD_APP_PORT",
		"SOLARMD_DATABASE_HOST",
		"SOLARMD_DATABASE_PORT",
		"SOLARMD_DATABASE_PASSWORD",
		"SOLARMD_STORAGE_BACKEND",
		"SOLARMD_STORAGE_S3_BUCKET",
		"SOLARMD_LISTENERS_FAIL_FAST",
		"SOLARMD_JWT_SECRET",
	}
	original := map[string]string{}
	for _, k := range vars {
		original[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()
	clearEnv := func() {
		for _, k := range vars {
			os.Unsetenv(k)
		}
	}

	t.Run("loads defaults when nothing is set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "solarmd-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "local", cfg.Storage.Backend)
		assert.True(t, cfg.Listeners.FailFast)
		assert.Empty(t, cfg.Listeners.Disabled)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("SOLARMD_APP_PORT", "9000")
		os.Setenv("SOLARMD_DATABASE_HOST", "db.internal")
		os.Setenv("SOLARMD_LISTENERS_FAIL_FAST", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.False(t, cfg.Listeners.FailFast)
	})

	t.Run("s3 backend requires a bucket", func(t *testing.T) {
		clearEnv()
		os.Setenv("SOLARMD_STORAGE_BACKEND", "s3")

		_, err := Load()
		require.Error(t, err)

		os.Setenv("SOLARMD_STORAGE_S3_BUCKET", "solarmd-media")
		_, err = Load()
		require.NoError(t, err)
	})

	t.Run("unknown storage backend is rejected", func(t *testing.T) {
		clearEnv()
		os.Setenv("SOLARMD_STORAGE_BACKEND", "ftp")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("SOLARMD_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)

		os.Setenv("SOLARMD_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		_, err = Load()
		require.NoError(t, err)
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", DBName: "solarmd", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=solarmd sslmode=disable",
		cfg.DSN())
}
