package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"SHIPSTACK_APP_NAME":                os.Getenv("SHIPSTACK_APP_NAME"),
		"SHIPSTACK_APP_ENV":                 os.Getenv("SHIPSTACK_APP_ENV"),
		"SHIPSTACK_APP_PORT":                os.Getenv("SHIPSTACK_APP_PORT"),
		"SHIPSTACK_DATABASE_HOST":           os.Getenv("SHIPSTACK_DATABASE_HOST"),
		"SHIPSTACK_DATABASE_PORT":           os.Getenv("SHIPSTACK_DATABASE_PORT"),
		"SHIPSTACK_DATABASE_USER":           os.Getenv("SHIPSTACK_DATABASE_USER"),
		"SHIPSTACK_DATABASE_PASSWORD":       os.Getenv("SHIPSTACK_DATABASE_PASSWORD"),
		"SHIPSTACK_DATABASE_DBNAME":         os.Getenv("SHIPSTACK_DATABASE_DBNAME"),
		"SHIPSTACK_DATABASE_SSLMODE":        os.Getenv("SHIPSTACK_DATABASE_SSLMODE"),
		"SHIPSTACK_DATABASE_MAX_OPEN_CONNS": os.Getenv("SHIPSTACK_DATABASE_MAX_OPEN_CONNS"),
		"SHIPSTACK_DATABASE_MAX_IDLE_CONNS": os.Getenv("SHIPSTACK_DATABASE_MAX_IDLE_CONNS"),
		"SHIPSTACK_PRICING_CACHE_BACKEND":   os.Getenv("SHIPSTACK_PRICING_CACHE_BACKEND"),
		"SHIPSTACK_PRICING_CACHE_TTL":       os.Getenv("SHIPSTACK_PRICING_CACHE_TTL"),
		"SHIPSTACK_PRICING_WEIGHT_BUCKET_KG": os.Getenv("SHIPSTACK_PRICING_WEIGHT_BUCKET_KG"),
		"SHIPSTACK_GEO_DATASET_PATH":        os.Getenv("SHIPSTACK_GEO_DATASET_PATH"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shipstack-pricing", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "shipstack", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "tiered", cfg.Pricing.CacheBackend)
		assert.Equal(t, 5*time.Minute, cfg.Pricing.CacheTTL)
		assert.Equal(t, 30*time.Minute, cfg.Pricing.ZoneCacheTTL)
		assert.Equal(t, "0.5", cfg.Pricing.WeightBucketKg)
		assert.Equal(t, "2", cfg.Pricing.CODPercent)
		assert.Equal(t, "18", cfg.Pricing.TaxRatePercent)
		assert.Equal(t, 2*time.Second, cfg.Pricing.CompareLegTimeout)
		assert.Equal(t, "data/postal_codes.csv", cfg.Geo.DatasetPath)
	})

	t.Run("loads values from environment variables with SHIPSTACK prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_APP_NAME", "test-app")
		os.Setenv("SHIPSTACK_APP_ENV", "testing")
		os.Setenv("SHIPSTACK_APP_PORT", "9000")
		os.Setenv("SHIPSTACK_DATABASE_HOST", "testdb.local")
		os.Setenv("SHIPSTACK_DATABASE_PORT", "5433")
		os.Setenv("SHIPSTACK_DATABASE_USER", "testuser")
		os.Setenv("SHIPSTACK_DATABASE_PASSWORD", "testpass")
		os.Setenv("SHIPSTACK_DATABASE_DBNAME", "testdb")
		os.Setenv("SHIPSTACK_DATABASE_SSLMODE", "require")
		os.Setenv("SHIPSTACK_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("SHIPSTACK_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("SHIPSTACK_PRICING_CACHE_BACKEND", "memory")
		os.Setenv("SHIPSTACK_PRICING_CACHE_TTL", "90s")
		os.Setenv("SHIPSTACK_PRICING_WEIGHT_BUCKET_KG", "1")
		os.Setenv("SHIPSTACK_GEO_DATASET_PATH", "/srv/geo/pincodes.csv")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "memory", cfg.Pricing.CacheBackend)
		assert.Equal(t, 90*time.Second, cfg.Pricing.CacheTTL)
		assert.Equal(t, "1", cfg.Pricing.WeightBucketKg)
		assert.Equal(t, "/srv/geo/pincodes.csv", cfg.Geo.DatasetPath)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("SHIPSTACK_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_PRICING_CACHE_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pricing.cache_backend")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"SHIPSTACK_APP_ENV":                os.Getenv("SHIPSTACK_APP_ENV"),
		"SHIPSTACK_DATABASE_PASSWORD":      os.Getenv("SHIPSTACK_DATABASE_PASSWORD"),
		"SHIPSTACK_DATABASE_SSLMODE":       os.Getenv("SHIPSTACK_DATABASE_SSLMODE"),
		"SHIPSTACK_HTTP_CORS_ALLOW_ORIGINS": os.Getenv("SHIPSTACK_HTTP_CORS_ALLOW_ORIGINS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_APP_ENV", "production")
		os.Setenv("SHIPSTACK_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_APP_ENV", "production")
		os.Setenv("SHIPSTACK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SHIPSTACK_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects wildcard CORS origin in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_APP_ENV", "production")
		os.Setenv("SHIPSTACK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SHIPSTACK_DATABASE_SSLMODE", "require")
		os.Setenv("SHIPSTACK_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins cannot be '*' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("SHIPSTACK_APP_ENV", "production")
		os.Setenv("SHIPSTACK_DATABASE_PASSWORD", "secure-password")
		os.Setenv("SHIPSTACK_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}
