package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"POS_APP_NAME",
	"POS_APP_ENV",
	"POS_APP_PORT",
	"POS_DATABASE_HOST",
	"POS_DATABASE_PORT",
	"POS_DATABASE_PASSWORD",
	"POS_DATABASE_SSLMODE",
	"POS_DATABASE_MAX_OPEN_CONNS",
	"POS_DATABASE_MAX_IDLE_CONNS",
	"POS_REDIS_ENABLED",
	"POS_REDIS_HOST",
	"POS_REDIS_PORT",
	"POS_TELEMETRY_SAMPLING_RATIO",
	"POS_TELEMETRY_DB_LOG_FULL_SQL",
	"POS_METRICS_ENABLED",
	"POS_REPORT_TOP_N",
	"POS_REPORT_VIP_THRESHOLD",
	"POS_REPORT_REGULAR_THRESHOLD",
	"POS_REPORT_DEFAULT_MIN_STOCK",
	"POS_REPORT_TIMEZONE",
	"POS_REPORT_CACHE_ENABLED",
	"POS_REPORT_CACHE_TTL",
	"POS_REPORT_FETCH_TIMEOUT",
}

// clearEnv blanks every variable the tests touch; viper treats empty values as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pos-admin", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "pos", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
		assert.True(t, cfg.Report.CacheEnabled)
		assert.Equal(t, 5*time.Minute, cfg.Report.CacheTTL)
		assert.Equal(t, 30*time.Second, cfg.Report.FetchTimeout)
		assert.Equal(t, "UTC", cfg.Report.Timezone)
	})

	t.Run("loads values from environment variables with POS prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_APP_NAME", "reports")
		t.Setenv("POS_APP_PORT", "9000")
		t.Setenv("POS_DATABASE_HOST", "db.local")
		t.Setenv("POS_DATABASE_PORT", "5433")
		t.Setenv("POS_REDIS_ENABLED", "true")
		t.Setenv("POS_REDIS_HOST", "cache.local")
		t.Setenv("POS_METRICS_ENABLED", "false")
		t.Setenv("POS_REPORT_CACHE_ENABLED", "false")
		t.Setenv("POS_REPORT_CACHE_TTL", "90s")
		t.Setenv("POS_REPORT_FETCH_TIMEOUT", "5s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "reports", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.False(t, cfg.Metrics.Enabled)
		assert.False(t, cfg.Report.CacheEnabled)
		assert.Equal(t, 90*time.Second, cfg.Report.CacheTTL)
		assert.Equal(t, 5*time.Second, cfg.Report.FetchTimeout)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("POS_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects sampling ratio outside range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ReportSettings(t *testing.T) {
	t.Run("overrides aggregation thresholds", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_REPORT_TOP_N", "5")
		t.Setenv("POS_REPORT_VIP_THRESHOLD", "20000")
		t.Setenv("POS_REPORT_REGULAR_THRESHOLD", "2000")
		t.Setenv("POS_REPORT_TIMEZONE", "America/Bogota")

		cfg, err := Load()
		require.NoError(t, err)

		settings, err := cfg.Report.Settings()
		require.NoError(t, err)
		assert.Equal(t, 5, settings.TopN)
		assert.True(t, settings.VIPThreshold.Decimal.Equal(decimal.NewFromInt(20000)))
		assert.True(t, settings.RegularThreshold.Decimal.Equal(decimal.NewFromInt(2000)))
		assert.True(t, settings.DefaultMinStock.Decimal.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, "America/Bogota", settings.Timezone)
	})

	t.Run("keeps an explicit zero min stock and regular threshold", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_REPORT_DEFAULT_MIN_STOCK", "0")
		t.Setenv("POS_REPORT_REGULAR_THRESHOLD", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 0.0, cfg.Report.DefaultMinStock)

		settings, err := cfg.Report.Settings()
		require.NoError(t, err)
		assert.True(t, settings.DefaultMinStock.Valid)
		assert.True(t, settings.DefaultMinStock.Decimal.IsZero())
		assert.True(t, settings.RegularThreshold.Decimal.IsZero())
		assert.True(t, settings.VIPThreshold.Decimal.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("defaults come from the aggregation defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Report.TopN)
		assert.Equal(t, 10000.0, cfg.Report.VIPThreshold)
		assert.Equal(t, 1000.0, cfg.Report.RegularThreshold)
		assert.Equal(t, 10.0, cfg.Report.DefaultMinStock)
		assert.Equal(t, "Desconocido", cfg.Report.UnknownProductLabel)
		assert.Equal(t, "Sin categoría", cfg.Report.UncategorizedLabel)
	})

	t.Run("rejects a zero top n", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_REPORT_TOP_N", "0")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "top_n")
	})

	t.Run("zero cache ttl stays zero", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_REPORT_CACHE_TTL", "0s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Zero(t, cfg.Report.CacheTTL)
	})

	t.Run("rejects regular threshold above vip threshold", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_REPORT_VIP_THRESHOLD", "500")
		t.Setenv("POS_REPORT_REGULAR_THRESHOLD", "1000")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report settings")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_REPORT_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("rejects negative cache ttl", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_REPORT_CACHE_TTL", "-1m")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache_ttl")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	production := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("POS_APP_ENV", "production")
		t.Setenv("POS_DATABASE_PASSWORD", "secret")
		t.Setenv("POS_DATABASE_SSLMODE", "require")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		production(t)

		_, err := Load()
		assert.NoError(t, err)
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		production(t)
		t.Setenv("POS_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		production(t)
		t.Setenv("POS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("forbids full SQL logging in production", func(t *testing.T) {
		production(t)
		t.Setenv("POS_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "pos",
			Password: "pass",
			DBName:   "pos",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "pos:pass@")
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

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
