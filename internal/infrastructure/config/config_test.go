package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "innledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "innledger", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)

		assert.Equal(t, 5000.0, cfg.Revenue.MatchThreshold)
		assert.Equal(t, 10, cfg.Revenue.MinPmRecords)
		assert.Equal(t, 24, cfg.Revenue.MaxSyncMonths)
		assert.Equal(t, 366, cfg.Revenue.MaxSyncDays)
		assert.Equal(t, 5, cfg.AI.MaxToolRounds)
		assert.Equal(t, 5*time.Minute, cfg.AI.SettingsCacheTTL)
		assert.Equal(t, 500, cfg.PM.PageSize)
		assert.False(t, cfg.Scheduler.Enabled)
		assert.Empty(t, cfg.Redis.Host)
	})

	t.Run("loads values from environment variables with LEDGER prefix", func(t *testing.T) {
		t.Setenv("LEDGER_APP_PORT", "9000")
		t.Setenv("LEDGER_DATABASE_HOST", "testdb.local")
		t.Setenv("LEDGER_DATABASE_PASSWORD", "testpass")
		t.Setenv("LEDGER_REVENUE_MATCH_THRESHOLD", "2500")
		t.Setenv("LEDGER_REVENUE_MIN_PM_RECORDS", "0")
		t.Setenv("LEDGER_PMS_BASE_URL", "https://pms.example.com")
		t.Setenv("LEDGER_PM_PAGE_SIZE", "200")
		t.Setenv("LEDGER_AI_MAX_TOOL_ROUNDS", "3")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 2500.0, cfg.Revenue.MatchThreshold)
		assert.Equal(t, 0, cfg.Revenue.MinPmRecords, "explicit zero is kept")
		assert.Equal(t, "https://pms.example.com", cfg.PMS.BaseURL)
		assert.Equal(t, 200, cfg.PM.PageSize)
		assert.Equal(t, 3, cfg.AI.MaxToolRounds)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("LEDGER_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("LEDGER_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects tool rounds above the hard limit", func(t *testing.T) {
		t.Setenv("LEDGER_AI_MAX_TOOL_ROUNDS", "8")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ai.max_tool_rounds")
	})

	t.Run("rejects negative min_pm_records", func(t *testing.T) {
		t.Setenv("LEDGER_REVENUE_MIN_PM_RECORDS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_pm_records")
	})

	t.Run("rejects short secret key", func(t *testing.T) {
		t.Setenv("LEDGER_AI_SECRET_KEY", "too-short")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 bytes")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		t.Setenv("LEDGER_APP_ENV", "production")
		t.Setenv("LEDGER_DATABASE_PASSWORD", "secure-password")
		t.Setenv("LEDGER_DATABASE_SSLMODE", "require")
		t.Setenv("LEDGER_AI_SECRET_KEY", "0123456789abcdef0123456789abcdef")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LEDGER_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LEDGER_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires secret key in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LEDGER_AI_SECRET_KEY", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ai.secret_key is required")
	})

	t.Run("rejects wildcard CORS in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("LEDGER_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins")
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
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
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

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
