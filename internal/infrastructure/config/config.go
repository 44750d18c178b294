package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Telemetry TelemetryConfig
	Revenue   RevenueConfig
	PMS       PMSConfig
	PM        PMConfig
	AI        AIConfig
	Scheduler SchedulerConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name        string
	Env         string
	Port        string
	AutoMigrate bool // run embedded migrations on startup
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // plaintext gRPC, development only
	MetricsEnabled    bool
	LogsEnabled       bool
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
}

// RevenueConfig holds reconciliation thresholds and sync range limits
type RevenueConfig struct {
	MatchThreshold float64 // |diff| below this is a match
	MinPmRecords   int     // fewer PM records than this is insufficient_pm
	MaxSyncMonths  int
	MaxSyncDays    int
}

// PMSConfig configures the invoicing system client
type PMSConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PMConfig configures the hotel-management system client
type PMConfig struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	PageSize int
}

// AIConfig holds assistant settings that are not stored in the database
type AIConfig struct {
	MaxToolRounds    int
	SettingsCacheTTL time.Duration
	SecretKey        string // 32 bytes, encrypts the stored API key
	RequestTimeout   time.Duration
}

// SchedulerConfig holds the daily sync job configuration
type SchedulerConfig struct {
	Enabled        bool
	CheckInterval  time.Duration
	SyncHour       int // local hour after which the daily job may run
	LockTTL        time.Duration
	PmLookbackDays int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with LEDGER_ prefix (e.g., LEDGER_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set by the process manager
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Env:         v.GetString("app.env"),
			Port:        v.GetString("app.port"),
			AutoMigrate: v.GetBool("app.auto_migrate"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
		Revenue: RevenueConfig{
			MatchThreshold: v.GetFloat64("revenue.match_threshold"),
			MinPmRecords:   v.GetInt("revenue.min_pm_records"),
			MaxSyncMonths:  v.GetInt("revenue.max_sync_months"),
			MaxSyncDays:    v.GetInt("revenue.max_sync_days"),
		},
		PMS: PMSConfig{
			BaseURL: v.GetString("pms.base_url"),
			APIKey:  v.GetString("pms.api_key"),
			Timeout: v.GetDuration("pms.timeout"),
		},
		PM: PMConfig{
			BaseURL:  v.GetString("pm.base_url"),
			APIKey:   v.GetString("pm.api_key"),
			Timeout:  v.GetDuration("pm.timeout"),
			PageSize: v.GetInt("pm.page_size"),
		},
		AI: AIConfig{
			MaxToolRounds:    v.GetInt("ai.max_tool_rounds"),
			SettingsCacheTTL: v.GetDuration("ai.settings_cache_ttl"),
			SecretKey:        v.GetString("ai.secret_key"),
			RequestTimeout:   v.GetDuration("ai.request_timeout"),
		},
		Scheduler: SchedulerConfig{
			Enabled:        v.GetBool("scheduler.enabled"),
			CheckInterval:  v.GetDuration("scheduler.check_interval"),
			SyncHour:       v.GetInt("scheduler.sync_hour"),
			LockTTL:        v.GetDuration("scheduler.lock_ttl"),
			PmLookbackDays: v.GetInt("scheduler.pm_lookback_days"),
		},
	}

	// min_pm_records may legitimately be 0, so only default it when unset
	if !v.IsSet("revenue.min_pm_records") {
		cfg.Revenue.MinPmRecords = 10
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "innledger"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "innledger"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// Assistant streams can run for a while; WriteTimeout bounds the whole response
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 2 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// No CORS origin default: cross-origin requests are refused until configured
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-User-ID"}
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "innledger"
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Revenue.MatchThreshold == 0 {
		cfg.Revenue.MatchThreshold = 5000
	}
	if cfg.Revenue.MaxSyncMonths == 0 {
		cfg.Revenue.MaxSyncMonths = 24
	}
	if cfg.Revenue.MaxSyncDays == 0 {
		cfg.Revenue.MaxSyncDays = 366
	}
	if cfg.PMS.Timeout == 0 {
		cfg.PMS.Timeout = 30 * time.Second
	}
	if cfg.PM.Timeout == 0 {
		cfg.PM.Timeout = 30 * time.Second
	}
	if cfg.PM.PageSize == 0 {
		cfg.PM.PageSize = 500
	}
	if cfg.AI.MaxToolRounds == 0 {
		cfg.AI.MaxToolRounds = 5
	}
	if cfg.AI.SettingsCacheTTL == 0 {
		cfg.AI.SettingsCacheTTL = 5 * time.Minute
	}
	if cfg.AI.RequestTimeout == 0 {
		cfg.AI.RequestTimeout = 90 * time.Second
	}
	if cfg.Scheduler.CheckInterval == 0 {
		cfg.Scheduler.CheckInterval = 10 * time.Minute
	}
	if cfg.Scheduler.SyncHour == 0 {
		cfg.Scheduler.SyncHour = 3
	}
	if cfg.Scheduler.LockTTL == 0 {
		cfg.Scheduler.LockTTL = 15 * time.Minute
	}
	if cfg.Scheduler.PmLookbackDays == 0 {
		cfg.Scheduler.PmLookbackDays = 7
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Revenue.MatchThreshold <= 0 {
		return fmt.Errorf("revenue.match_threshold must be positive")
	}
	if c.Revenue.MinPmRecords < 0 {
		return fmt.Errorf("revenue.min_pm_records cannot be negative")
	}
	if c.AI.MaxToolRounds < 1 || c.AI.MaxToolRounds > 5 {
		return fmt.Errorf("ai.max_tool_rounds must be between 1 and 5, got %d", c.AI.MaxToolRounds)
	}
	if c.AI.SecretKey != "" && len(c.AI.SecretKey) != 32 {
		return fmt.Errorf("ai.secret_key must be exactly 32 bytes")
	}
	if c.Scheduler.SyncHour < 0 || c.Scheduler.SyncHour > 23 {
		return fmt.Errorf("scheduler.sync_hour must be between 0 and 23")
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.AI.SecretKey == "" {
			return fmt.Errorf("ai.secret_key is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
