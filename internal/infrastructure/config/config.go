package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/coachhub/coachhub/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Calcom     sharedConfig.CalcomConfig     `mapstructure:"calcom"`
	Calendly   sharedConfig.CalendlyConfig   `mapstructure:"calendly"`
	Stripe     sharedConfig.StripeConfig     `mapstructure:"stripe"`
	Zoom       sharedConfig.ZoomConfig       `mapstructure:"zoom"`
	Email      sharedConfig.EmailConfig      `mapstructure:"email"`
	Scheduling sharedConfig.SchedulingConfig `mapstructure:"scheduling"`
	Scheduler  sharedConfig.SchedulerConfig  `mapstructure:"scheduler"`
	RateLimit  sharedConfig.RateLimitConfig  `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A .env file in the working directory is loaded first so that
// COACHHUB_* variables defined there are visible to viper.
func Load(env string, configPath ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	if len(configPath) > 0 && configPath[0] != "" {
		v.SetConfigFile(configPath[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("COACHHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.frontend_url", "http://localhost:3000")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.timezone", "UTC")
	v.SetDefault("server.enable_swagger", true)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.database", "coachhub_dev")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Auth defaults
	v.SetDefault("auth.clerk.pem_public_key", "")
	v.SetDefault("auth.clerk.authorized_parties", []string{})
	v.SetDefault("auth.clerk.webhook_secret", "")
	v.SetDefault("auth.clerk.dev_secret", "")

	// Cal.com defaults
	v.SetDefault("calcom.base_url", "https://api.cal.com")
	v.SetDefault("calcom.api_version", "2024-08-13")
	v.SetDefault("calcom.client_id", "")
	v.SetDefault("calcom.secret_key", "")
	v.SetDefault("calcom.webhook_secret", "")
	v.SetDefault("calcom.requests_per_sec", 10)

	// Calendly defaults
	v.SetDefault("calendly.base_url", "https://api.calendly.com")
	v.SetDefault("calendly.auth_url", "https://auth.calendly.com")
	v.SetDefault("calendly.redirect_url", "http://localhost:8080/integrations/calendly/callback")
	v.SetDefault("calendly.requests_per_sec", 5)
	v.SetDefault("calendly.client_id", "")
	v.SetDefault("calendly.client_secret", "")
	v.SetDefault("calendly.webhook_signing_key", "")

	// Stripe defaults
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.success_url", "http://localhost:3000/billing/success")
	v.SetDefault("stripe.cancel_url", "http://localhost:3000/billing/cancel")

	// Zoom defaults
	v.SetDefault("zoom.token_ttl_minutes", 120)
	v.SetDefault("zoom.sdk_key", "")
	v.SetDefault("zoom.sdk_secret", "")

	// Email defaults
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "noreply@coachhub.local")
	v.SetDefault("email.from_name", "CoachHub")

	// Scheduling defaults
	v.SetDefault("scheduling.token_refresh.skew", 5*time.Minute)
	v.SetDefault("scheduling.token_refresh.debounce_window", 30*time.Second)
	v.SetDefault("scheduling.token_refresh.retry_base", 500*time.Millisecond)
	v.SetDefault("scheduling.token_refresh.retry_cap", 8*time.Second)
	v.SetDefault("scheduling.token_refresh.max_retries", 4)
	v.SetDefault("scheduling.token_refresh.breaker_failures", 5)
	v.SetDefault("scheduling.token_refresh.breaker_open_for", 60*time.Second)
	v.SetDefault("scheduling.token_refresh.proactive_horizon", 30*time.Minute)
	v.SetDefault("scheduling.sync_lookback", 30*24*time.Hour)
	v.SetDefault("scheduling.sync_lookahead", 90*24*time.Hour)
	v.SetDefault("scheduling.sync_concurrency", 4)
	v.SetDefault("scheduling.proposal_ttl", 24*time.Hour)
	v.SetDefault("scheduling.video_join_lead_time", 10*time.Minute)
	v.SetDefault("scheduling.coach_listing_ttl", 2*time.Minute)
	v.SetDefault("scheduling.encryption_key", "")

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.token_refresh_interval", 10*time.Minute)
	v.SetDefault("scheduler.booking_sync_interval", 30*time.Minute)
	v.SetDefault("scheduler.proposal_expiry_interval", 5*time.Minute)
	v.SetDefault("scheduler.session_completion_interval", 5*time.Minute)

	// Rate limit defaults
	v.SetDefault("rate_limit.booking_per_minute", 20)
	v.SetDefault("rate_limit.webhook_per_minute", 600)
}
