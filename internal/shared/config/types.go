package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	FrontendURL    string   `mapstructure:"frontend_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	Timezone       string   `mapstructure:"timezone"`
	EnableSwagger  bool     `mapstructure:"enable_swagger"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	URL             string `mapstructure:"url"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN returns the Postgres connection string. A full URL (as issued by
// Supabase) takes precedence over the discrete fields.
func (d *DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ClerkConfig configures session token verification and user webhooks.
type ClerkConfig struct {
	// PEMPublicKey is the instance's JWT verification key (networkless verification).
	PEMPublicKey      string   `mapstructure:"pem_public_key"`
	AuthorizedParties []string `mapstructure:"authorized_parties"`
	WebhookSecret     string   `mapstructure:"webhook_secret"`
	// DevSecret enables HMAC-signed session tokens for local development and tests.
	DevSecret string `mapstructure:"dev_secret"`
}

type AuthConfig struct {
	Clerk ClerkConfig `mapstructure:"clerk"`
}

type CalcomConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	ClientID       string `mapstructure:"client_id"`
	SecretKey      string `mapstructure:"secret_key"`
	APIVersion     string `mapstructure:"api_version"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	RequestsPerSec int    `mapstructure:"requests_per_sec"`
}

type CalendlyConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	AuthURL        string `mapstructure:"auth_url"`
	ClientID       string `mapstructure:"client_id"`
	ClientSecret   string `mapstructure:"client_secret"`
	RedirectURL    string `mapstructure:"redirect_url"`
	WebhookSecret  string `mapstructure:"webhook_signing_key"`
	RequestsPerSec int    `mapstructure:"requests_per_sec"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	SuccessURL    string `mapstructure:"success_url"`
	CancelURL     string `mapstructure:"cancel_url"`
}

type ZoomConfig struct {
	SDKKey    string `mapstructure:"sdk_key"`
	SDKSecret string `mapstructure:"sdk_secret"`
	// TokenTTLMinutes bounds video token lifetime; clamped to the session end.
	TokenTTLMinutes int `mapstructure:"token_ttl_minutes"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// TokenRefreshConfig tunes the provider token lifecycle.
type TokenRefreshConfig struct {
	Skew             time.Duration `mapstructure:"skew"`
	DebounceWindow   time.Duration `mapstructure:"debounce_window"`
	RetryBase        time.Duration `mapstructure:"retry_base"`
	RetryCap         time.Duration `mapstructure:"retry_cap"`
	MaxRetries       uint64        `mapstructure:"max_retries"`
	BreakerFailures  uint32        `mapstructure:"breaker_failures"`
	BreakerOpenFor   time.Duration `mapstructure:"breaker_open_for"`
	ProactiveHorizon time.Duration `mapstructure:"proactive_horizon"`
}

type SchedulingConfig struct {
	TokenRefresh        TokenRefreshConfig `mapstructure:"token_refresh"`
	SyncLookback        time.Duration      `mapstructure:"sync_lookback"`
	SyncLookahead       time.Duration      `mapstructure:"sync_lookahead"`
	SyncConcurrency     int                `mapstructure:"sync_concurrency"`
	ProposalTTL         time.Duration      `mapstructure:"proposal_ttl"`
	VideoJoinLeadTime   time.Duration      `mapstructure:"video_join_lead_time"`
	CoachListingTTL     time.Duration      `mapstructure:"coach_listing_ttl"`
	EncryptionKeyBase64 string             `mapstructure:"encryption_key"`
}

type SchedulerConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	TokenRefreshInterval time.Duration `mapstructure:"token_refresh_interval"`
	BookingSyncInterval  time.Duration `mapstructure:"booking_sync_interval"`
	ProposalExpiry       time.Duration `mapstructure:"proposal_expiry_interval"`
	SessionCompletion    time.Duration `mapstructure:"session_completion_interval"`
}

type RateLimitConfig struct {
	BookingPerMinute int `mapstructure:"booking_per_minute"`
	WebhookPerMinute int `mapstructure:"webhook_per_minute"`
}
