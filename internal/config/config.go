package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DBDriverMongo    = "mongo"
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// document store
	DBDriver       string `toml:"db_driver"`
	MongoURI       string `toml:"mongo_uri"`
	MongoDBName    string `toml:"mongo_db_name"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// auth
	AdminEmails                 []string `toml:"admin_emails"`
	SessionTTLHours             int      `toml:"session_ttl_hours"`
	SessionCleanupCron          string   `toml:"session_cleanup_cron"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`
	ContactRateLimitPerHour     int      `toml:"contact_rate_limit_per_hour"`

	// uploads
	UploadsPath       string `toml:"uploads_path"`
	UploadsBaseURL    string `toml:"uploads_base_url"` // public origin of upload urls, relative when empty
	UploadMaxSizeMB   int    `toml:"upload_max_size_mb"`
	UploadMaxWidth    int    `toml:"upload_max_width"`
	ThumbnailWidth    int    `toml:"thumbnail_width"`
	ProjectsCacheSize int    `toml:"projects_cache_size_mb"`
	ProjectsCacheTTL  int    `toml:"projects_cache_ttl_sec"`

	// contact
	ContactWebhookURL string `toml:"contact_webhook_url"`

	AllowedOrigins []string `toml:"allowed_origins"`
	// reverse proxies allowed to set X-Real-Ip / X-Forwarded-For, ips or cidrs
	TrustedProxies []string `toml:"trusted_proxies"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	Secrets Secrets `toml:"-"`
}

// Secrets are never stored in the config file, only taken from env.
type Secrets struct {
	JWTSecret        string `env:"PORTFOLIO_JWT_SECRET"`
	RedisPassword    string `env:"PORTFOLIO_REDIS_PASS"`
	PostgresUser     string `env:"PORTFOLIO_POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"PORTFOLIO_POSTGRES_PASS"`
	IpInfoAPIKey     string `env:"IP_INFO_API_KEY"`
	SentryDSN        string `env:"SENTRY_DSN"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED" envDefault:"false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"portfolio-backend"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML config for the given env, applies defaults and
// loads secrets from the environment (optionally from a .env file).
func Load(envName, configPath string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(configPath, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return fromToml(&t, envName)
}

// Parse is like Load, but takes the TOML document directly.
func Parse(envName, tomlData string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(tomlData, &t); err != nil {
		return nil, fmt.Errorf("decode toml config: %w", err)
	}
	return fromToml(&t, envName)
}

func fromToml(t *Toml, envName string) (*Config, error) {
	cfg, err := t.Get(envName)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", envName)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	secrets, err := LoadSecrets()
	if err != nil {
		return nil, err
	}
	cfg.Secrets = secrets

	return cfg, nil
}

// LoadSecrets reads secrets from the process env. A .env file in the
// working dir is loaded first, if present.
func LoadSecrets() (Secrets, error) {
	if err := godotenv.Load(); err != nil {
		log.Tracef("no .env file loaded: %s", err)
	}

	var s Secrets
	if err := env.Parse(&s); err != nil {
		return Secrets{}, fmt.Errorf("parse env secrets: %w", err)
	}
	return s, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.DBDriver == "" {
		c.DBDriver = DBDriverMemory
	}
	if c.MongoDBName == "" {
		c.MongoDBName = "portfolio"
	}
	if c.SessionTTLHours <= 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.SessionCleanupCron == "" {
		c.SessionCleanupCron = "@every 8h"
	}
	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 5
	}
	if c.ContactRateLimitPerHour <= 0 {
		c.ContactRateLimitPerHour = 10
	}
	if c.UploadsPath == "" {
		c.UploadsPath = "./uploads"
	}
	if c.UploadMaxSizeMB <= 0 {
		c.UploadMaxSizeMB = 10
	}
	if c.UploadMaxWidth <= 0 {
		c.UploadMaxWidth = 2000
	}
	if c.ThumbnailWidth <= 0 {
		c.ThumbnailWidth = 400
	}
	if c.ProjectsCacheSize <= 0 {
		c.ProjectsCacheSize = 8
	}
	if c.ProjectsCacheTTL <= 0 {
		c.ProjectsCacheTTL = 60
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DBDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongo_uri required for db driver [%s]", c.DBDriver)
		}
	case DBDriverPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres host, port and db name required for db driver [%s]", c.DBDriver)
		}
	case DBDriverMemory:
	default:
		return fmt.Errorf("unknown db driver: %s", c.DBDriver)
	}
	return nil
}
