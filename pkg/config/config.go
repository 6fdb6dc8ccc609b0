package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Pricing       PricingConfig
	Quoting       QuotingConfig
	Tracking      TrackingConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLEETY_APP_ENV" required:"true"`
	Port         string `envconfig:"FLEETY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLEETY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLEETY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLEETY_DB_DSN"`
	Driver string `envconfig:"FLEETY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FLEETY_DB_HOST"`
	Port     int    `envconfig:"FLEETY_DB_PORT" default:"5432"`
	User     string `envconfig:"FLEETY_DB_USER"`
	Password string `envconfig:"FLEETY_DB_PASSWORD"`
	Name     string `envconfig:"FLEETY_DB_NAME"`
	SSLMode  string `envconfig:"FLEETY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLEETY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLEETY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLEETY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLEETY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from discrete fields when one was not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either FLEETY_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FLEETY_REDIS_URL"`
	Address      string        `envconfig:"FLEETY_REDIS_ADDR"`
	Password     string        `envconfig:"FLEETY_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLEETY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLEETY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLEETY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLEETY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLEETY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLEETY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FLEETY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FLEETY_JWT_ISSUER" default:"fleety"`
	ExpirationMinutes      int    `envconfig:"FLEETY_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"FLEETY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FLEETY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FLEETY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FLEETY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FLEETY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FLEETY_ARGON_KEY_LEN" default:"32"`
}

// AuthRateLimitConfig throttles the public login and register surfaces.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FLEETY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FLEETY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FLEETY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FLEETY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FLEETY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FLEETY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// PricingConfig carries the fixed bill components. Amounts are whole currency units.
type PricingConfig struct {
	PlatformFee int64   `envconfig:"FLEETY_PRICING_PLATFORM_FEE" default:"10"`
	InfraFee    int64   `envconfig:"FLEETY_PRICING_INFRA_FEE" default:"10"`
	TaxRate     float64 `envconfig:"FLEETY_PRICING_TAX_RATE" default:"0.05"`
}

// QuotingConfig points at the external delivery-quote service.
type QuotingConfig struct {
	BaseURL  string        `envconfig:"FLEETY_QUOTING_BASE_URL"`
	Timeout  time.Duration `envconfig:"FLEETY_QUOTING_TIMEOUT" default:"10s"`
	CacheTTL time.Duration `envconfig:"FLEETY_QUOTING_CACHE_TTL" default:"15m"`
}

// TrackingConfig tunes the order-status poller.
type TrackingConfig struct {
	PollInterval time.Duration `envconfig:"FLEETY_TRACKING_POLL_INTERVAL" default:"5s"`
	MetricsPort  string        `envconfig:"FLEETY_TRACKING_METRICS_PORT" default:"9091"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FLEETY_AUTO_MIGRATE" default:"false"`
}
