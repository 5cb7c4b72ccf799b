package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "icevibe"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Catalog CatalogConfig
	JWT     JWTConfig
	Redis   RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ICEVIBE_APP_ENV" required:"true"`
	Port         string `envconfig:"ICEVIBE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ICEVIBE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ICEVIBE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the terminal at the venue's REST backend.
type BackendConfig struct {
	BaseURL        string        `envconfig:"ICEVIBE_BACKEND_URL" required:"true"`
	Timeout        time.Duration `envconfig:"ICEVIBE_BACKEND_TIMEOUT" default:"30s"`
	WhatsAppNumber string        `envconfig:"ICEVIBE_WHATSAPP_NUMBER"`
}

type CatalogConfig struct {
	RefreshInterval time.Duration `envconfig:"ICEVIBE_CATALOG_REFRESH_INTERVAL" default:"30s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ICEVIBE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ICEVIBE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ICEVIBE_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type RedisConfig struct {
	URL          string        `envconfig:"ICEVIBE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ICEVIBE_REDIS_ADDR"`
	Password     string        `envconfig:"ICEVIBE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ICEVIBE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ICEVIBE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ICEVIBE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ICEVIBE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ICEVIBE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ICEVIBE_REDIS_WRITE_TIMEOUT" default:"5s"`
}
