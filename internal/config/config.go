package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Storage backend names accepted by STORAGE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// RedisConfig holds the connection parameters for the redis backend.
type RedisConfig struct {
	URL          string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend     string `envconfig:"STORAGE_BACKEND" default:"file"`
	DataDir     string `envconfig:"DATA_DIR" default:"./data"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"./etalase.db"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	CatalogKey  string `envconfig:"CATALOG_KEY" default:"etalase_products"`
	OffsetKey   string `envconfig:"OFFSET_KEY" default:"etalase_offset"`
	Redis       RedisConfig
}

// AdminConfig holds the fixed panel credentials. The check is a UI gate only.
type AdminConfig struct {
	Username      string        `envconfig:"ADMIN_USERNAME" default:"ZeroXitAndro"`
	Password      string        `envconfig:"ADMIN_PASSWORD" default:"ROBB15"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	SecurityLog   string        `envconfig:"SECURITY_LOG" default:"security.log"`
}

// Config is the full application configuration, sourced from the environment.
type Config struct {
	Env            string        `envconfig:"APP_ENV" default:"development"`
	Port           string        `envconfig:"PORT" default:"8082"`
	TLSEnabled     bool          `envconfig:"TLS_ENABLED" default:"false"`
	HTTPSPort      string        `envconfig:"HTTPS_PORT" default:"8443"`
	TLSCertFile    string        `envconfig:"TLS_CERT_FILE" default:"localhost.crt"`
	TLSKeyFile     string        `envconfig:"TLS_KEY_FILE" default:"localhost.key"`
	TickInterval   time.Duration `envconfig:"TICK_INTERVAL" default:"1s"`
	OrderRecipient string        `envconfig:"ORDER_RECIPIENT" default:"6289653938936"`

	Storage StorageConfig
	Admin   AdminConfig
}

// Environment returns the parsed APP_ENV value.
func (c *Config) Environment() Environment {
	return ParseEnvironment(c.Env)
}

// Validate checks the values envconfig cannot express with tags.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendSQLite:
	case BackendPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.Storage.CatalogKey == "" || c.Storage.OffsetKey == "" {
		return fmt.Errorf("CATALOG_KEY and OFFSET_KEY must not be empty")
	}
	if c.Storage.CatalogKey == c.Storage.OffsetKey {
		return fmt.Errorf("CATALOG_KEY and OFFSET_KEY must differ")
	}
	return nil
}

// Load reads an optional .env file and then processes the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
