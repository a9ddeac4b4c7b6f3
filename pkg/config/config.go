package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Catalog  CatalogConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Shipping ShippingConfig
	Search   SearchConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.ensureSource(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BIBLIOTECA_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"BIBLIOTECA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BIBLIOTECA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CatalogConfig points at the static catalog source. Exactly one of Path
// (local JSON file) or URL (remote JSON document) must be set.
type CatalogConfig struct {
	Path         string        `envconfig:"BIBLIOTECA_CATALOG_PATH"`
	URL          string        `envconfig:"BIBLIOTECA_CATALOG_URL"`
	FetchTimeout time.Duration `envconfig:"BIBLIOTECA_CATALOG_FETCH_TIMEOUT" default:"10s"`
}

func (c *CatalogConfig) ensureSource() error {
	if c.Path == "" && c.URL == "" {
		return fmt.Errorf("either %s or %s is required", EnvCatalogPath, EnvCatalogURL)
	}
	if c.Path != "" && c.URL != "" {
		return fmt.Errorf("%s and %s are mutually exclusive", EnvCatalogPath, EnvCatalogURL)
	}
	return nil
}

type StorageConfig struct {
	Driver    string `envconfig:"BIBLIOTECA_STORAGE_DRIVER" default:"sqlite"`
	Path      string `envconfig:"BIBLIOTECA_STORAGE_PATH" default:"storefront.db"`
	Namespace string `envconfig:"BIBLIOTECA_STORAGE_NAMESPACE" default:"biblioteca"`
}

func (s *StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverSQLite, StorageDriverRedis:
		return nil
	default:
		return fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"BIBLIOTECA_REDIS_URL"`
	Address      string        `envconfig:"BIBLIOTECA_REDIS_ADDR"`
	Password     string        `envconfig:"BIBLIOTECA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BIBLIOTECA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BIBLIOTECA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BIBLIOTECA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BIBLIOTECA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BIBLIOTECA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BIBLIOTECA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ShippingConfig carries the flat-fee shipping policy. Orders whose
// subtotal strictly exceeds FreeThreshold ship for free.
type ShippingConfig struct {
	FreeThreshold int `envconfig:"BIBLIOTECA_SHIPPING_FREE_THRESHOLD" default:"50000"`
	FlatFee       int `envconfig:"BIBLIOTECA_SHIPPING_FLAT_FEE" default:"2500"`
}

type SearchConfig struct {
	DebounceMS int    `envconfig:"BIBLIOTECA_SEARCH_DEBOUNCE_MS" default:"400"`
	Locale     string `envconfig:"BIBLIOTECA_SEARCH_LOCALE" default:"es"`
}

// Debounce returns the trailing-edge coalescing window for search input.
func (s SearchConfig) Debounce() time.Duration {
	if s.DebounceMS <= 0 {
		return 0
	}
	return time.Duration(s.DebounceMS) * time.Millisecond
}
