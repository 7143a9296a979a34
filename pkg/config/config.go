package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Dataset      DatasetConfig
	DB           DBConfig
	Redis        RedisConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Dataset.validate(); err != nil {
		return nil, err
	}
	if cfg.Dataset.IsWarehouse() {
		if err := cfg.DB.EnsureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INSIGHTS_APP_ENV" required:"true"`
	Port         string `envconfig:"INSIGHTS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"INSIGHTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INSIGHTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DatasetSource selects where the order and geolocation tables are loaded from.
const (
	DatasetSourceCSV       = "csv"
	DatasetSourceWarehouse = "warehouse"
)

type DatasetConfig struct {
	Source         string        `envconfig:"INSIGHTS_DATASET_SOURCE" default:"csv"`
	OrdersURL      string        `envconfig:"INSIGHTS_DATASET_ORDERS_URL"`
	GeolocationURL string        `envconfig:"INSIGHTS_DATASET_GEOLOCATION_URL"`
	HTTPTimeout    time.Duration `envconfig:"INSIGHTS_DATASET_HTTP_TIMEOUT" default:"60s"`
}

func (d DatasetConfig) IsWarehouse() bool {
	return strings.EqualFold(d.Source, DatasetSourceWarehouse)
}

func (d DatasetConfig) validate() error {
	switch strings.ToLower(d.Source) {
	case DatasetSourceCSV:
		if d.OrdersURL == "" || d.GeolocationURL == "" {
			return fmt.Errorf("%s and %s are required when %s=csv", EnvDatasetOrdersURL, EnvDatasetGeoURL, EnvDatasetSource)
		}
		return nil
	case DatasetSourceWarehouse:
		return nil
	default:
		return fmt.Errorf("%s must be csv or warehouse, got %q", EnvDatasetSource, d.Source)
	}
}

type DBConfig struct {
	DSN    string `envconfig:"INSIGHTS_DB_DSN"`
	Driver string `envconfig:"INSIGHTS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INSIGHTS_DB_HOST"`
	LegacyPort     int    `envconfig:"INSIGHTS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INSIGHTS_DB_USER"`
	LegacyPassword string `envconfig:"INSIGHTS_DB_PASSWORD"`
	LegacyName     string `envconfig:"INSIGHTS_DB_NAME"`
	LegacySSLMode  string `envconfig:"INSIGHTS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INSIGHTS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INSIGHTS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INSIGHTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INSIGHTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"INSIGHTS_REDIS_URL"`
	Address      string        `envconfig:"INSIGHTS_REDIS_ADDR"`
	Password     string        `envconfig:"INSIGHTS_REDIS_PASSWORD"`
	DB           int           `envconfig:"INSIGHTS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INSIGHTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INSIGHTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INSIGHTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INSIGHTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INSIGHTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Configured reports whether a redis endpoint was supplied at all. The cache
// and rate limiter degrade to no-ops without one.
func (r RedisConfig) Configured() bool {
	return r.URL != "" || r.Address != ""
}

type CacheConfig struct {
	Enabled bool          `envconfig:"INSIGHTS_CACHE_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"INSIGHTS_CACHE_TTL" default:"5m"`
}

type RateLimitConfig struct {
	ReloadWindow  time.Duration `envconfig:"INSIGHTS_RATE_LIMIT_RELOAD_WINDOW" default:"1m"`
	ReloadIPLimit int           `envconfig:"INSIGHTS_RATE_LIMIT_RELOAD_IP_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"INSIGHTS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"INSIGHTS_AUTO_MIGRATE" default:"false"`
}

// EnsureDSN resolves the DSN from the legacy host/user/name variables when no
// explicit DSN was supplied. Under the sqlite flag a local file DSN is used.
func (db *DBConfig) EnsureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = "file:insights.db?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
