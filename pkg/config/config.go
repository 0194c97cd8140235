package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "DAWLYSTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "DAWLYSTORE_DB_DSN"
	EnvDBHost = "DAWLYSTORE_DB_HOST"
	EnvDBUser = "DAWLYSTORE_DB_USER"
	EnvDBName = "DAWLYSTORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Backend       BackendConfig
	Redis         RedisConfig
	DB            DBConfig
	Session       SessionConfig
	Cart          CartConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLDB {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"DAWLYSTORE_APP_ENV" required:"true"`
	Port         string `envconfig:"DAWLYSTORE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DAWLYSTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DAWLYSTORE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the storefront at the platform API it fronts.
type BackendConfig struct {
	BaseURL string        `envconfig:"DAWLYSTORE_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"DAWLYSTORE_BACKEND_TIMEOUT" default:"15s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DAWLYSTORE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DAWLYSTORE_REDIS_ADDR"`
	Password     string        `envconfig:"DAWLYSTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"DAWLYSTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DAWLYSTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DAWLYSTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DAWLYSTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DAWLYSTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DAWLYSTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN    string `envconfig:"DAWLYSTORE_DB_DSN"`
	Driver string `envconfig:"DAWLYSTORE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DAWLYSTORE_DB_HOST"`
	LegacyPort     int    `envconfig:"DAWLYSTORE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DAWLYSTORE_DB_USER"`
	LegacyPassword string `envconfig:"DAWLYSTORE_DB_PASSWORD"`
	LegacyName     string `envconfig:"DAWLYSTORE_DB_NAME"`
	LegacySSLMode  string `envconfig:"DAWLYSTORE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DAWLYSTORE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DAWLYSTORE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DAWLYSTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DAWLYSTORE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// SessionConfig governs the customer session cookie and the platform
// access token the storefront verifies.
type SessionConfig struct {
	CookieName     string `envconfig:"DAWLYSTORE_SESSION_COOKIE_NAME" default:"ds_session"`
	CartCookieName string `envconfig:"DAWLYSTORE_CART_COOKIE_NAME" default:"ds_cart"`
	CookieSecure   bool   `envconfig:"DAWLYSTORE_SESSION_COOKIE_SECURE" default:"true"`
	TokenSecret    string `envconfig:"DAWLYSTORE_SESSION_TOKEN_SECRET" required:"true"`
	TokenIssuer    string `envconfig:"DAWLYSTORE_SESSION_TOKEN_ISSUER" required:"true"`
	TTLMinutes     int    `envconfig:"DAWLYSTORE_SESSION_TTL_MINUTES" default:"10080"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type CartConfig struct {
	SnapshotTTL time.Duration `envconfig:"DAWLYSTORE_CART_SNAPSHOT_TTL" default:"720h"`
}

type AuthRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"DAWLYSTORE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"DAWLYSTORE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLDB    bool `envconfig:"DAWLYSTORE_USE_SQL_DB" default:"false"`
	UseSQLite   bool `envconfig:"DAWLYSTORE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DAWLYSTORE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DAWLYSTORE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
