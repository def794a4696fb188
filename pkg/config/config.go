package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable read by the service.
	EnvPrefix = "OCEANMATE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "OCEANMATE_DB_DSN"
	EnvDBHost = "OCEANMATE_DB_HOST"
	EnvDBUser = "OCEANMATE_DB_USER"
	EnvDBName = "OCEANMATE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	Media         MediaConfig
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
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OCEANMATE_APP_ENV" required:"true"`
	Port         string `envconfig:"OCEANMATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OCEANMATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OCEANMATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OCEANMATE_DB_DSN"`
	Driver string `envconfig:"OCEANMATE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OCEANMATE_DB_HOST"`
	LegacyPort     int    `envconfig:"OCEANMATE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OCEANMATE_DB_USER"`
	LegacyPassword string `envconfig:"OCEANMATE_DB_PASSWORD"`
	LegacyName     string `envconfig:"OCEANMATE_DB_NAME"`
	LegacySSLMode  string `envconfig:"OCEANMATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OCEANMATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OCEANMATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OCEANMATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OCEANMATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OCEANMATE_REDIS_URL"`
	Address      string        `envconfig:"OCEANMATE_REDIS_ADDR"`
	Password     string        `envconfig:"OCEANMATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"OCEANMATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OCEANMATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OCEANMATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OCEANMATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OCEANMATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OCEANMATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"OCEANMATE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"OCEANMATE_JWT_ISSUER" required:"true"`
	// Sessions expire after 24 hours, matching the client-enforced expiry the
	// web frontend applies to its stored credentials.
	ExpirationMinutes int `envconfig:"OCEANMATE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OCEANMATE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OCEANMATE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OCEANMATE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OCEANMATE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OCEANMATE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"OCEANMATE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit    int           `envconfig:"OCEANMATE_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"OCEANMATE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow    time.Duration `envconfig:"OCEANMATE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUserLimit int           `envconfig:"OCEANMATE_AUTH_RATE_LIMIT_REGISTER_USER_LIMIT" default:"3"`
	RegisterIPLimit   int           `envconfig:"OCEANMATE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

const (
	CartBackendMemory = "memory"
	CartBackendRedis  = "redis"
)

// CartConfig decides where buyer carts live. The in-memory backend matches the
// original behavior (carts do not survive a restart); the redis backend keeps
// carts for TTL so a buyer can resume a session.
type CartConfig struct {
	Backend string        `envconfig:"OCEANMATE_CART_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"OCEANMATE_CART_TTL" default:"72h"`
}

func (c CartConfig) validate() error {
	switch c.Backend {
	case CartBackendMemory, CartBackendRedis:
		return nil
	default:
		return fmt.Errorf("invalid cart backend %q (expected %s or %s)", c.Backend, CartBackendMemory, CartBackendRedis)
	}
}

// MediaConfig controls where listing photos are stored and the URL prefix they
// are served from.
type MediaConfig struct {
	Dir     string `envconfig:"OCEANMATE_MEDIA_DIR" default:"./media"`
	BaseURL string `envconfig:"OCEANMATE_MEDIA_BASE_URL" default:"/media"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"OCEANMATE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"OCEANMATE_AUTO_MIGRATE" default:"false"`
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
