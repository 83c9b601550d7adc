package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable the app reads.
const EnvPrefix = "PETITMARCHE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "PETITMARCHE_DB_DSN"
	EnvDBHost = "PETITMARCHE_DB_HOST"
	EnvDBUser = "PETITMARCHE_DB_USER"
	EnvDBName = "PETITMARCHE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Stripe       StripeConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"PETITMARCHE_APP_ENV" required:"true"`
	Port         string `envconfig:"PETITMARCHE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PETITMARCHE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PETITMARCHE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PETITMARCHE_DB_DSN"`
	Driver string `envconfig:"PETITMARCHE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PETITMARCHE_DB_HOST"`
	LegacyPort     int    `envconfig:"PETITMARCHE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PETITMARCHE_DB_USER"`
	LegacyPassword string `envconfig:"PETITMARCHE_DB_PASSWORD"`
	LegacyName     string `envconfig:"PETITMARCHE_DB_NAME"`
	LegacySSLMode  string `envconfig:"PETITMARCHE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PETITMARCHE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PETITMARCHE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PETITMARCHE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PETITMARCHE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PETITMARCHE_REDIS_URL"`
	Address      string        `envconfig:"PETITMARCHE_REDIS_ADDR"`
	Password     string        `envconfig:"PETITMARCHE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PETITMARCHE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PETITMARCHE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PETITMARCHE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PETITMARCHE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PETITMARCHE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PETITMARCHE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PETITMARCHE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PETITMARCHE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PETITMARCHE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token TTL.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PETITMARCHE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PETITMARCHE_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"PETITMARCHE_ARGON_PARALLELISM" default:"4"`
	ArgonSaltLen     int `envconfig:"PETITMARCHE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PETITMARCHE_ARGON_KEY_LEN" default:"32"`
}

type StripeConfig struct {
	APIKey string `envconfig:"PETITMARCHE_STRIPE_API_KEY"`
	Secret string `envconfig:"PETITMARCHE_STRIPE_SECRET"`
	Env    string `envconfig:"PETITMARCHE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PETITMARCHE_AUTO_MIGRATE" default:"false"`
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
