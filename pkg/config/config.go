package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Passcode PasscodeConfig
	Cart     CartConfig
	Uploads  UploadsConfig
	Flags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Cart.DeliveryChargeDecimal(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TIFFINBOX_APP_ENV" required:"true"`
	Port         string `envconfig:"TIFFINBOX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TIFFINBOX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TIFFINBOX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TIFFINBOX_DB_DSN"`
	Driver string `envconfig:"TIFFINBOX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TIFFINBOX_DB_HOST"`
	LegacyPort     int    `envconfig:"TIFFINBOX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TIFFINBOX_DB_USER"`
	LegacyPassword string `envconfig:"TIFFINBOX_DB_PASSWORD"`
	LegacyName     string `envconfig:"TIFFINBOX_DB_NAME"`
	LegacySSLMode  string `envconfig:"TIFFINBOX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TIFFINBOX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TIFFINBOX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TIFFINBOX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TIFFINBOX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TIFFINBOX_REDIS_URL" required:"true"`
	Password     string        `envconfig:"TIFFINBOX_REDIS_PASSWORD"`
	DB           int           `envconfig:"TIFFINBOX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TIFFINBOX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TIFFINBOX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TIFFINBOX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TIFFINBOX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TIFFINBOX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret         string `envconfig:"TIFFINBOX_JWT_SECRET" required:"true"`
	Issuer         string `envconfig:"TIFFINBOX_JWT_ISSUER" required:"true"`
	ExpirationDays int    `envconfig:"TIFFINBOX_JWT_EXPIRATION_DAYS" default:"30"`
	CookieName     string `envconfig:"TIFFINBOX_JWT_COOKIE_NAME" default:"token"`
}

// TokenTTL returns the session validity window.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationDays <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationDays) * 24 * time.Hour
}

type PasscodeConfig struct {
	TTL time.Duration `envconfig:"TIFFINBOX_PASSCODE_TTL" default:"5m"`
	// DevCode pins the issued code in non-prod environments so the flow can
	// be exercised without an SMS gateway.
	DevCode string `envconfig:"TIFFINBOX_PASSCODE_DEV_CODE" default:"123456"`
}

type CartConfig struct {
	DeliveryCharge string `envconfig:"TIFFINBOX_CART_DELIVERY_CHARGE" default:"30"`
}

// DeliveryChargeDecimal parses the configured flat delivery charge.
func (c CartConfig) DeliveryChargeDecimal() (decimal.Decimal, error) {
	charge, err := decimal.NewFromString(c.DeliveryCharge)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid delivery charge %q: %w", c.DeliveryCharge, err)
	}
	if charge.IsNegative() {
		return decimal.Zero, fmt.Errorf("delivery charge must not be negative")
	}
	return charge, nil
}

type UploadsConfig struct {
	Dir        string `envconfig:"TIFFINBOX_UPLOADS_DIR" default:"uploads"`
	PublicPath string `envconfig:"TIFFINBOX_UPLOADS_PUBLIC_PATH" default:"/uploads"`
	MaxImages  int    `envconfig:"TIFFINBOX_UPLOADS_MAX_IMAGES" default:"6"`
	MaxSizeMB  int    `envconfig:"TIFFINBOX_UPLOADS_MAX_SIZE_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TIFFINBOX_AUTO_MIGRATE" default:"false"`
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
