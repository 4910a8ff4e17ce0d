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
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Pricing       PricingConfig
	Inventory     InventoryConfig
	Cron          CronConfig
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
	Env          string `envconfig:"MRITIKA_APP_ENV" required:"true"`
	Port         string `envconfig:"MRITIKA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MRITIKA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MRITIKA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MRITIKA_DB_DSN"`
	Driver string `envconfig:"MRITIKA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MRITIKA_DB_HOST"`
	LegacyPort     int    `envconfig:"MRITIKA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MRITIKA_DB_USER"`
	LegacyPassword string `envconfig:"MRITIKA_DB_PASSWORD"`
	LegacyName     string `envconfig:"MRITIKA_DB_NAME"`
	LegacySSLMode  string `envconfig:"MRITIKA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MRITIKA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MRITIKA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MRITIKA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MRITIKA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MRITIKA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MRITIKA_REDIS_ADDR"`
	Password     string        `envconfig:"MRITIKA_REDIS_PASSWORD"`
	DB           int           `envconfig:"MRITIKA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MRITIKA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MRITIKA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MRITIKA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MRITIKA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MRITIKA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MRITIKA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MRITIKA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"MRITIKA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"MRITIKA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MRITIKA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MRITIKA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MRITIKA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MRITIKA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MRITIKA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MRITIKA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MRITIKA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MRITIKA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MRITIKA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MRITIKA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MRITIKA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MRITIKA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MRITIKA_AUTO_MIGRATE" default:"false"`
}

// PricingConfig names the storefront's business constants. The values are
// fixed business rules (18% GST, flat shipping below the free threshold), held
// here instead of inline literals so every consumer reads the same numbers.
type PricingConfig struct {
	GSTRate               decimal.Decimal `envconfig:"MRITIKA_PRICING_GST_RATE" default:"0.18"`
	FreeShippingThreshold decimal.Decimal `envconfig:"MRITIKA_PRICING_FREE_SHIPPING_THRESHOLD" default:"1499"`
	ShippingFlatRate      decimal.Decimal `envconfig:"MRITIKA_PRICING_SHIPPING_FLAT_RATE" default:"99"`
	CostMarginFallback    decimal.Decimal `envconfig:"MRITIKA_PRICING_COST_MARGIN_FALLBACK" default:"0.6"`
	// TurnoverRate is a placeholder metric, not derived from order history.
	TurnoverRate float64 `envconfig:"MRITIKA_PRICING_TURNOVER_RATE" default:"2.5"`
}

type InventoryConfig struct {
	LowStockThreshold int `envconfig:"MRITIKA_INVENTORY_LOW_STOCK_THRESHOLD" default:"5"`
}

type CronConfig struct {
	StaleCartAge      time.Duration `envconfig:"MRITIKA_CRON_STALE_CART_AGE" default:"720h"`
	SweepInterval     time.Duration `envconfig:"MRITIKA_CRON_SWEEP_INTERVAL" default:"1h"`
	MetricsListenAddr string        `envconfig:"MRITIKA_CRON_METRICS_ADDR" default:":9102"`
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
