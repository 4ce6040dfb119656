package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Settings      SettingsConfig
	SMTP          SMTPConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Settings.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VENDAPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDAPOINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VENDAPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDAPOINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VENDAPOINT_DB_DSN"`
	Driver string `envconfig:"VENDAPOINT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VENDAPOINT_DB_HOST"`
	LegacyPort     int    `envconfig:"VENDAPOINT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VENDAPOINT_DB_USER"`
	LegacyPassword string `envconfig:"VENDAPOINT_DB_PASSWORD"`
	LegacyName     string `envconfig:"VENDAPOINT_DB_NAME"`
	LegacySSLMode  string `envconfig:"VENDAPOINT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDAPOINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDAPOINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDAPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDAPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDAPOINT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VENDAPOINT_REDIS_ADDR"`
	Password     string        `envconfig:"VENDAPOINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDAPOINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDAPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDAPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDAPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDAPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDAPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VENDAPOINT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VENDAPOINT_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VENDAPOINT_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VENDAPOINT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VENDAPOINT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VENDAPOINT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VENDAPOINT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VENDAPOINT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VENDAPOINT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"VENDAPOINT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"VENDAPOINT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"VENDAPOINT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENDAPOINT_AUTO_MIGRATE" default:"false"`
}

// SettingsConfig replaces the mutable key/value settings table the legacy back
// office kept in its database. Every knob is injected at startup so nothing in
// the request path reads ad hoc globals.
type SettingsConfig struct {
	// ReferralCodeLength controls generated promo code length.
	ReferralCodeLength int `envconfig:"VENDAPOINT_REFERRAL_CODE_LENGTH" default:"8"`
	// CommissionDepth bounds the upline walk. The comp plan pays four levels.
	CommissionDepth int `envconfig:"VENDAPOINT_COMMISSION_DEPTH" default:"4"`
	// CashoutDay is the day of month cashout requests open. Zero allows any day.
	CashoutDay int `envconfig:"VENDAPOINT_CASHOUT_DAY" default:"0"`
}

func (s SettingsConfig) validate() error {
	if s.ReferralCodeLength < 4 || s.ReferralCodeLength > 32 {
		return fmt.Errorf("referral code length must be between 4 and 32, got %d", s.ReferralCodeLength)
	}
	if s.CommissionDepth < 1 {
		return fmt.Errorf("commission depth must be positive, got %d", s.CommissionDepth)
	}
	if s.CashoutDay < 0 || s.CashoutDay > 28 {
		return fmt.Errorf("cashout day must be between 0 and 28, got %d", s.CashoutDay)
	}
	return nil
}

type SMTPConfig struct {
	Host     string `envconfig:"VENDAPOINT_SMTP_HOST"`
	Port     int    `envconfig:"VENDAPOINT_SMTP_PORT" default:"587"`
	User     string `envconfig:"VENDAPOINT_SMTP_USER"`
	Password string `envconfig:"VENDAPOINT_SMTP_PASSWORD"`
	From     string `envconfig:"VENDAPOINT_SMTP_FROM"`
}

// Enabled reports whether outbound mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

type GCPConfig struct {
	ProjectID string `envconfig:"VENDAPOINT_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"VENDAPOINT_PUBSUB_DOMAIN_TOPIC" default:"vp-domain-events"`
	DomainSubscription string `envconfig:"VENDAPOINT_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"VENDAPOINT_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"VENDAPOINT_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"VENDAPOINT_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
