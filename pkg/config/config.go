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
	Cart          CartConfig
	Checkout      CheckoutConfig
	CORS          CORSConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ISSAQ_APP_ENV" required:"true"`
	Port         string `envconfig:"ISSAQ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ISSAQ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ISSAQ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	DSN    string `envconfig:"ISSAQ_DB_DSN"`
	Driver string `envconfig:"ISSAQ_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"ISSAQ_DB_HOST"`
	Port     int    `envconfig:"ISSAQ_DB_PORT" default:"5432"`
	User     string `envconfig:"ISSAQ_DB_USER"`
	Password string `envconfig:"ISSAQ_DB_PASSWORD"`
	Name     string `envconfig:"ISSAQ_DB_NAME"`
	SSLMode  string `envconfig:"ISSAQ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ISSAQ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ISSAQ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ISSAQ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ISSAQ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ISSAQ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ISSAQ_REDIS_ADDR"`
	Password     string        `envconfig:"ISSAQ_REDIS_PASSWORD"`
	DB           int           `envconfig:"ISSAQ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ISSAQ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ISSAQ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ISSAQ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ISSAQ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ISSAQ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ISSAQ_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ISSAQ_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ISSAQ_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ISSAQ_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the lifetime of minted access tokens.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ISSAQ_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ISSAQ_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ISSAQ_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ISSAQ_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ISSAQ_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"ISSAQ_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"ISSAQ_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"ISSAQ_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ISSAQ_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ISSAQ_AUTO_MIGRATE" default:"false"`
}

// CartConfig controls how long an idle cart survives in Redis.
type CartConfig struct {
	TTL          time.Duration `envconfig:"ISSAQ_CART_TTL" default:"720h"`
	CookieSecure bool          `envconfig:"ISSAQ_CART_COOKIE_SECURE" default:"false"`
}

type CheckoutConfig struct {
	ConfirmationTTL time.Duration `envconfig:"ISSAQ_CHECKOUT_CONFIRMATION_TTL" default:"15m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"ISSAQ_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ISSAQ_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ISSAQ_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ISSAQ_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName    string `envconfig:"ISSAQ_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL string `envconfig:"ISSAQ_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

type MediaConfig struct {
	MaxUploadMB    int `envconfig:"ISSAQ_MAX_UPLOAD_MB" default:"10"`
	ImageMaxWidth  int `envconfig:"ISSAQ_MEDIA_IMAGE_MAX_WIDTH" default:"1920"`
	ImageMaxHeight int `envconfig:"ISSAQ_MEDIA_IMAGE_MAX_HEIGHT" default:"1080"`
	ImageQuality   int `envconfig:"ISSAQ_MEDIA_IMAGE_QUALITY" default:"80"`
}

// MaxUploadBytes converts the configured megabyte limit into bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	if m.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(m.MaxUploadMB) << 20
}

// PubSubConfig leaves OrdersTopic empty to disable order event publishing.
type PubSubConfig struct {
	OrdersTopic string `envconfig:"ISSAQ_PUBSUB_ORDERS_TOPIC"`
}

// Enabled reports whether an orders topic was configured.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.OrdersTopic) != ""
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.DSN = "file:issaq.db?cache=shared"
		return nil
	}

	missing := []string{}
	parts := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if parts[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
