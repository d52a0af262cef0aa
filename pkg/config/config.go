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
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Admin        AdminConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Shopify      ShopifyConfig
	Pricing      PricingConfig
	Basket       BasketConfig
	Enquiry      EnquiryConfig
	Storage      StorageConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Sendgrid     SendgridConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Admin.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(cfg.GCS); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadPassword reads only the Argon2id cost settings, for tools that hash
// the admin secret without a full environment.
func LoadPassword() (PasswordConfig, error) {
	var cfg PasswordConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return PasswordConfig{}, fmt.Errorf("parsing password config: %w", err)
	}
	return cfg, nil
}

type AppConfig struct {
	Env           string `envconfig:"WMB_APP_ENV" required:"true"`
	Port          string `envconfig:"WMB_APP_PORT" default:"8080"`
	LogLevel      string `envconfig:"WMB_LOG_LEVEL" default:"info"`
	LogFormat     string `envconfig:"WMB_LOG_FORMAT" default:"json"`
	LogWarnStack  bool   `envconfig:"WMB_LOG_WARN_STACK" default:"false"`
	PublicBaseURL string `envconfig:"WMB_PUBLIC_BASE_URL" default:"http://localhost:3000"`
	// comma separated
	CORSOrigins string `envconfig:"WMB_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

// AllowedOrigins splits CORSOrigins, ignoring blanks.
func (a AppConfig) AllowedOrigins() []string {
	out := []string{}
	for _, part := range strings.Split(a.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type DBConfig struct {
	DSN    string `envconfig:"WMB_DB_DSN"`
	Driver string `envconfig:"WMB_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"WMB_DB_HOST"`
	Port     int    `envconfig:"WMB_DB_PORT" default:"5432"`
	User     string `envconfig:"WMB_DB_USER"`
	Password string `envconfig:"WMB_DB_PASSWORD"`
	Name     string `envconfig:"WMB_DB_NAME"`
	SSLMode  string `envconfig:"WMB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WMB_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"WMB_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"WMB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WMB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// queries slower than this are logged at warn
	SlowQueryThreshold time.Duration `envconfig:"WMB_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

// IsSQLite reports whether the sqlite driver was selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"WMB_REDIS_URL"`
	Address      string        `envconfig:"WMB_REDIS_ADDR"`
	Password     string        `envconfig:"WMB_REDIS_PASSWORD"`
	DB           int           `envconfig:"WMB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WMB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WMB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WMB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WMB_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WMB_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// AdminConfig guards the enquiry dashboard. There are no operator accounts,
// only a shared secret.
type AdminConfig struct {
	Password     string        `envconfig:"WMB_ADMIN_PASSWORD"`
	PasswordHash string        `envconfig:"WMB_ADMIN_PASSWORD_HASH"`
	JWTSecret    string        `envconfig:"WMB_ADMIN_JWT_SECRET" required:"true"`
	JWTIssuer    string        `envconfig:"WMB_ADMIN_JWT_ISSUER" default:"wmbgolfco-admin"`
	SessionTTL   time.Duration `envconfig:"WMB_ADMIN_SESSION_TTL" default:"24h"`
	CookieName   string        `envconfig:"WMB_ADMIN_COOKIE_NAME" default:"admin_auth"`
}

func (a AdminConfig) validate() error {
	if strings.TrimSpace(a.Password) == "" && strings.TrimSpace(a.PasswordHash) == "" {
		return fmt.Errorf("either %s or %s is required", EnvAdminPassword, EnvAdminPasswordHash)
	}
	if a.SessionTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvAdminSessionTTL)
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WMB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WMB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WMB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WMB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WMB_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	EnquiryWindow     time.Duration `envconfig:"WMB_RATE_LIMIT_ENQUIRY_WINDOW" default:"10m"`
	EnquiryIPLimit    int           `envconfig:"WMB_RATE_LIMIT_ENQUIRY_IP_LIMIT" default:"5"`
	AdminLoginWindow  time.Duration `envconfig:"WMB_RATE_LIMIT_ADMIN_LOGIN_WINDOW" default:"1m"`
	AdminLoginIPLimit int           `envconfig:"WMB_RATE_LIMIT_ADMIN_LOGIN_IP_LIMIT" default:"10"`
	LogoWindow        time.Duration `envconfig:"WMB_RATE_LIMIT_LOGO_WINDOW" default:"1m"`
	LogoIPLimit       int           `envconfig:"WMB_RATE_LIMIT_LOGO_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WMB_AUTO_MIGRATE" default:"false"`
}

type ShopifyConfig struct {
	StoreDomain     string        `envconfig:"WMB_SHOPIFY_STORE_DOMAIN" required:"true"`
	StorefrontToken string        `envconfig:"WMB_SHOPIFY_STOREFRONT_TOKEN" required:"true"`
	APIVersion      string        `envconfig:"WMB_SHOPIFY_API_VERSION" default:"2024-10"`
	Timeout         time.Duration `envconfig:"WMB_SHOPIFY_TIMEOUT" default:"10s"`
	// zero keeps resolved variants for the life of the process
	VariantCacheTTL    time.Duration `envconfig:"WMB_SHOPIFY_VARIANT_CACHE_TTL" default:"0"`
	ResolveConcurrency int           `envconfig:"WMB_SHOPIFY_RESOLVE_CONCURRENCY" default:"4"`

	BreakerMaxRequests  uint32        `envconfig:"WMB_SHOPIFY_BREAKER_MAX_REQUESTS" default:"1"`
	BreakerInterval     time.Duration `envconfig:"WMB_SHOPIFY_BREAKER_INTERVAL" default:"60s"`
	BreakerTimeout      time.Duration `envconfig:"WMB_SHOPIFY_BREAKER_TIMEOUT" default:"30s"`
	BreakerFailureRatio float64       `envconfig:"WMB_SHOPIFY_BREAKER_FAILURE_RATIO" default:"0.5"`
	BreakerMinRequests  uint32        `envconfig:"WMB_SHOPIFY_BREAKER_MIN_REQUESTS" default:"5"`
}

// PricingConfig holds the fee table. It is read once at startup and handed
// to the pricing engine as an immutable value.
type PricingConfig struct {
	WedgeEngravingFee      decimal.Decimal `envconfig:"WMB_PRICING_WEDGE_ENGRAVING_FEE" default:"30.00"`
	PerLetterFee           decimal.Decimal `envconfig:"WMB_PRICING_PER_LETTER_FEE" default:"5.00"`
	PatternFee             decimal.Decimal `envconfig:"WMB_PRICING_PATTERN_FEE" default:"15.00"`
	StandardPostageTitle   string          `envconfig:"WMB_PRICING_STANDARD_POSTAGE_TITLE" default:"Standard Postage"`
	ClubReturnPostageTitle string          `envconfig:"WMB_PRICING_CLUB_RETURN_POSTAGE_TITLE" default:"Club Return Postage"`
}

type BasketConfig struct {
	CookieName string        `envconfig:"WMB_BASKET_COOKIE_NAME" default:"wmb_basket"`
	TTL        time.Duration `envconfig:"WMB_BASKET_TTL" default:"720h"`
	MaxItems   int           `envconfig:"WMB_BASKET_MAX_ITEMS" default:"50"`
}

type EnquiryConfig struct {
	MaxFileBytes  int64 `envconfig:"WMB_ENQUIRY_MAX_FILE_BYTES" default:"10485760"`
	MaxFiles      int   `envconfig:"WMB_ENQUIRY_MAX_FILES" default:"10"`
	AdminPageSize int   `envconfig:"WMB_ENQUIRY_ADMIN_PAGE_SIZE" default:"20"`
}

type StorageConfig struct {
	Driver        string `envconfig:"WMB_STORAGE_DRIVER" default:"local"`
	LocalDir      string `envconfig:"WMB_STORAGE_LOCAL_DIR" default:"./uploads"`
	LocalBaseURL  string `envconfig:"WMB_STORAGE_LOCAL_BASE_URL" default:"/uploads"`
	PublicBaseURL string `envconfig:"WMB_STORAGE_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
}

// UsesGCS reports whether uploads go to the configured bucket.
func (s StorageConfig) UsesGCS() bool {
	return strings.EqualFold(strings.TrimSpace(s.Driver), StorageDriverGCS)
}

func (s StorageConfig) validate(gcs GCSConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverLocal:
		if strings.TrimSpace(s.LocalDir) == "" {
			return fmt.Errorf("%s is required for local storage", EnvStorageLocalDir)
		}
	case StorageDriverGCS:
		if strings.TrimSpace(gcs.BucketName) == "" {
			return fmt.Errorf("%s is required for gcs storage", EnvGCSBucket)
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
	return nil
}

type GCPConfig struct {
	ProjectID              string `envconfig:"WMB_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"WMB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"WMB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"WMB_GCS_BUCKET_NAME"`
}

type SendgridConfig struct {
	APIKey        string `envconfig:"WMB_SENDGRID_API_KEY"`
	DefaultFrom   string `envconfig:"WMB_SENDGRID_FROM_EMAIL" default:"noreply@wmbgolfco.com"`
	LogoRecipient string `envconfig:"WMB_SENDGRID_LOGO_RECIPIENT" default:"info@wmbgolfco.com"`
}

// Enabled reports whether mail delivery is configured.
func (s SendgridConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:wmb.db?cache=shared"
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
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
