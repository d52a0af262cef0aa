package config

const EnvPrefix = "WMB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	StorageDriverLocal = "local"
	StorageDriverGCS   = "gcs"
)

const (
	EnvAppEnv   = "WMB_APP_ENV"
	EnvPort     = "WMB_APP_PORT"
	EnvLogLvl   = "WMB_LOG_LEVEL"
	EnvDBDSN    = "WMB_DB_DSN"
	EnvDBDrv    = "WMB_DB_DRIVER"
	EnvDBHost   = "WMB_DB_HOST"
	EnvDBUser   = "WMB_DB_USER"
	EnvDBName   = "WMB_DB_NAME"
	EnvRedisURL = "WMB_REDIS_URL"

	EnvAdminPassword     = "WMB_ADMIN_PASSWORD"
	EnvAdminPasswordHash = "WMB_ADMIN_PASSWORD_HASH"
	EnvAdminJWTSecret    = "WMB_ADMIN_JWT_SECRET"
	EnvAdminSessionTTL   = "WMB_ADMIN_SESSION_TTL"

	EnvShopifyDomain   = "WMB_SHOPIFY_STORE_DOMAIN"
	EnvShopifyToken    = "WMB_SHOPIFY_STOREFRONT_TOKEN"
	EnvShopifyCacheTTL = "WMB_SHOPIFY_VARIANT_CACHE_TTL"

	EnvPricingWedgeFee = "WMB_PRICING_WEDGE_ENGRAVING_FEE"

	EnvStorageDriver   = "WMB_STORAGE_DRIVER"
	EnvStorageLocalDir = "WMB_STORAGE_LOCAL_DIR"
	EnvGCSBucket       = "WMB_GCS_BUCKET_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
