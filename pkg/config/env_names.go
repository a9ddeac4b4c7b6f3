package config

const (
	EnvPrefix = "BIBLIOTECA"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"

	EnvAppEnv        = "BIBLIOTECA_APP_ENV"
	EnvLogLevel      = "BIBLIOTECA_LOG_LEVEL"
	EnvCatalogPath   = "BIBLIOTECA_CATALOG_PATH"
	EnvCatalogURL    = "BIBLIOTECA_CATALOG_URL"
	EnvStorageDriver = "BIBLIOTECA_STORAGE_DRIVER"
	EnvStoragePath   = "BIBLIOTECA_STORAGE_PATH"
	EnvRedisURL      = "BIBLIOTECA_REDIS_URL"
	EnvFreeThreshold = "BIBLIOTECA_SHIPPING_FREE_THRESHOLD"
	EnvFlatFee       = "BIBLIOTECA_SHIPPING_FLAT_FEE"
)
