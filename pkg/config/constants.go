package config

const EnvPrefix = "INSIGHTS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "INSIGHTS_APP_ENV"
	EnvPort     = "INSIGHTS_APP_PORT"
	EnvDBDSN    = "INSIGHTS_DB_DSN"
	EnvDBHost   = "INSIGHTS_DB_HOST"
	EnvDBUser   = "INSIGHTS_DB_USER"
	EnvDBName   = "INSIGHTS_DB_NAME"
	EnvRedisURL = "INSIGHTS_REDIS_URL"

	EnvDatasetSource    = "INSIGHTS_DATASET_SOURCE"
	EnvDatasetOrdersURL = "INSIGHTS_DATASET_ORDERS_URL"
	EnvDatasetGeoURL    = "INSIGHTS_DATASET_GEOLOCATION_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
