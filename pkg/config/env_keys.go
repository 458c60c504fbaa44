package config

// EnvPrefix is passed to envconfig; individual keys below carry the full name
// because every field declares an explicit envconfig tag.
const EnvPrefix = "BOUTIQUE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "BOUTIQUE_APP_ENV"
	EnvPort     = "BOUTIQUE_APP_PORT"
	EnvLogLevel = "BOUTIQUE_LOG_LEVEL"

	EnvDBDSN    = "BOUTIQUE_DB_DSN"
	EnvDBDriver = "BOUTIQUE_DB_DRIVER"
	EnvDBHost   = "BOUTIQUE_DB_HOST"
	EnvDBUser   = "BOUTIQUE_DB_USER"
	EnvDBName   = "BOUTIQUE_DB_NAME"

	EnvRedisURL = "BOUTIQUE_REDIS_URL"

	EnvJWTSecret              = "BOUTIQUE_JWT_SECRET"
	EnvJWTIssuer              = "BOUTIQUE_JWT_ISSUER"
	EnvJWTExpMins             = "BOUTIQUE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BOUTIQUE_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID = "BOUTIQUE_GCP_PROJECT_ID"
	EnvGCSBucket    = "BOUTIQUE_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
