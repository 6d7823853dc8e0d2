package config

const EnvPrefix = "ISSAQ"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "ISSAQ_APP_ENV"
	EnvPort     = "ISSAQ_APP_PORT"
	EnvLogLevel = "ISSAQ_LOG_LEVEL"

	EnvDBDSN  = "ISSAQ_DB_DSN"
	EnvDBHost = "ISSAQ_DB_HOST"
	EnvDBPort = "ISSAQ_DB_PORT"
	EnvDBUser = "ISSAQ_DB_USER"
	EnvDBPass = "ISSAQ_DB_PASSWORD"
	EnvDBName = "ISSAQ_DB_NAME"

	EnvRedisURL = "ISSAQ_REDIS_URL"

	EnvJWTSecret              = "ISSAQ_JWT_SECRET"
	EnvJWTIssuer              = "ISSAQ_JWT_ISSUER"
	EnvJWTExpMins             = "ISSAQ_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ISSAQ_REFRESH_TOKEN_TTL_MINUTES"

	EnvUseSQLite   = "ISSAQ_USE_SQLITE"
	EnvAutoMigrate = "ISSAQ_AUTO_MIGRATE"

	EnvCartTTL            = "ISSAQ_CART_TTL"
	EnvCheckoutConfirmTTL = "ISSAQ_CHECKOUT_CONFIRMATION_TTL"
	EnvCORSOrigins        = "ISSAQ_CORS_ALLOWED_ORIGINS"

	EnvGCPProjectID     = "ISSAQ_GCP_PROJECT_ID"
	EnvGCSBucket        = "ISSAQ_GCS_BUCKET_NAME"
	EnvPubSubOrderTopic = "ISSAQ_PUBSUB_ORDERS_TOPIC"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
