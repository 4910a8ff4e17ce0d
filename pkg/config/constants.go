package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "MRITIKA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "MRITIKA_APP_ENV"
	EnvPort       = "MRITIKA_APP_PORT"
	EnvDBDSN      = "MRITIKA_DB_DSN"
	EnvDBHost     = "MRITIKA_DB_HOST"
	EnvDBUser     = "MRITIKA_DB_USER"
	EnvDBName     = "MRITIKA_DB_NAME"
	EnvRedisURL   = "MRITIKA_REDIS_URL"
	EnvJWTSecret  = "MRITIKA_JWT_SECRET"
	EnvJWTIssuer  = "MRITIKA_JWT_ISSUER"
	EnvJWTExpMins = "MRITIKA_JWT_EXPIRATION_MINUTES"

	EnvRefreshTokenTTLMinutes = "MRITIKA_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
