package config

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// prefix only matters for unqualified keys.
const EnvPrefix = "SERVISREST"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "SERVISREST_APP_ENV"
	EnvPort       = "SERVISREST_APP_PORT"
	EnvDBDSN      = "SERVISREST_DB_DSN"
	EnvDBHost     = "SERVISREST_DB_HOST"
	EnvDBUser     = "SERVISREST_DB_USER"
	EnvDBName     = "SERVISREST_DB_NAME"
	EnvRedisURL   = "SERVISREST_REDIS_URL"
	EnvJWTSecret  = "SERVISREST_JWT_SECRET"
	EnvJWTIssuer  = "SERVISREST_JWT_ISSUER"
	EnvJWTExpMins = "SERVISREST_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
