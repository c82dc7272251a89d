package config

// EnvPrefix is applied by envconfig on top of the per-field names.
const EnvPrefix = "WISATAGO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "WISATAGO_DB_DSN"
	EnvDBHost = "WISATAGO_DB_HOST"
	EnvDBUser = "WISATAGO_DB_USER"
	EnvDBName = "WISATAGO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
