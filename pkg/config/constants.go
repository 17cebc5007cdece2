package config

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "TIFFINBOX"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TIFFINBOX_DB_DSN"
	EnvDBHost = "TIFFINBOX_DB_HOST"
	EnvDBUser = "TIFFINBOX_DB_USER"
	EnvDBName = "TIFFINBOX_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
