package config

// EnvPrefix is passed to envconfig so every variable carries the product name.
const EnvPrefix = "vendapoint"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "VENDAPOINT_DB_DSN"
	EnvDBHost = "VENDAPOINT_DB_HOST"
	EnvDBUser = "VENDAPOINT_DB_USER"
	EnvDBName = "VENDAPOINT_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
