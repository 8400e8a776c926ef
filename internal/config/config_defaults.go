package config

import "time"

const (
	defaultEnv             = EnvProduction
	defaultLogLevel        = "info"
	defaultTokenIssuer     = "care-coord"
	defaultTokenDuration   = 24 * time.Hour
	defaultBcryptCost      = 12
	defaultHTTPAddress     = ":8080"
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLoginRateLimit  = 10
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultExchange        = "care.users"
)

// Names given to the bootstrap administrator when none are configured.
const (
	DefaultAdminFirstName = "System"
	DefaultAdminLastName  = "Administrator"
)

// applyDefaults fills every zero field that has a sensible default.
func (cfg *StructuredConfig) applyDefaults() {
	setDefault(&cfg.App.Env, defaultEnv)
	setDefault(&cfg.App.LogLevel, defaultLogLevel)
	setDefault(&cfg.App.TokenIssuer, defaultTokenIssuer)
	setDefault(&cfg.App.TokenDuration, defaultTokenDuration)
	setDefault(&cfg.App.BcryptCost, defaultBcryptCost)
	setDefault(&cfg.App.BootstrapAdmin.FirstName, DefaultAdminFirstName)
	setDefault(&cfg.App.BootstrapAdmin.LastName, DefaultAdminLastName)

	setDefault(&cfg.Server.HTTPAddress, defaultHTTPAddress)
	setDefault(&cfg.Server.RequestTimeout, defaultRequestTimeout)
	setDefault(&cfg.Server.ShutdownTimeout, defaultShutdownTimeout)
	setDefault(&cfg.Server.LoginRateLimit, defaultLoginRateLimit)

	setDefault(&cfg.Storage.DB.MaxOpenConns, defaultMaxOpenConns)
	setDefault(&cfg.Storage.DB.MaxIdleConns, defaultMaxIdleConns)
	setDefault(&cfg.Storage.DB.ConnMaxLifetime, defaultConnMaxLifetime)

	setDefault(&cfg.Broker.Exchange, defaultExchange)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
