// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Environment names recognised by [App.Env].
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from a config file, environment variables and
// command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: environment, token and password
	// hashing parameters, and the optional bootstrap administrator.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database and Redis settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network, timeout, CORS and throttling settings for the
	// HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Broker holds the message broker used for user lifecycle events.
	Broker Broker `envPrefix:"BROKER_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	FilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Env is the deployment environment: development, test, staging or
	// production. Anything but development/test requires an operator supplied
	// token sign key.
	// Env: APP_ENV
	Env string `env:"ENV"`

	// LogLevel is the minimal zerolog level name (debug, info, warn, ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// TokenSignKey is the secret used to sign and verify access tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in and required from every token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is how long an access token stays valid (default 24h).
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// BcryptCost is the adaptive hash cost factor (default 12).
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// BootstrapAdmin, when both email and password are set, is seeded as an
	// active admin on server start if no user with that email exists.
	BootstrapAdmin BootstrapAdmin `envPrefix:"BOOTSTRAP_ADMIN_"`

	// EphemeralSignKey is set by validation when a random development-only
	// sign key was generated because none was configured.
	EphemeralSignKey bool
}

// BootstrapAdmin describes the initial administrator account.
type BootstrapAdmin struct {
	Email     string `env:"EMAIL"`
	Password  string `env:"PASSWORD"`
	FirstName string `env:"FIRST_NAME"`
	LastName  string `env:"LAST_NAME"`
}

// Enabled reports whether an administrator should be seeded.
func (b BootstrapAdmin) Enabled() bool {
	return b.Email != "" && b.Password != ""
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on, in
	// "host:port" format (e.g. "0.0.0.0:8080" or ":8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// CORSOrigins lists origins allowed to call the API from a browser.
	// Env: SERVER_CORS_ORIGINS (comma separated)
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// LoginRateLimit is the number of login attempts allowed per client IP
	// per minute.
	// Env: SERVER_LOGIN_RATE_LIMIT
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT"`

	// TrustedProxies lists the CIDRs of reverse proxies whose forwarding
	// headers (True-Client-IP, X-Real-IP, X-Forwarded-For) name the client.
	// Requests from any other peer are identified by their socket address.
	// Env: SERVER_TRUSTED_PROXIES (comma separated)
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the token denylist store. Optional.
	Redis Redis `envPrefix:"REDIS_"`
}

// DB holds connection settings for the relational database.
type DB struct {
	// DSN selects the dialect by its form: "postgres://..." or
	// "postgresql://..." opens PostgreSQL, anything else is treated as a
	// go-sql-driver/mysql DSN (e.g. "user:pass@tcp(localhost:3306)/care?parseTime=true").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Env: STORAGE_DB_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS"`

	// Env: STORAGE_DB_MAX_IDLE_CONNS
	MaxIdleConns int `env:"MAX_IDLE_CONNS"`

	// Env: STORAGE_DB_CONN_MAX_LIFETIME
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME"`
}

// Redis holds connection settings for the token denylist.
// An empty Address disables server-side logout.
type Redis struct {
	Address  string `env:"ADDRESS"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
}

// Broker holds AMQP settings. An empty URL disables event publishing.
type Broker struct {
	// Env: BROKER_AMQP_URL
	AMQPURL string `env:"AMQP_URL"`

	// Exchange is the topic exchange events are published to.
	// Env: BROKER_EXCHANGE
	Exchange string `env:"EXCHANGE"`
}

// IsDevelopment reports whether the configured environment tolerates
// generated secrets.
func (a App) IsDevelopment() bool {
	return a.Env == EnvDevelopment || a.Env == EnvTest
}

// GetStructuredConfig loads, merges, defaults and validates the configuration.
// flagCfg is the struct bound to the command line by [BindFlags]; it may be
// nil when no flags are in use.
func GetStructuredConfig(flagCfg *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDotEnv(".env").
		withEnv().
		withFlags(flagCfg).
		withFile().
		build()
}
