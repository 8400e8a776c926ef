package config

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int

	// target receives the canonical string form on every successful Set.
	target *string
}

// BindFlags registers the configuration flags on fs and returns the struct
// they are written to. The struct is only meaningful after fs was parsed.
//
// Flags:
//
//	-a/--address        server address in format [host]:port
//	-d/--database-dsn   database DSN
//	-c/--config         JSON or YAML config file path
//	--env               deployment environment
//	--log-level         minimal log level
//	--token-sign-key    token signing key
//	--token-issuer      token issuer name
//	--token-duration    token duration (e.g. "24h")
//	--bcrypt-cost       bcrypt cost factor
//	--request-timeout   request timeout (e.g. "30s")
//	--cors-origins      allowed CORS origins
//	--login-rate-limit  login attempts per IP per minute
//	--trusted-proxies   CIDRs of proxies allowed to set forwarding headers
//	--redis-address     Redis address for the token denylist
//	--amqp-url          AMQP URL for lifecycle events
func BindFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.VarP(&NetAddress{target: &cfg.Server.HTTPAddress}, "address", "a", "Net address host:port")
	fs.StringVarP(&cfg.Storage.DB.DSN, "database-dsn", "d", "", "Database DSN")
	fs.StringVarP(&cfg.FilePath, "config", "c", "", "JSON or YAML config file path")
	fs.StringVar(&cfg.App.Env, "env", "", "Deployment environment (development, test, staging, production)")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g. 24h)")
	fs.IntVar(&cfg.App.BcryptCost, "bcrypt-cost", 0, "Bcrypt cost factor")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g. 30s)")
	fs.StringSliceVar(&cfg.Server.CORSOrigins, "cors-origins", nil, "Allowed CORS origins")
	fs.IntVar(&cfg.Server.LoginRateLimit, "login-rate-limit", 0, "Login attempts per IP per minute")
	fs.StringSliceVar(&cfg.Server.TrustedProxies, "trusted-proxies", nil, "CIDRs of reverse proxies allowed to set X-Forwarded-For")
	fs.StringVar(&cfg.Storage.Redis.Address, "redis-address", "", "Redis address host:port")
	fs.StringVar(&cfg.Broker.AMQPURL, "amqp-url", "", "AMQP broker URL")

	return cfg
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host listens on all interfaces. The port must be in 1..65535 and
// the host must be "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	if a.target != nil {
		*a.target = a.String()
	}
	return nil
}
