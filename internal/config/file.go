package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors [StructuredConfig] with the snake_case keys used in
// config files.
type fileConfig struct {
	App struct {
		Env            string   `json:"env" yaml:"env"`
		LogLevel       string   `json:"log_level" yaml:"log_level"`
		TokenSignKey   string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer    string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration  Duration `json:"token_duration" yaml:"token_duration"`
		BcryptCost     int      `json:"bcrypt_cost" yaml:"bcrypt_cost"`
		BootstrapAdmin struct {
			Email     string `json:"email" yaml:"email"`
			Password  string `json:"password" yaml:"password"`
			FirstName string `json:"first_name" yaml:"first_name"`
			LastName  string `json:"last_name" yaml:"last_name"`
		} `json:"bootstrap_admin" yaml:"bootstrap_admin"`
	} `json:"app" yaml:"app"`

	Server struct {
		HTTPAddress     string   `json:"http_address" yaml:"http_address"`
		RequestTimeout  Duration `json:"request_timeout" yaml:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
		CORSOrigins     []string `json:"cors_origins" yaml:"cors_origins"`
		LoginRateLimit  int      `json:"login_rate_limit" yaml:"login_rate_limit"`
		TrustedProxies  []string `json:"trusted_proxies" yaml:"trusted_proxies"`
	} `json:"server" yaml:"server"`

	Storage struct {
		DB struct {
			DSN             string   `json:"dsn" yaml:"dsn"`
			MaxOpenConns    int      `json:"max_open_conns" yaml:"max_open_conns"`
			MaxIdleConns    int      `json:"max_idle_conns" yaml:"max_idle_conns"`
			ConnMaxLifetime Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
		} `json:"db" yaml:"db"`

		Redis struct {
			Address  string `json:"address" yaml:"address"`
			Password string `json:"password" yaml:"password"`
			DB       int    `json:"db" yaml:"db"`
		} `json:"redis" yaml:"redis"`
	} `json:"storage" yaml:"storage"`

	Broker struct {
		AMQPURL  string `json:"amqp_url" yaml:"amqp_url"`
		Exchange string `json:"exchange" yaml:"exchange"`
	} `json:"broker" yaml:"broker"`
}

// parseFile reads a JSON or YAML config file; the format is chosen by the
// file extension (.yaml/.yml, everything else is JSON).
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fc.toStructured(), nil
}

func (fc *fileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Env:           fc.App.Env,
			LogLevel:      fc.App.LogLevel,
			TokenSignKey:  fc.App.TokenSignKey,
			TokenIssuer:   fc.App.TokenIssuer,
			TokenDuration: time.Duration(fc.App.TokenDuration),
			BcryptCost:    fc.App.BcryptCost,
			BootstrapAdmin: BootstrapAdmin{
				Email:     fc.App.BootstrapAdmin.Email,
				Password:  fc.App.BootstrapAdmin.Password,
				FirstName: fc.App.BootstrapAdmin.FirstName,
				LastName:  fc.App.BootstrapAdmin.LastName,
			},
		},
		Server: Server{
			HTTPAddress:     fc.Server.HTTPAddress,
			RequestTimeout:  time.Duration(fc.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(fc.Server.ShutdownTimeout),
			CORSOrigins:     fc.Server.CORSOrigins,
			LoginRateLimit:  fc.Server.LoginRateLimit,
			TrustedProxies:  fc.Server.TrustedProxies,
		},
		Storage: Storage{
			DB: DB{
				DSN:             fc.Storage.DB.DSN,
				MaxOpenConns:    fc.Storage.DB.MaxOpenConns,
				MaxIdleConns:    fc.Storage.DB.MaxIdleConns,
				ConnMaxLifetime: time.Duration(fc.Storage.DB.ConnMaxLifetime),
			},
			Redis: Redis{
				Address:  fc.Storage.Redis.Address,
				Password: fc.Storage.Redis.Password,
				DB:       fc.Storage.Redis.DB,
			},
		},
		Broker: Broker{
			AMQPURL:  fc.Broker.AMQPURL,
			Exchange: fc.Broker.Exchange,
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" as well as from integer nanoseconds, in JSON and YAML.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case int:
		*d = Duration(time.Duration(value))
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
	case nil:
		*d = 0
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
