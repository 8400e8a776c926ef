package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlags_ParsesAllFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := BindFlags(fs)

	err := fs.Parse([]string{
		"-a", "127.0.0.1:8081",
		"-d", "care:care@tcp(db:3306)/care",
		"-c", "/etc/care/config.yaml",
		"--env", "development",
		"--token-sign-key", "flag-key",
		"--token-duration", "12h",
		"--bcrypt-cost", "10",
		"--cors-origins", "http://a.test,http://b.test",
		"--login-rate-limit", "4",
		"--redis-address", "redis:6379",
		"--amqp-url", "amqp://rabbit",
		"--trusted-proxies", "10.0.0.0/8,192.0.2.10",
	})

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8081", cfg.Server.HTTPAddress)
	assert.Equal(t, "care:care@tcp(db:3306)/care", cfg.Storage.DB.DSN)
	assert.Equal(t, "/etc/care/config.yaml", cfg.FilePath)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "flag-key", cfg.App.TokenSignKey)
	assert.Equal(t, 12*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 10, cfg.App.BcryptCost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 4, cfg.Server.LoginRateLimit)
	assert.Equal(t, "redis:6379", cfg.Storage.Redis.Address)
	assert.Equal(t, "amqp://rabbit", cfg.Broker.AMQPURL)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.Server.TrustedProxies)
}

func TestBindFlags_Unset(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := BindFlags(fs)

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantHost string
		wantPort int
	}{
		{name: "localhost", input: "localhost:8080", wantHost: "localhost", wantPort: 8080},
		{name: "ip", input: "10.0.0.1:443", wantHost: "10.0.0.1", wantPort: 443},
		{name: "all interfaces", input: ":8080", wantHost: "", wantPort: 8080},
		{name: "no port", input: "localhost", wantErr: true},
		{name: "bad port", input: "localhost:http", wantErr: true},
		{name: "port zero", input: "localhost:0", wantErr: true},
		{name: "port too high", input: "localhost:70000", wantErr: true},
		{name: "hostname", input: "example.com:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target string
			a := &NetAddress{target: &target}

			err := a.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, target)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, a.Host)
			assert.Equal(t, tt.wantPort, a.Port)
			assert.Equal(t, target, a.String())
		})
	}
}

func TestNetAddress_StringEmpty(t *testing.T) {
	assert.Equal(t, "", (&NetAddress{}).String())
	assert.Equal(t, "host:port", (&NetAddress{}).Type())
}
