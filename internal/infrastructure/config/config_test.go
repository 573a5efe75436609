package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CLASSIFIER_PROVIDER", "")
	t.Setenv("CLASSIFIER_TIMEOUT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, ProviderAnthropic, cfg.Classifier.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CacheTTL)
	assert.False(t, cfg.DB.Enabled())
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_port: 8181
database:
  host: db.internal
  password: from-file
kafka:
  brokers: [broker-1:9092]
classifier:
  provider: disabled
  timeout: 2s
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("CLASSIFIER_PROVIDER", "")
	t.Setenv("CLASSIFIER_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.HTTPPort)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "from-env", cfg.DB.Password, "env wins over file")
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, ProviderDisabled, cfg.Classifier.Provider)
	assert.Equal(t, 2*time.Second, cfg.Classifier.Timeout)
	assert.True(t, cfg.DB.Enabled())
	assert.True(t, cfg.GRPCReflection)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: [not a number"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")

	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	_, err = Load()
	require.Error(t, err)
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset", value: "", want: time.Minute},
		{name: "go duration", value: "750ms", want: 750 * time.Millisecond},
		{name: "bare seconds", value: "7", want: 7 * time.Second},
		{name: "garbage falls back", value: "soon", want: time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getEnvDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "zero timeout", mutate: func(c *Config) { c.Classifier.Timeout = 0 }, wantErr: "classifier timeout must be positive"},
		{name: "unknown provider", mutate: func(c *Config) { c.Classifier.Provider = "openai" }, wantErr: `unknown classifier provider "openai"`},
		{name: "negative port", mutate: func(c *Config) { c.HTTPPort = -1 }, wantErr: "http port -1 out of range"},
		{name: "same ports", mutate: func(c *Config) { c.HTTPPort = c.GRPCPort }, wantErr: "ports must differ"},
		{name: "kafka without topic", mutate: func(c *Config) { c.Kafka.Brokers = []string{"k:9092"}; c.Kafka.Topic = "" }, wantErr: "kafka topic is required"},
		{name: "half tls", mutate: func(c *Config) { c.TLS.CertFile = "cert.pem" }, wantErr: "tls cert and key"},
		{name: "pool bounds", mutate: func(c *Config) { c.DB.MinConns = 10; c.DB.MaxConns = 2 }, wantErr: "pool bounds"},
		{name: "redis without ttl", mutate: func(c *Config) { c.Redis.URL = "redis://r:6379"; c.Redis.CacheTTL = 0 }, wantErr: "cache ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnabledFlags(t *testing.T) {
	assert.False(t, JWTConfig{}.Enabled())
	assert.True(t, JWTConfig{Secret: "s"}.Enabled())
	assert.False(t, TLSConfig{CertFile: "c"}.Enabled())
	assert.True(t, TLSConfig{CertFile: "c", KeyFile: "k"}.Enabled())
	assert.True(t, DatabaseConfig{URL: "postgres://x"}.Enabled())
}
