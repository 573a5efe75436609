package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Classifier providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderDisabled  = "disabled"
)

type DatabaseConfig struct {
	// URL, when set, overrides the discrete connection fields. An empty URL
	// and empty Host select the in-memory repository.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
	// AutoMigrate applies the embedded migrations at startup.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// Enabled reports whether a database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Host != ""
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	Topic         string   `yaml:"topic"`
	TLS           bool     `yaml:"tls"`
	SASLMechanism string   `yaml:"sasl_mechanism"`
	SASLUsername  string   `yaml:"sasl_username"`
	SASLPassword  string   `yaml:"sasl_password"`
}

type RedisConfig struct {
	// URL empty disables the classification cache.
	URL      string        `yaml:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ClassifierConfig struct {
	Provider  string        `yaml:"provider"`
	APIKey    string        `yaml:"api_key"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
}

type JWTConfig struct {
	Secret        string `yaml:"secret"`
	PublicKeyPEM  string `yaml:"public_key_pem"`
	PublicKeyFile string `yaml:"public_key_file"`
	Issuer        string `yaml:"issuer"`
}

// Enabled reports whether request authentication is configured.
func (j JWTConfig) Enabled() bool {
	return j.Secret != "" || j.PublicKeyPEM != "" || j.PublicKeyFile != ""
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// Enabled reports whether the gRPC listener serves TLS.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

type Config struct {
	ServiceName     string           `yaml:"service_name"`
	GRPCPort        int              `yaml:"grpc_port"`
	HTTPPort        int              `yaml:"http_port"`
	ShutdownTimeout time.Duration    `yaml:"shutdown_timeout"`
	GRPCReflection  bool             `yaml:"grpc_reflection"`
	DB              DatabaseConfig   `yaml:"database"`
	Kafka           KafkaConfig      `yaml:"kafka"`
	Redis           RedisConfig      `yaml:"redis"`
	Classifier      ClassifierConfig `yaml:"classifier"`
	JWT             JWTConfig        `yaml:"jwt"`
	Telemetry       TelemetryConfig  `yaml:"telemetry"`
	Log             LogConfig        `yaml:"log"`
	TLS             TLSConfig        `yaml:"tls"`
}

// Defaults returns the configuration used when neither file nor environment
// sets a value.
func Defaults() Config {
	return Config{
		ServiceName:     "loan-decision-service",
		GRPCPort:        9090,
		HTTPPort:        8080,
		ShutdownTimeout: 15 * time.Second,
		DB: DatabaseConfig{
			Port:        5432,
			User:        "loans",
			Name:        "loan_decisions",
			SSLMode:     "require",
			AutoMigrate: true,
		},
		Kafka: KafkaConfig{
			Topic: "loan-decision-events",
		},
		Redis: RedisConfig{
			CacheTTL: 24 * time.Hour,
		},
		Classifier: ClassifierConfig{
			Provider:  ProviderAnthropic,
			Model:     "claude-sonnet-4-5",
			MaxTokens: 1024,
			Timeout:   5 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_PATH (if any), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.JWT.PublicKeyPEM == "" && cfg.JWT.PublicKeyFile != "" {
		data, err := os.ReadFile(cfg.JWT.PublicKeyFile)
		if err != nil {
			return Config{}, fmt.Errorf("read JWT public key %s: %w", cfg.JWT.PublicKeyFile, err)
		}
		cfg.JWT.PublicKeyPEM = string(data)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.GRPCPort = getEnvInt("GRPC_PORT", cfg.GRPCPort)
	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.GRPCReflection = getEnvBool("GRPC_REFLECTION", cfg.GRPCReflection)

	cfg.DB.URL = getEnv("DATABASE_URL", cfg.DB.URL)
	cfg.DB.Host = getEnv("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvInt("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.Name = getEnv("DB_NAME", cfg.DB.Name)
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.MaxConns = getEnvInt("DB_MAX_CONNS", cfg.DB.MaxConns)
	cfg.DB.MinConns = getEnvInt("DB_MIN_CONNS", cfg.DB.MinConns)
	cfg.DB.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", cfg.DB.AutoMigrate)

	cfg.Kafka.Brokers = getEnvList("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.TLS = getEnvBool("KAFKA_TLS", cfg.Kafka.TLS)
	cfg.Kafka.SASLMechanism = getEnv("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = getEnv("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = getEnv("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.CacheTTL = getEnvDuration("CLASSIFICATION_CACHE_TTL", cfg.Redis.CacheTTL)

	cfg.Classifier.Provider = strings.ToLower(getEnv("CLASSIFIER_PROVIDER", cfg.Classifier.Provider))
	cfg.Classifier.APIKey = getEnv("ANTHROPIC_API_KEY", cfg.Classifier.APIKey)
	cfg.Classifier.BaseURL = getEnv("ANTHROPIC_BASE_URL", cfg.Classifier.BaseURL)
	cfg.Classifier.Model = getEnv("CLASSIFIER_MODEL", cfg.Classifier.Model)
	cfg.Classifier.MaxTokens = getEnvInt("CLASSIFIER_MAX_TOKENS", cfg.Classifier.MaxTokens)
	cfg.Classifier.Timeout = getEnvDuration("CLASSIFIER_TIMEOUT", cfg.Classifier.Timeout)

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.PublicKeyPEM = getEnv("JWT_PUBLIC_KEY", cfg.JWT.PublicKeyPEM)
	cfg.JWT.PublicKeyFile = getEnv("JWT_PUBLIC_KEY_FILE", cfg.JWT.PublicKeyFile)
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", cfg.JWT.Issuer)

	cfg.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
	cfg.Telemetry.Insecure = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Telemetry.Insecure)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.TLS.CertFile = getEnv("TLS_CERT_FILE", cfg.TLS.CertFile)
	cfg.TLS.KeyFile = getEnv("TLS_KEY_FILE", cfg.TLS.KeyFile)
}

// Validate rejects values the service cannot run with. All problems are
// reported together.
func (c Config) Validate() error {
	var errs []error
	if !validPort(c.GRPCPort) {
		errs = append(errs, fmt.Errorf("grpc port %d out of range", c.GRPCPort))
	}
	if !validPort(c.HTTPPort) {
		errs = append(errs, fmt.Errorf("http port %d out of range", c.HTTPPort))
	}
	if c.GRPCPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("grpc and http ports must differ, both are %d", c.GRPCPort))
	}
	if c.DB.Enabled() && c.DB.URL == "" && !validPort(c.DB.Port) {
		errs = append(errs, fmt.Errorf("database port %d out of range", c.DB.Port))
	}
	if c.DB.MinConns < 0 || c.DB.MaxConns < 0 || (c.DB.MaxConns > 0 && c.DB.MinConns > c.DB.MaxConns) {
		errs = append(errs, fmt.Errorf("database pool bounds min=%d max=%d are invalid", c.DB.MinConns, c.DB.MaxConns))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("kafka topic is required when brokers are set"))
	}
	if c.Redis.URL != "" && c.Redis.CacheTTL <= 0 {
		errs = append(errs, errors.New("classification cache ttl must be positive"))
	}
	switch c.Classifier.Provider {
	case ProviderAnthropic:
		if c.Classifier.Model == "" {
			errs = append(errs, errors.New("classifier model is required"))
		}
	case ProviderDisabled:
	default:
		errs = append(errs, fmt.Errorf("unknown classifier provider %q", c.Classifier.Provider))
	}
	if c.Classifier.Timeout <= 0 {
		errs = append(errs, errors.New("classifier timeout must be positive"))
	}
	if c.Classifier.MaxTokens <= 0 {
		errs = append(errs, errors.New("classifier max tokens must be positive"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("tls cert and key files must be set together"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("5s") or bare seconds ("5").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
