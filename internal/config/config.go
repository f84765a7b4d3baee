package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kitbuilder587/chatgpt-relay/internal/domain"
)

var (
	ErrMissingAddr      = errors.New("HTTP_ADDR is required")
	ErrMissingModel     = errors.New("CHATGPT_MODEL is required")
	ErrInvalidMaxTokens = errors.New("CHATGPT_MAX_TOKENS must be positive")
	ErrInvalidLogFormat = errors.New("LOG_FORMAT must be json or console")
)

const (
	KeyAPIKey = "CHATGPT_API_KEY"
	KeyAPIURL = "CHATGPT_API_URL"

	DefaultEnvFile = ".env"
)

type Config struct {
	HTTP     HTTPConfig
	ChatGPT  ChatGPTConfig
	Database DatabaseConfig
	Log      LogConfig
	Timeouts TimeoutConfig

	v *viper.Viper
}

type HTTPConfig struct {
	Addr string
}

type ChatGPTConfig struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type DatabaseConfig struct {
	URL string
}

type LogConfig struct {
	Level  string
	Format string
}

type TimeoutConfig struct {
	Shutdown time.Duration
}

// Load reads configuration from the environment and, if present, from a
// dotenv file. An empty envFile means DefaultEnvFile, which may be absent.
func Load(envFile string) (*Config, error) {
	v, err := newViper(envFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Addr: getStringOrDefault(v, "HTTP_ADDR", ":3000"),
		},
		ChatGPT: ChatGPTConfig{
			Model:     getStringOrDefault(v, "CHATGPT_MODEL", "gpt-3.5-turbo"),
			MaxTokens: getIntOrDefault(v, "CHATGPT_MAX_TOKENS", 150),
			Timeout:   time.Duration(getIntOrDefault(v, "CHATGPT_TIMEOUT_SEC", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Log: LogConfig{
			Level:  getStringOrDefault(v, "LOG_LEVEL", "info"),
			Format: getStringOrDefault(v, "LOG_FORMAT", "json"),
		},
		Timeouts: TimeoutConfig{
			Shutdown: time.Duration(getIntOrDefault(v, "SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		},
		v: v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return ErrMissingAddr
	}
	if c.ChatGPT.Model == "" {
		return ErrMissingModel
	}
	if c.ChatGPT.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

// Credentials returns a source that re-reads the API key and URL on every call,
// so rotating them in the environment does not need a restart.
func (c *Config) Credentials() *CredentialSource {
	return &CredentialSource{v: c.v}
}

type CredentialSource struct {
	v *viper.Viper
}

func (s *CredentialSource) Credentials() domain.APICredentials {
	return domain.APICredentials{
		APIKey: strings.TrimSpace(s.v.GetString(KeyAPIKey)),
		APIURL: strings.TrimSpace(s.v.GetString(KeyAPIURL)),
	}
}

func newViper(envFile string) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()

	optional := envFile == ""
	if optional {
		envFile = DefaultEnvFile
	}

	v.SetConfigFile(envFile)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if optional && (errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)) {
			return v, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", envFile, err)
	}

	return v, nil
}

func getStringOrDefault(v *viper.Viper, key, defaultValue string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(v *viper.Viper, key string, defaultValue int) int {
	if value := v.GetString(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
