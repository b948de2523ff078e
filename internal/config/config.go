package config

import (
	"charmapi/internal/core/domain"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Chat      ChatConfig
	Replicate ReplicateConfig
	// HandlerTimeout bounds every upstream call made while serving a request.
	HandlerTimeout time.Duration
	// ImageModels maps catalog keys to provider identifier overrides.
	ImageModels map[string]string
}

type ServerConfig struct {
	Host            string
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type ChatConfig struct {
	Provider string
	Model    string
	BaseURL  string
}

type ReplicateConfig struct {
	BaseURL      string
	PollInterval time.Duration
}

// Load reads configuration from an optional TOML file, a .env file and the environment.
// A missing config file is not an error; the service can run from environment variables alone.
func Load(path string) (*Config, *Credentials, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindCredentials(v); err != nil {
		return nil, nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Info().Msg("no config file found, using defaults and environment")
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("config file loaded")
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, nil, err
	}

	return cfg, NewCredentials(v, cfg.Chat.Provider), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("handler.timeout", "120s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("chat.provider", ProviderOpenAI)
	v.SetDefault("chat.model", domain.DefaultChatModel)
	v.SetDefault("chat.base_url", "")
	v.SetDefault("replicate.base_url", "https://api.replicate.com/v1")
	v.SetDefault("replicate.poll_interval", "1s")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			Mode:            v.GetString("server.mode"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Chat: ChatConfig{
			Provider: strings.ToLower(v.GetString("chat.provider")),
			Model:    v.GetString("chat.model"),
			BaseURL:  v.GetString("chat.base_url"),
		},
		Replicate: ReplicateConfig{
			BaseURL:      strings.TrimRight(v.GetString("replicate.base_url"), "/"),
			PollInterval: v.GetDuration("replicate.poll_interval"),
		},
		HandlerTimeout: v.GetDuration("handler.timeout"),
		ImageModels:    v.GetStringMapString("image.models"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server mode: %s, must be 'debug' or 'release'", c.Server.Mode)
	}

	if c.Chat.Provider != ProviderOpenAI && c.Chat.Provider != ProviderOpenRouter {
		return fmt.Errorf("invalid chat provider: %s, must be '%s' or '%s'",
			c.Chat.Provider, ProviderOpenAI, ProviderOpenRouter)
	}

	if c.Chat.Model == "" {
		return errors.New("chat.model is required")
	}

	if c.HandlerTimeout <= 0 {
		return errors.New("handler.timeout must be positive")
	}

	if c.Replicate.PollInterval <= 0 {
		return errors.New("replicate.poll_interval must be positive")
	}

	if c.Replicate.BaseURL == "" {
		return errors.New("replicate.base_url is required")
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
