// File: config/config.go

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/guiperry/playground/utils"
)

const DefaultAPIBase = "https://ai-api.monkeyscms.com"

type Config struct {
	APIBase        string         `env:"PLAYGROUND_API_BASE" envDefault:"https://ai-api.monkeyscms.com" validate:"required,url"`
	Model          string         `env:"PLAYGROUND_MODEL" envDefault:"auto" validate:"oneof=auto fast reasoning"`
	Timeout        time.Duration  `env:"PLAYGROUND_TIMEOUT" envDefault:"0s" validate:"gte=0"`
	LogLevel       utils.LogLevel `env:"PLAYGROUND_LOG_LEVEL" envDefault:"WARN"`
	ReadBufferSize int            `env:"PLAYGROUND_READ_BUFFER" envDefault:"4096" validate:"min=1"`
	StartRate      float64        `env:"PLAYGROUND_START_RATE" envDefault:"0" validate:"gte=0"`
	StartBurst     int            `env:"PLAYGROUND_START_BURST" envDefault:"1" validate:"min=1"`
	TokenEncoding  string         `env:"PLAYGROUND_TOKEN_ENCODING"`
	ExtraHeaders   map[string]string
	Logger         utils.Logger
}

var validate = validator.New()

func LoadConfig() (*Config, error) {
	cfg := &Config{
		ExtraHeaders: make(map[string]string),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.APIBase = strings.TrimRight(cfg.APIBase, "/")
	return cfg, nil
}

func NewConfig() *Config {
	return &Config{
		APIBase:        DefaultAPIBase,
		Model:          "auto",
		LogLevel:       utils.LogLevelWarn,
		ReadBufferSize: 4096,
		StartBurst:     1,
		ExtraHeaders:   make(map[string]string),
	}
}

// Validate checks the struct tags on cfg.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetLogger returns the configured logger, building a default one on first use.
func (c *Config) GetLogger() utils.Logger {
	if c.Logger == nil {
		c.Logger = utils.NewLogger(c.LogLevel)
	}
	return c.Logger
}

type ConfigOption func(*Config)

func SetAPIBase(base string) ConfigOption {
	return func(c *Config) {
		c.APIBase = strings.TrimRight(base, "/")
	}
}

func SetModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func SetLogLevel(level utils.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
		if c.Logger != nil {
			c.Logger.SetLevel(level)
		}
	}
}

func SetLogger(logger utils.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

func SetReadBufferSize(size int) ConfigOption {
	return func(c *Config) {
		if size < 1 {
			size = 1
		}
		c.ReadBufferSize = size
	}
}

// SetStartRate limits how many sessions may start per second. Zero disables the limit.
func SetStartRate(perSecond float64, burst int) ConfigOption {
	return func(c *Config) {
		c.StartRate = perSecond
		if burst < 1 {
			burst = 1
		}
		c.StartBurst = burst
	}
}

func SetTokenEncoding(encoding string) ConfigOption {
	return func(c *Config) {
		c.TokenEncoding = encoding
	}
}

func SetExtraHeaders(headers map[string]string) ConfigOption {
	return func(c *Config) {
		if c.ExtraHeaders == nil {
			c.ExtraHeaders = make(map[string]string)
		}
		for k, v := range headers {
			c.ExtraHeaders[k] = v
		}
	}
}

func ApplyOptions(cfg *Config, options ...ConfigOption) {
	for _, option := range options {
		option(cfg)
	}
}
