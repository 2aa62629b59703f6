package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrInvalidBoardSize = errors.New("board size must be at least 3")
	ErrInvalidPort      = errors.New("port must not be empty")
	ErrInvalidLogLevel  = errors.New("unknown log level")
)

const minBoardSize = 3

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort  string    `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Game      Game      `yaml:"game"`
	WebSocket WebSocket `yaml:"websocket"`
	Redis     Redis     `yaml:"redis"`
}

type Game struct {
	BoardSize int `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"3"`
}

type WebSocket struct {
	ReadLimit      int64         `yaml:"read-limit" env:"WS_READ_LIMIT" env-default:"4096"`
	WriteTimeout   time.Duration `yaml:"write-timeout" env:"WS_WRITE_TIMEOUT" env-default:"10s"`
	AllowedOrigins []string      `yaml:"allowed-origins" env:"WS_ALLOWED_ORIGINS" env-separator:","`
}

// Redis is an optional event feed. Room state never leaves the process.
type Redis struct {
	Enabled       bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host          string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port          string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	ChannelPrefix string `yaml:"channel-prefix" env:"REDIS_CHANNEL_PREFIX" env-default:"room"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the yaml file at path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, that.LogLevel)
	}

	if that.HTTPPort == "" {
		return fmt.Errorf("%w: http-port", ErrInvalidPort)
	}

	if that.Game.BoardSize < minBoardSize {
		return fmt.Errorf("%w: got %d", ErrInvalidBoardSize, that.Game.BoardSize)
	}

	if that.Redis.Enabled && that.Redis.Port == "" {
		return fmt.Errorf("%w: redis.port", ErrInvalidPort)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
