package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPAddr  string    `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	WebDir    string    `yaml:"web-dir" env:"WEB_DIR" env-default:"./web"`
	Game      Game      `yaml:"game"`
	Redis     Redis     `yaml:"redis"`
	Telemetry Telemetry `yaml:"telemetry"`
	Token     Token     `yaml:"token"`
}

type Game struct {
	ThinkDelay   time.Duration `yaml:"think-delay" env:"GAME_THINK_DELAY" env-default:"600ms"`
	OpeningDelay time.Duration `yaml:"opening-delay" env:"GAME_OPENING_DELAY" env-default:"500ms"`
	RoomIdleTTL  time.Duration `yaml:"room-idle-ttl" env:"GAME_ROOM_IDLE_TTL" env-default:"30m"`
	Seed         uint64        `yaml:"seed" env:"GAME_SEED" env-default:"0"`
}

// Redis is optional. An empty address disables event publishing.
type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_CONNSTRING" env-default:""`
}

// Telemetry is optional. An empty endpoint keeps traces on stdout.
type Telemetry struct {
	OTLPEndpoint   string `yaml:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:""`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-toe-solo"`
	ServiceVersion string `yaml:"service-version" env-default:"v0.1.0"`
	StdoutTraces   bool   `yaml:"stdout-traces" env:"OTEL_STDOUT_TRACES" env-default:"false"`
}

type Token struct {
	Secret string        `yaml:"secret" env:"TOKEN_SECRET" env-default:"change-me"`
	TTL    time.Duration `yaml:"ttl" env:"TOKEN_TTL" env-default:"24h"`
}

// Load reads configuration from path when the file exists and from the
// environment otherwise. Environment variables override file values.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, config); err != nil {
				return nil, fmt.Errorf("unable to load config file: %w", err)
			}
			return config, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to stat config file: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}
	return config, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}
