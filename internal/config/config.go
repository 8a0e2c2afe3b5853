package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string     `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string     `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`
	OwnURL      string     `yaml:"own-url" env:"OWN_URL" env-default:"http://localhost:8080"`
	OpponentURL string     `yaml:"opponent-url" env:"OPPONENT_URL" env-default:"http://localhost:8081"`
	AutoPlayer  AutoPlayer `yaml:"auto-player"`
	Peer        Peer       `yaml:"peer"`
	Redis       Redis      `yaml:"redis"`
}

type AutoPlayer struct {
	// Disabled turns the instance into a responder that only applies peer moves.
	Disabled bool          `yaml:"disabled" env:"AUTO_PLAYER_DISABLED"`
	Interval time.Duration `yaml:"interval" env:"AUTO_PLAYER_INTERVAL" env-default:"3s"`
}

type Peer struct {
	Timeout    time.Duration `yaml:"timeout" env:"PEER_TIMEOUT" env-default:"2s"`
	MaxRetries uint64        `yaml:"max-retries" env:"PEER_MAX_RETRIES" env-default:"2"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// LoadEnv - load configuration from environment variables only, used when no config file exists.
func LoadEnv() (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
