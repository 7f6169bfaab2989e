package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Match    Match  `yaml:"match"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Match holds defaults applied by the match manager.
type Match struct {
	DefaultRounds int           `yaml:"default-rounds" env:"MATCH_DEFAULT_ROUNDS" env-default:"3"`
	TTL           time.Duration `yaml:"ttl" env:"MATCH_TTL" env-default:"24h"`
	MaxRetries    int           `yaml:"max-retries" env:"MATCH_MAX_RETRIES" env-default:"5"`
}

// MustLoad - load all configurations in config.yml file, an optional .env file next to the
// working directory may override them through the environment.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Match.DefaultRounds < 1 {
		return nil, fmt.Errorf("%w: default-rounds must be positive", ErrInvalidConfig)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
