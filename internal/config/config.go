package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Values are resolved in order:
// built-in defaults, the optional YAML file, then .env and the process
// environment.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	DB           DBConfig           `yaml:"db"`
	JWT          JWTConfig          `yaml:"jwt"`
	Log          LogConfig          `yaml:"log"`
	NATS         NATSConfig         `yaml:"nats"`
	Coordination CoordinationConfig `yaml:"coordination"`
	Members      MembersConfig      `yaml:"members"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type DBConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	SSLMode      string `yaml:"sslmode"`
	TimeZone     string `yaml:"timezone"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// NATSConfig enables event forwarding to NATS when URL is set.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// CoordinationConfig selects the auto-coordinate strategy: the built-in
// linker when URL is empty, the remote service otherwise.
type CoordinationConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type MembersConfig struct {
	ImportMaxRows int `yaml:"import_max_rows"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Addr: "0.0.0.0:8080", RequestTimeout: 10 * time.Second},
		DB: DBConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "password",
			Name:         "tourhub",
			SSLMode:      "disable",
			TimeZone:     "UTC",
			MaxOpenConns: 20,
		},
		JWT:          JWTConfig{Secret: "supersecret", TTL: 72 * time.Hour},
		Log:          LogConfig{Level: "info", File: "./logs/app.log"},
		Coordination: CoordinationConfig{Timeout: 15 * time.Second},
		Members:      MembersConfig{ImportMaxRows: 5000},
	}
}

// Load builds the configuration. path may be empty, in which case
// CONFIG_FILE is consulted.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on environment variables.")
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Addr = getEnv("HTTP_ADDR", c.HTTP.Addr)
	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	c.DB.Port = getEnv("DB_PORT", c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.Name = getEnv("DB_NAME", c.DB.Name)
	c.DB.SSLMode = getEnv("DB_SSLMODE", c.DB.SSLMode)
	c.DB.TimeZone = getEnv("DB_TIMEZONE", c.DB.TimeZone)
	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.Coordination.URL = getEnv("COORDINATION_URL", c.Coordination.URL)

	var err error
	if c.HTTP.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", c.HTTP.RequestTimeout); err != nil {
		return err
	}
	if c.Coordination.Timeout, err = getDuration("COORDINATION_TIMEOUT", c.Coordination.Timeout); err != nil {
		return err
	}
	if c.Members.ImportMaxRows, err = getInt("MEMBER_IMPORT_MAX_ROWS", c.Members.ImportMaxRows); err != nil {
		return err
	}
	if c.DB.MaxOpenConns, err = getInt("DB_MAX_OPEN_CONNS", c.DB.MaxOpenConns); err != nil {
		return err
	}
	return nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("http.request_timeout must be positive")
	}
	if c.Members.ImportMaxRows <= 0 {
		return fmt.Errorf("members.import_max_rows must be positive")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
