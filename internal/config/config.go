package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port     int    `yaml:"port"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`
}

type IdentityConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StoreConfig struct {
	// Backend selects the session store: "redis" (shared across
	// instances) or "file" (single-process SQLite).
	Backend  string `yaml:"backend"`
	Key      string `yaml:"key"`
	FilePath string `yaml:"file_path"`
}

type GuardConfig struct {
	ModelPath  string `yaml:"model_path"`
	PolicyPath string `yaml:"policy_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Identity IdentityConfig `yaml:"identity"`
	Redis    RedisConfig    `yaml:"redis"`
	Store    StoreConfig    `yaml:"store"`
	Guard    GuardConfig    `yaml:"guard"`
}

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	IdentityBaseURL string
	IdentityTimeout time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	StoreBackend    string
	StoreKey        string
	StoreFilePath   string
	GuardModelPath  string
	GuardPolicyPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml with environment overrides for deployment
// secrets. A .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	timeout, err := time.ParseDuration(configFile.Identity.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid identity timeout: %w", err)
	}

	cfg := &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		LogLevel:        configFile.App.LogLevel,
		IdentityBaseURL: env("IDENTITY_BASE_URL", configFile.Identity.BaseURL),
		IdentityTimeout: timeout,
		RedisAddr:       env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:         configFile.Redis.DB,
		StoreBackend:    env("STORE_BACKEND", configFile.Store.Backend),
		StoreKey:        configFile.Store.Key,
		StoreFilePath:   env("STORE_FILE_PATH", configFile.Store.FilePath),
		GuardModelPath:  configFile.Guard.ModelPath,
		GuardPolicyPath: configFile.Guard.PolicyPath,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.IdentityBaseURL == "" {
		return fmt.Errorf("identity base_url is required")
	}
	switch c.StoreBackend {
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("redis addr is required for the redis store backend")
		}
	case "file":
		if c.StoreFilePath == "" {
			return fmt.Errorf("store file_path is required for the file store backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want redis or file)", c.StoreBackend)
	}
	if c.StoreKey == "" {
		c.StoreKey = "eventease:session"
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
