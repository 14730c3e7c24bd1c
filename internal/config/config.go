// Package config loads service configuration from YAML files,
// environment variables and .env files, with sensible local defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Deployment mode: "local", "staging", "production"
	Mode string `yaml:"mode" mapstructure:"mode"`

	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Vision     VisionConfig     `yaml:"vision" mapstructure:"vision"`
	Whoop      WhoopConfig      `yaml:"whoop" mapstructure:"whoop"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Confidence ConfidenceConfig `yaml:"confidence" mapstructure:"confidence"`
}

type StorageConfig struct {
	Type        string `yaml:"type" mapstructure:"type"` // "postgres", "sqlite"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
	LocalPath   string `yaml:"local_path" mapstructure:"local_path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Password string `yaml:"password" mapstructure:"password"`
}

type VisionConfig struct {
	OpenAIKey   string  `yaml:"openai_key" mapstructure:"openai_key"`
	OpenAIModel string  `yaml:"openai_model" mapstructure:"openai_model"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

type WhoopConfig struct {
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
	UseMock     bool   `yaml:"use_mock" mapstructure:"use_mock"`
}

type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// AnalysisConfig carries the tunable classifier rule confidences
type AnalysisConfig struct {
	VTaperStrongConfidence float64 `yaml:"vtaper_strong_confidence" mapstructure:"vtaper_strong_confidence"`
	VTaperConfidence       float64 `yaml:"vtaper_confidence" mapstructure:"vtaper_confidence"`
	ClassicConfidence      float64 `yaml:"classic_confidence" mapstructure:"classic_confidence"`
	BalancedConfidence     float64 `yaml:"balanced_confidence" mapstructure:"balanced_confidence"`
	RectangularConfidence  float64 `yaml:"rectangular_confidence" mapstructure:"rectangular_confidence"`
	AppleConfidence        float64 `yaml:"apple_confidence" mapstructure:"apple_confidence"`
	PearConfidence         float64 `yaml:"pear_confidence" mapstructure:"pear_confidence"`
	FallbackConfidence     float64 `yaml:"fallback_confidence" mapstructure:"fallback_confidence"`
}

// ConfidenceConfig carries the confidence scorer weights and threshold
type ConfidenceConfig struct {
	PhotoQualityWeight float64 `yaml:"photo_quality_weight" mapstructure:"photo_quality_weight"`
	ConsistencyWeight  float64 `yaml:"consistency_weight" mapstructure:"consistency_weight"`
	AIResponseWeight   float64 `yaml:"ai_response_weight" mapstructure:"ai_response_weight"`
	CompletenessWeight float64 `yaml:"completeness_weight" mapstructure:"completeness_weight"`
	ValidationWeight   float64 `yaml:"validation_weight" mapstructure:"validation_weight"`
	Threshold          float64 `yaml:"threshold" mapstructure:"threshold"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Mode: "local",
		Storage: StorageConfig{
			Type:      "sqlite",
			LocalPath: filepath.Join(homeDir, ".bodyscan", "local.db"),
		},
		Redis: RedisConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    6379,
		},
		Vision: VisionConfig{
			OpenAIModel: "gpt-4o",
			MaxRetries:  3,
			RateLimit:   1,
		},
		Whoop: WhoopConfig{
			UseMock: true,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Analysis: AnalysisConfig{
			VTaperStrongConfidence: 0.95,
			VTaperConfidence:       0.80,
			ClassicConfidence:      0.85,
			BalancedConfidence:     0.90,
			RectangularConfidence:  0.85,
			AppleConfidence:        0.80,
			PearConfidence:         0.75,
			FallbackConfidence:     0.60,
		},
		Confidence: ConfidenceConfig{
			PhotoQualityWeight: 0.20,
			ConsistencyWeight:  0.30,
			AIResponseWeight:   0.20,
			CompletenessWeight: 0.20,
			ValidationWeight:   0.10,
			Threshold:          0.70,
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	// Set defaults
	cfg := Default()
	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("redis", cfg.Redis)
	v.SetDefault("vision", cfg.Vision)
	v.SetDefault("whoop", cfg.Whoop)
	v.SetDefault("server", cfg.Server)
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("confidence", cfg.Confidence)

	// Load from environment variables
	v.SetEnvPrefix("BODYSCAN")
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".bodyscan")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".bodyscan"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	// Also try loading from home directory
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".bodyscan", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Vision.OpenAIKey = key
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.Vision.OpenAIModel = model
	}
	if token := os.Getenv("WHOOP_ACCESS_TOKEN"); token != "" {
		cfg.Whoop.AccessToken = token
		cfg.Whoop.UseMock = false
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.Storage.Type = "postgres"
		cfg.Storage.PostgresDSN = dsn
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Redis.Port = p
		}
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
}

// Validate checks the configuration for internal consistency
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "sqlite":
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("storage.local_path required for sqlite")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn required for postgres")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	w := c.Confidence
	sum := w.PhotoQualityWeight + w.ConsistencyWeight + w.AIResponseWeight +
		w.CompletenessWeight + w.ValidationWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("confidence weights sum to %.3f, must sum to 1.0", sum)
	}
	if w.Threshold <= 0 || w.Threshold > 1 {
		return fmt.Errorf("confidence threshold %.2f out of (0, 1]", w.Threshold)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}

	return nil
}
