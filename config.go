package edusolve

import (
	"fmt"
	"os"
	"strconv"
)

// Default configuration values, matching the dashboard's expectations
const (
	DefaultGroqBaseURL      = "https://api.groq.com/openai/v1"
	DefaultGroqModel        = "llama-3.1-8b-instant"
	DefaultGroqMaxTokens    = 800
	DefaultGroqTemperature  = 0.5
	DefaultMinConfidence    = 0.40
	DefaultRetrainThreshold = 10
	DefaultDBPath           = "./edusolve.db"
	DefaultLogDir           = "./log"
	DefaultPort             = "5000"
)

// Config holds the environment-driven application configuration
type Config struct {
	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	GroqMaxTokens   int
	GroqTemperature float32

	DBPath string
	LogDir string
	Port   string

	// MinConfidence gates the keyword fallback on subject predictions
	MinConfidence float64
	// RetrainThreshold is the new-sample count that triggers retraining
	RetrainThreshold int
	// MinTrainingSamples is the smallest corpus a rebuild accepts
	MinTrainingSamples int

	SessionSecret string
}

// LoadConfig reads configuration from the environment and applies defaults
func LoadConfig() Config {
	cfg := Config{
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:        os.Getenv("GROQ_BASE_URL"),
		GroqModel:          os.Getenv("GROQ_MODEL"),
		GroqMaxTokens:      envInt("GROQ_MAX_TOKENS", 0),
		GroqTemperature:    float32(envFloat("GROQ_TEMPERATURE", -1)),
		DBPath:             os.Getenv("DB_PATH"),
		LogDir:             os.Getenv("LOG_DIR"),
		Port:               os.Getenv("PORT"),
		MinConfidence:      envFloat("MIN_CONFIDENCE", -1),
		RetrainThreshold:   envInt("RETRAIN_THRESHOLD", 0),
		MinTrainingSamples: envInt("MIN_TRAINING_SAMPLES", 0),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.GroqBaseURL == "" {
		c.GroqBaseURL = DefaultGroqBaseURL
	}
	if c.GroqModel == "" {
		c.GroqModel = DefaultGroqModel
	}
	if c.GroqMaxTokens <= 0 {
		c.GroqMaxTokens = DefaultGroqMaxTokens
	}
	if c.GroqTemperature < 0 {
		c.GroqTemperature = DefaultGroqTemperature
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.MinConfidence < 0 {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.RetrainThreshold <= 0 {
		c.RetrainThreshold = DefaultRetrainThreshold
	}
	if c.MinTrainingSamples <= 0 {
		c.MinTrainingSamples = 1
	}
	if c.SessionSecret == "" {
		c.SessionSecret = "dev-secret-key-change-in-production"
	}
}

// ValidateForServing checks the settings the web server cannot run without
func (c *Config) ValidateForServing() error {
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY environment variable is required")
	}
	return nil
}

// ClassifierConfig derives the classifier policy settings
func (c *Config) ClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		RetrainThreshold:   c.RetrainThreshold,
		MinTrainingSamples: c.MinTrainingSamples,
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
