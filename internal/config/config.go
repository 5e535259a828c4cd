package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds process settings read from the environment at startup.
type Config struct {
	Port       string
	APIKey     string
	DataDir    string
	FontDir    string
	ExportDir  string
	AITimeout  time.Duration
	ImageModel string
	TextModel  string
}

const (
	defaultPort       = "8080"
	defaultDataDir    = "data"
	defaultAITimeout  = 60 * time.Second
	defaultImageModel = "gemini-2.5-flash-image"
	defaultTextModel  = "gemini-2.5-flash"
)

// FromEnv reads the configuration using os.Getenv.
func FromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load builds a Config from the given lookup function. Only AI_TIMEOUT can
// fail to parse; a missing API_KEY is reported later, when an AI call is made.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:       orDefault(getenv("PORT"), defaultPort),
		APIKey:     getenv("API_KEY"),
		DataDir:    orDefault(getenv("DATA_DIR"), defaultDataDir),
		FontDir:    getenv("FONT_DIR"),
		ExportDir:  getenv("EXPORT_DIR"),
		AITimeout:  defaultAITimeout,
		ImageModel: orDefault(getenv("IMAGE_MODEL"), defaultImageModel),
		TextModel:  orDefault(getenv("TEXT_MODEL"), defaultTextModel),
	}
	if s := getenv("AI_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("AI_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("AI_TIMEOUT must be positive, got %s", s)
		}
		cfg.AITimeout = d
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
