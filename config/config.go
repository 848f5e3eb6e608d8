package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/getzep/nerkit/internal"
)

var log = internal.GetLogger()

var validate = validator.New()

var defaults = map[string]interface{}{
	"log.level": "info",

	"nlp.server_url":    "http://localhost:5557",
	"nlp.language":      "en",
	"nlp.timeout":       "30s",
	"nlp.retry_max":     3,
	"nlp.ready_retries": 10,

	"dataset.corpus_path":    "data/hp.txt",
	"dataset.output_path":    "data/hp_training_data.json",
	"dataset.model":          "hp_ner",
	"dataset.marker":         "CHAPTER",
	"dataset.offset_unit":    "byte",
	"dataset.min_score":      0.0,
	"dataset.labels":         []string{},
	"dataset.token_encoding": "cl100k_base",

	"anonymizer.model":            "Babelscape/wikineural-multilingual-ner",
	"anonymizer.input_path":       "",
	"anonymizer.person_token":     "<NOME>",
	"anonymizer.location_token":   "<LUGAR>",
	"anonymizer.exempt_locations": []string{"São Paulo"},
	"anonymizer.mode":             "literal",
}

// LoadConfig loads the config file and ENV variables into a Config struct.
// A missing default config.yaml is not an error; defaults apply.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	v.SetEnvPrefix("NERKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Debug("config.yaml not found, using defaults")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Debug("Log level set to: ", level)
}
