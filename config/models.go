package config

import "time"

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	Log        LogConfig        `mapstructure:"log"        yaml:"log"`
	NLP        NLPConfig        `mapstructure:"nlp"        yaml:"nlp"`
	Dataset    DatasetConfig    `mapstructure:"dataset"    yaml:"dataset"`
	Anonymizer AnonymizerConfig `mapstructure:"anonymizer" yaml:"anonymizer"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// NLPConfig points at the NLP server that hosts the pretrained recognizers.
type NLPConfig struct {
	ServerURL string        `mapstructure:"server_url" yaml:"server_url" validate:"required,url"`
	Language  string        `mapstructure:"language"   yaml:"language"`
	Timeout   time.Duration `mapstructure:"timeout"    yaml:"timeout"    validate:"gte=0"`
	RetryMax  int           `mapstructure:"retry_max"  yaml:"retry_max"  validate:"gte=0"`
	// ReadyRetries bounds how long we wait for the server to load a model.
	// Zero skips the readiness check.
	ReadyRetries int `mapstructure:"ready_retries" yaml:"ready_retries" validate:"gte=0"`
}

type DatasetConfig struct {
	CorpusPath string `mapstructure:"corpus_path" yaml:"corpus_path" validate:"required"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path" validate:"required"`
	Model      string `mapstructure:"model"       yaml:"model"       validate:"required"`
	Marker     string `mapstructure:"marker"      yaml:"marker"      validate:"required"`
	// OffsetUnit is "byte" or "rune". spaCy expects character (rune) offsets.
	OffsetUnit string   `mapstructure:"offset_unit" yaml:"offset_unit" validate:"oneof=byte rune"`
	MinScore   float64  `mapstructure:"min_score"   yaml:"min_score"   validate:"gte=0,lte=1"`
	Labels     []string `mapstructure:"labels"      yaml:"labels"`
	// TokenEncoding is the tiktoken encoding used for dataset stats.
	// Empty disables token counting.
	TokenEncoding string `mapstructure:"token_encoding" yaml:"token_encoding"`
}

type AnonymizerConfig struct {
	Model           string   `mapstructure:"model"            yaml:"model"            validate:"required"`
	InputPath       string   `mapstructure:"input_path"       yaml:"input_path"`
	PersonToken     string   `mapstructure:"person_token"     yaml:"person_token"     validate:"required"`
	LocationToken   string   `mapstructure:"location_token"   yaml:"location_token"   validate:"required"`
	ExemptLocations []string `mapstructure:"exempt_locations" yaml:"exempt_locations"`
	Mode            string   `mapstructure:"mode"             yaml:"mode"             validate:"oneof=literal span"`
}
