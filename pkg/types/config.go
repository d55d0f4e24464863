package types

import "time"

// AIProvider identifies the text-generation service.
type AIProvider string

const (
	ProviderOpenAI    AIProvider = "openai"
	ProviderAnthropic AIProvider = "anthropic"
)

// AIConfig holds settings for the text-generation call.
type AIConfig struct {
	// Enabled selects live generation. When false, recommendations are
	// replayed from OutputConfig.CoursesFile.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Provider selects the backend: openai or anthropic.
	Provider AIProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint. Empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout bounds a single generation call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// DataDir contains the database file.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// DBFile is the database file name inside DataDir (default advisor.db).
	DBFile string `json:"db_file" yaml:"db_file" mapstructure:"db_file"`
}

// SessionConfig holds settings for login sessions.
type SessionConfig struct {
	// File is where the signed session token is kept between invocations.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// SigningKey signs session tokens. Falls back to the session-signing-key secret.
	SigningKey string `json:"signing_key,omitempty" yaml:"signing_key,omitempty" mapstructure:"signing_key"`

	// TTL is how long a session stays valid (default 12h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// ParserConfig holds settings for the reply parser.
type ParserConfig struct {
	// RetainContinuations keeps untagged lines so wrapped Explanation text
	// reaches the record builder.
	RetainContinuations bool `json:"retain_continuations" yaml:"retain_continuations" mapstructure:"retain_continuations"`
}

// OutputConfig holds settings for files written by the recommend command.
type OutputConfig struct {
	// CoursesFile receives the parsed recommendations as JSON and is the
	// replay source when AI is disabled.
	CoursesFile string `json:"courses_file" yaml:"courses_file" mapstructure:"courses_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// AdvisorConfig groups all settings.
type AdvisorConfig struct {
	AI      AIConfig      `json:"ai" yaml:"ai" mapstructure:"ai"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Session SessionConfig `json:"session" yaml:"session" mapstructure:"session"`
	Parser  ParserConfig  `json:"parser" yaml:"parser" mapstructure:"parser"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
