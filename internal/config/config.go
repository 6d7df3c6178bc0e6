// Package config loads application settings from an optional YAML file and
// SCHOLARPREP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/abhisek/scholarprep/internal/llm"
)

const envPrefix = "SCHOLARPREP"

// Config is the full application configuration.
type Config struct {
	DB      string        `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Study   StudyConfig   `mapstructure:"study"`
	LLM     llm.Config    `mapstructure:"llm"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // empty disables the endpoint
}

// StudyConfig tunes content generation.
type StudyConfig struct {
	RoadmapWeeks       int `mapstructure:"roadmap_weeks"`
	QuestionCount      int `mapstructure:"question_count"`
	QuestionDifficulty int `mapstructure:"question_difficulty"`
	SnapshotsKept      int `mapstructure:"snapshots_kept"`
}

// Loader reads configuration and watches the config file for changes.
type Loader struct {
	v *viper.Viper

	mu       sync.Mutex
	onChange []func(Config)
}

// NewLoader prepares a loader. file may be empty, in which case
// scholarprep.yaml is searched for in the working directory and the user
// config directory; a missing file is not an error.
func NewLoader(file string) *Loader {
	v := viper.New()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("scholarprep")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "scholarprep"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"llm.gemini.api_key",
		"llm.openai.api_key",
		"llm.openai.base_url",
		"llm.anthropic.api_key",
		"llm.openrouter.api_key",
		"llm.openrouter.base_url",
	} {
		v.BindEnv(key)
	}

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("metrics.addr", "")

	v.SetDefault("study.roadmap_weeks", 8)
	v.SetDefault("study.question_count", 5)
	v.SetDefault("study.question_difficulty", 6)
	v.SetDefault("study.snapshots_kept", 5)

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("llm.rate_limit.requests_per_minute", d.RateLimit.RequestsPerMinute)
	v.SetDefault("llm.rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("llm.timeout", d.Timeout)
}

// Set overrides a key, typically from a command-line flag.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Load reads the config file (if any) and decodes the merged settings.
// When no provider key is configured, the vendors' own variables
// (GEMINI_API_KEY and friends) are consulted.
func (l *Loader) Load() (Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return l.decode()
}

func (l *Loader) decode() (Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if !cfg.LLM.HasKey() {
		if found, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = found
		}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// File reports the config file in use, or "" when running on defaults.
func (l *Loader) File() string {
	return l.v.ConfigFileUsed()
}

// OnChange registers fn to run with the reloaded config whenever the file
// changes. Watching starts with the first registration.
func (l *Loader) OnChange(fn func(Config)) {
	l.mu.Lock()
	first := len(l.onChange) == 0
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()

	if !first || l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			return
		}
		l.mu.Lock()
		handlers := append([]func(Config){}, l.onChange...)
		l.mu.Unlock()
		for _, h := range handlers {
			h(cfg)
		}
	})
	l.v.WatchConfig()
}

func (c Config) validate() error {
	if c.Study.RoadmapWeeks < 1 {
		return fmt.Errorf("study.roadmap_weeks must be positive, got %d", c.Study.RoadmapWeeks)
	}
	if c.Study.QuestionCount < 1 {
		return fmt.Errorf("study.question_count must be positive, got %d", c.Study.QuestionCount)
	}
	if c.Study.QuestionDifficulty < 1 || c.Study.QuestionDifficulty > 10 {
		return fmt.Errorf("study.question_difficulty must be within 1-10, got %d", c.Study.QuestionDifficulty)
	}
	return nil
}
