// Package config loads service settings from an optional config.yaml, an
// optional .env file and VOICECAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"voicecat/internal/domain"
)

type Server struct {
	Addr          string        `mapstructure:"addr"`
	MaxUploadMB   int64         `mapstructure:"max_upload_mb"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

type Storage struct {
	// memory keeps the catalog in process; jobs, templates and the sql
	// cache then live in an in-memory sqlite database.
	Driver string `mapstructure:"driver"` // sqlite | mysql | memory
	DSN    string `mapstructure:"dsn"`
	IDs    string `mapstructure:"ids"` // uuid | sequence
}

type Cache struct {
	Backend string        `mapstructure:"backend"` // sql | redis | none
	TTL     time.Duration `mapstructure:"ttl"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type Pipeline struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

type Translator struct {
	Provider string        `mapstructure:"provider"` // llm | libretranslate | google
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LLM struct {
	Enabled     bool          `mapstructure:"enabled"`
	Name        string        `mapstructure:"name"`
	Type        string        `mapstructure:"type"` // openrouter | ollama
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type STT struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Queue struct {
	URL          string `mapstructure:"url"`
	CommandQueue string `mapstructure:"command_queue"`
	ResultQueue  string `mapstructure:"result_queue"`
	EventsQueue  string `mapstructure:"events_queue"`
	Prefetch     int    `mapstructure:"prefetch"`
}

type Batch struct {
	MaxItems    int           `mapstructure:"max_items"`
	ItemTimeout time.Duration `mapstructure:"item_timeout"`
}

type Config struct {
	Server     Server     `mapstructure:"server"`
	Log        Log        `mapstructure:"log"`
	Storage    Storage    `mapstructure:"storage"`
	Cache      Cache      `mapstructure:"cache"`
	Redis      Redis      `mapstructure:"redis"`
	Pipeline   Pipeline   `mapstructure:"pipeline"`
	Translator Translator `mapstructure:"translator"`
	LLM        LLM        `mapstructure:"llm"`
	STT        STT        `mapstructure:"stt"`
	Queue      Queue      `mapstructure:"queue"`
	Batch      Batch      `mapstructure:"batch"`
}

var defaults = map[string]any{
	"server.addr":               ":8080",
	"server.max_upload_mb":      25,
	"server.read_timeout":       "30s",
	"server.write_timeout":      "120s",
	"server.shutdown_grace":     "10s",
	"log.level":                 "info",
	"log.format":                "text",
	"storage.driver":            "sqlite",
	"storage.dsn":               "data/voicecat.db",
	"storage.ids":               "uuid",
	"cache.backend":             "sql",
	"cache.ttl":                 "720h",
	"redis.addr":                "localhost:6379",
	"redis.password":            "",
	"redis.db":                  0,
	"redis.prefix":              "voicecat:tr:",
	"pipeline.default_language": "ta",
	"translator.provider":       "llm",
	"translator.base_url":       "",
	"translator.api_key":        "",
	"translator.timeout":        "15s",
	"llm.enabled":               true,
	"llm.name":                  "default",
	"llm.type":                  "ollama",
	"llm.base_url":              "",
	"llm.api_key":               "",
	"llm.model":                 "llama3.1",
	"llm.temperature":           0.0,
	"llm.timeout":               "20s",
	"stt.base_url":              "",
	"stt.api_key":               "",
	"stt.model":                 "whisper-1",
	"stt.timeout":               "60s",
	"queue.url":                 "",
	"queue.command_queue":       "voicecat.pipeline.cmd",
	"queue.result_queue":        "voicecat.pipeline.result",
	"queue.events_queue":        "voicecat.events",
	"queue.prefetch":            1,
	"batch.max_items":           500,
	"batch.item_timeout":        "60s",
}

// Load reads configuration. configFile may be empty, in which case
// ./config.yaml is used when present.
func Load(configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("VOICECAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func oneOf(field, val string, allowed ...string) error {
	for _, a := range allowed {
		if val == a {
			return nil
		}
	}
	return fmt.Errorf("%s: %q is not one of %s", field, val, strings.Join(allowed, ", "))
}

func (c Config) Validate() error {
	errs := []error{
		oneOf("log.format", c.Log.Format, "text", "json"),
		oneOf("storage.driver", c.Storage.Driver, "sqlite", "mysql", "memory"),
		oneOf("storage.ids", c.Storage.IDs, "uuid", "sequence"),
		oneOf("cache.backend", c.Cache.Backend, "sql", "redis", "none"),
		oneOf("translator.provider", c.Translator.Provider, "llm", "libretranslate", "google"),
	}
	if !domain.Language(c.Pipeline.DefaultLanguage).IsSupported() {
		errs = append(errs, fmt.Errorf("pipeline.default_language: %q is not supported", c.Pipeline.DefaultLanguage))
	}
	if c.Translator.Provider == "libretranslate" && c.Translator.BaseURL == "" {
		errs = append(errs, errors.New("translator.base_url is required for libretranslate"))
	}
	if c.Translator.Provider == "google" && c.Translator.APIKey == "" {
		errs = append(errs, errors.New("translator.api_key is required for google"))
	}
	if (c.Translator.Provider == "llm" || c.LLM.Enabled) && c.LLM.Type == "" {
		errs = append(errs, errors.New("llm.type is required when the llm is used"))
	}
	if c.Storage.Driver == "mysql" && c.Storage.DSN == defaults["storage.dsn"] {
		errs = append(errs, errors.New("storage.dsn must be a mysql DSN when storage.driver is mysql"))
	}
	return errors.Join(errs...)
}

// UsesLLM reports whether any component needs the LLM provider.
func (c Config) UsesLLM() bool { return c.LLM.Enabled || c.Translator.Provider == "llm" }
