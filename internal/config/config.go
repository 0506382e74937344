// Package config loads application configuration from file and
// environment. All pipeline knobs live here; nothing reads environment
// variables at import time.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Serper  SerperConfig  `yaml:"serper" mapstructure:"serper"`
	ZenRows ZenRowsConfig `yaml:"zenrows" mapstructure:"zenrows"`
	Groq    GroqConfig    `yaml:"groq" mapstructure:"groq"`
	Chunk   ChunkConfig   `yaml:"chunk" mapstructure:"chunk"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Scrape  ScrapeConfig  `yaml:"scrape" mapstructure:"scrape"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SerperConfig holds Serper search API settings.
type SerperConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Location string `yaml:"location" mapstructure:"location"`
	Country  string `yaml:"country" mapstructure:"country"`
}

// ZenRowsConfig holds ZenRows scraping API settings.
type ZenRowsConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	ProxyCountry string `yaml:"proxy_country" mapstructure:"proxy_country"`
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
}

// GroqConfig holds completion provider settings.
type GroqConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	Model   string  `yaml:"model" mapstructure:"model"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// ChunkConfig holds text splitting parameters.
type ChunkConfig struct {
	Size    int `yaml:"size" mapstructure:"size"`
	Overlap int `yaml:"overlap" mapstructure:"overlap"`
}

// ExtractConfig configures per-kind extraction behavior.
type ExtractConfig struct {
	ProductTopK int `yaml:"product_top_k" mapstructure:"product_top_k"`
	EmailTopK   int `yaml:"email_top_k" mapstructure:"email_top_k"`
	MaxDocChars int `yaml:"max_doc_chars" mapstructure:"max_doc_chars"`

	// AllowedDomains filters search results when FilterDomains is on.
	// Off by default: the filter cut too many legitimate vendors.
	AllowedDomains []string `yaml:"allowed_domains" mapstructure:"allowed_domains"`
	FilterDomains  bool     `yaml:"filter_domains" mapstructure:"filter_domains"`
}

// ScrapeConfig configures page acquisition.
type ScrapeConfig struct {
	MaxConcurrent int    `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	CachePath     string `yaml:"cache_path" mapstructure:"cache_path"`
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("QUOTESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default empty so AutomaticEnv can fill them:
	// viper only unmarshals env values for keys it already knows.
	v.SetDefault("serper.key", "")
	v.SetDefault("zenrows.key", "")
	v.SetDefault("groq.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.location", "Saudi Arabia")
	v.SetDefault("serper.country", "sa")
	v.SetDefault("zenrows.base_url", "https://api.zenrows.com/v1/")
	v.SetDefault("zenrows.proxy_country", "sa")
	v.SetDefault("zenrows.enabled", false)
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama3-8b-8192")
	v.SetDefault("groq.rps", 2.0)
	v.SetDefault("chunk.size", 10000)
	v.SetDefault("chunk.overlap", 500)
	v.SetDefault("extract.product_top_k", 20)
	v.SetDefault("extract.email_top_k", 40)
	v.SetDefault("extract.max_doc_chars", 10000)
	v.SetDefault("extract.filter_domains", false)
	v.SetDefault("extract.allowed_domains", []string{
		"amazon", "ebay", "bestbuy", "shareefcorner", "noon", "jarir", "electroon",
	})
	v.SetDefault("scrape.max_concurrent", 5)
	v.SetDefault("scrape.cache_path", "quotescout.db")
	v.SetDefault("scrape.cache_ttl_hours", 24)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
