package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	IBEW       IBEWConfig       `yaml:"ibew" mapstructure:"ibew"`
	UnionFacts UnionFactsConfig `yaml:"unionfacts" mapstructure:"unionfacts"`
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// IBEWConfig configures the IBEW locals directory API.
type IBEWConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// UnionFactsConfig configures the UnionFacts HTML directory source.
type UnionFactsConfig struct {
	DirectoryURL string `yaml:"directory_url" mapstructure:"directory_url"`
	SiteOrigin   string `yaml:"site_origin" mapstructure:"site_origin"`
}

// HTTPConfig configures outbound HTTP behavior.
type HTTPConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// Timeout returns the request timeout as a duration.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// EnrichConfig configures the concurrent enrichment stage.
type EnrichConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
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
	v.SetEnvPrefix("UNIONDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ibew.base_url", "https://ibew.org/ludSearch/DataIO.ashx")
	v.SetDefault("unionfacts.directory_url", "https://unionfacts.com/locals/International_Brotherhood_of_Electrical_Workers")
	v.SetDefault("unionfacts.site_origin", "https://unionfacts.com")
	v.SetDefault("http.timeout_secs", 10)
	v.SetDefault("http.user_agent", "uniondir/1.0")
	v.SetDefault("enrich.max_concurrent", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
