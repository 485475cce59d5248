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
	PPP    SourceConfig `yaml:"ppp" mapstructure:"ppp"`
	NAICS  SourceConfig `yaml:"naics" mapstructure:"naics"`
	Source CacheConfig  `yaml:"source" mapstructure:"source"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Query  QueryConfig  `yaml:"query" mapstructure:"query"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates one remote CSV and its local copy.
type SourceConfig struct {
	URL       string `yaml:"url" mapstructure:"url"`
	Path      string `yaml:"path" mapstructure:"path"`
	HasHeader bool   `yaml:"has_header" mapstructure:"has_header"`
}

// CacheConfig configures source downloads.
type CacheConfig struct {
	ManifestPath string `yaml:"manifest_path" mapstructure:"manifest_path"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries   int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// OutputConfig configures result export.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Name   string `yaml:"name" mapstructure:"name"`
	Format string `yaml:"format" mapstructure:"format"`
}

// QueryConfig configures query reporting.
type QueryConfig struct {
	TopN      int    `yaml:"top_n" mapstructure:"top_n"`
	PlansPath string `yaml:"plans_path" mapstructure:"plans_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("PPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ppp.url", "https://s3.amazonaws.com/ppp.sba.gov/foia_150k_plus.csv")
	v.SetDefault("ppp.path", "./input_files/foia_150k_plus.csv")
	v.SetDefault("ppp.has_header", true)
	v.SetDefault("naics.url", "https://s3.amazonaws.com/ppp.sba.gov/2017_NAICS_Structure.csv")
	v.SetDefault("naics.path", "./input_files/2017_NAICS_Structure.csv")
	v.SetDefault("naics.has_header", true)
	v.SetDefault("source.manifest_path", "./input_files/sources.db")
	v.SetDefault("source.user_agent", "ppp-cli/1.0")
	v.SetDefault("source.timeout_secs", 600)
	v.SetDefault("source.max_retries", 3)
	v.SetDefault("output.dir", "./output_files")
	v.SetDefault("output.name", "query_results.csv")
	v.SetDefault("output.format", "csv")
	v.SetDefault("query.top_n", 20)
	v.SetDefault("query.plans_path", "plans.yaml")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// Validate checks the settings a command mode depends on. Modes: "query",
// "fetch", "serve". output.format is checked by the query command once its
// --format flag has been applied.
func (c *Config) Validate(mode string) error {
	var errs []string

	sources := []struct {
		name string
		src  SourceConfig
	}{{"ppp", c.PPP}, {"naics", c.NAICS}}

	requireSources := func() {
		for _, s := range sources {
			if s.src.Path == "" {
				errs = append(errs, s.name+".path is required")
			}
		}
		if c.Source.MaxRetries < 0 {
			errs = append(errs, "source.max_retries must be >= 0")
		}
		if c.Source.TimeoutSecs < 0 {
			errs = append(errs, "source.timeout_secs must be >= 0")
		}
	}

	switch mode {
	case "fetch":
		requireSources()
		for _, s := range sources {
			if s.src.URL == "" {
				errs = append(errs, s.name+".url is required")
			}
		}
	case "query":
		requireSources()
		if c.Query.TopN < 0 {
			errs = append(errs, "query.top_n must be >= 0")
		}
		if c.Output.Dir == "" {
			errs = append(errs, "output.dir is required")
		}
	case "serve":
		requireSources()
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
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
