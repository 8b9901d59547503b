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
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Locale  LocaleConfig  `yaml:"locale" mapstructure:"locale"`
	Chart   ChartConfig   `yaml:"chart" mapstructure:"chart"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig locates the incident CSV and the two HTML lookup tables.
type SourcesConfig struct {
	IncidentsURL string `yaml:"incidents_url" mapstructure:"incidents_url"`

	StateCodesURL   string `yaml:"state_codes_url" mapstructure:"state_codes_url"`
	StateCodesTable int    `yaml:"state_codes_table" mapstructure:"state_codes_table"`
	StateCodesKey   string `yaml:"state_codes_key" mapstructure:"state_codes_key"`
	StateCodesValue string `yaml:"state_codes_value" mapstructure:"state_codes_value"`

	PopulationURL   string `yaml:"population_url" mapstructure:"population_url"`
	PopulationTable int    `yaml:"population_table" mapstructure:"population_table"`
	PopulationKey   string `yaml:"population_key" mapstructure:"population_key"`
	PopulationValue string `yaml:"population_value" mapstructure:"population_value"`
	// PopulationBaseline is an earlier census column shown next to PopulationValue; empty skips it.
	PopulationBaseline string `yaml:"population_baseline" mapstructure:"population_baseline"`
}

// FetchConfig configures downloads and the local file cache.
type FetchConfig struct {
	CacheDir          string  `yaml:"cache_dir" mapstructure:"cache_dir"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// Timeout returns the per-request timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// LocaleConfig selects the weekday labels.
type LocaleConfig struct {
	Language     string `yaml:"language" mapstructure:"language"`
	WeekdaysFile string `yaml:"weekdays_file" mapstructure:"weekdays_file"`
}

// ChartConfig configures the weekday chart.
type ChartConfig struct {
	Output       string  `yaml:"output" mapstructure:"output"`
	Format       string  `yaml:"format" mapstructure:"format"`
	WidthInches  float64 `yaml:"width_inches" mapstructure:"width_inches"`
	HeightInches float64 `yaml:"height_inches" mapstructure:"height_inches"`
}

// ReportConfig configures optional exports.
type ReportConfig struct {
	ExportPath string `yaml:"export_path" mapstructure:"export_path"`
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
	v.SetEnvPrefix("SHOOTINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.incidents_url", "https://uploads.kodilla.com/bootcamp/pro-data-visualization/files/fatal-police-shootings-data.csv")
	v.SetDefault("sources.state_codes_url", "https://en.wikipedia.org/wiki/List_of_U.S._state_and_territory_abbreviations")
	v.SetDefault("sources.state_codes_table", 0)
	v.SetDefault("sources.state_codes_key", "USPS (& ANSI)")
	v.SetDefault("sources.state_codes_value", "Name")
	v.SetDefault("sources.population_url", "https://en.wikipedia.org/wiki/List_of_U.S._states_and_territories_by_population")
	v.SetDefault("sources.population_table", 0)
	v.SetDefault("sources.population_key", "State")
	v.SetDefault("sources.population_value", "Census population, April 1, 2020")
	v.SetDefault("sources.population_baseline", "Census population, April 1, 2010")
	v.SetDefault("fetch.cache_dir", ".")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("fetch.requests_per_second", 2.0)
	v.SetDefault("locale.language", "pl")
	v.SetDefault("locale.weekdays_file", "")
	v.SetDefault("chart.output", "weekday_interventions.png")
	v.SetDefault("chart.format", "png")
	v.SetDefault("chart.width_inches", 10.0)
	v.SetDefault("chart.height_inches", 6.0)
	v.SetDefault("report.export_path", "")
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

// Validate checks the settings every command relies on and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Sources.IncidentsURL == "" {
		problems = append(problems, "sources.incidents_url is required")
	}
	if c.Sources.StateCodesTable < 0 || c.Sources.PopulationTable < 0 {
		problems = append(problems, "sources table indexes must be >= 0")
	}
	if c.Fetch.MaxAttempts < 1 || c.Fetch.MaxAttempts > 10 {
		problems = append(problems, "fetch.max_attempts must be between 1 and 10")
	}
	if c.Fetch.TimeoutSecs < 1 {
		problems = append(problems, "fetch.timeout_secs must be >= 1")
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		problems = append(problems, "fetch.requests_per_second must be > 0")
	}
	switch strings.ToLower(c.Chart.Format) {
	case "png", "html":
	default:
		problems = append(problems, "chart.format must be png or html")
	}
	if c.Chart.WidthInches <= 0 || c.Chart.HeightInches <= 0 {
		problems = append(problems, "chart dimensions must be > 0")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger builds the zap logger and installs it as the global logger.
func InitLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}
