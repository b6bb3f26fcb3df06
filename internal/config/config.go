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
	Congress  CongressConfig  `yaml:"congress" mapstructure:"congress"`
	YouTube   YouTubeConfig   `yaml:"youtube" mapstructure:"youtube"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Matcher   MatcherConfig   `yaml:"matcher" mapstructure:"matcher"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// CongressConfig holds Congress.gov API settings.
type CongressConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	PageSize    int     `yaml:"page_size" mapstructure:"page_size"`
}

// YouTubeConfig holds YouTube Data API and channel roster settings.
type YouTubeConfig struct {
	Key          string  `yaml:"key" mapstructure:"key"`
	ChannelsFile string  `yaml:"channels_file" mapstructure:"channels_file"`
	MaxPerChan   int     `yaml:"max_per_channel" mapstructure:"max_per_channel"`
	RateLimit    float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds settings for the LLM adjudicator.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MatcherConfig holds scoring weights and decision thresholds.
//
// The thresholds are deliberately configuration, not constants: they were
// never calibrated against a labeled validation set, and the defaults
// reflect the most refined hand tuning rather than a settled design.
type MatcherConfig struct {
	DateWeight    float64 `yaml:"date_weight" mapstructure:"date_weight"`
	TitleWeight   float64 `yaml:"title_weight" mapstructure:"title_weight"`
	KeywordWeight float64 `yaml:"keyword_weight" mapstructure:"keyword_weight"`

	LowThreshold  float64 `yaml:"low_threshold" mapstructure:"low_threshold"`
	HighThreshold float64 `yaml:"high_threshold" mapstructure:"high_threshold"`

	// SameDayTitleFloor is the minimum title similarity for the same-day
	// re-ranking pass to replace the nominal best match.
	SameDayTitleFloor float64 `yaml:"same_day_title_floor" mapstructure:"same_day_title_floor"`

	// Candidate window offsets relative to the video date. The window is
	// asymmetric: the official date usually precedes or equals the
	// publish date, rarely follows it by more than a day.
	WindowDaysBefore int `yaml:"window_days_before" mapstructure:"window_days_before"`
	WindowDaysAfter  int `yaml:"window_days_after" mapstructure:"window_days_after"`

	// Adjudication referral controls for the ambiguous band.
	MaxAdjudicationCandidates int `yaml:"max_adjudication_candidates" mapstructure:"max_adjudication_candidates"`
	AdjudicationDateTolerance int `yaml:"adjudication_date_tolerance_days" mapstructure:"adjudication_date_tolerance_days"`
}

// StoreConfig configures the local SQLite store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ReportConfig configures report generation.
type ReportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the report viewer server.
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
	v.SetEnvPrefix("HEARINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. The key fields get explicit empty defaults so viper binds
	// their environment variables during Unmarshal.
	v.SetDefault("congress.key", "")
	v.SetDefault("youtube.key", "")
	v.SetDefault("youtube.channels_file", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("congress.base_url", "https://api.congress.gov/v3")
	v.SetDefault("congress.timeout_secs", 10)
	v.SetDefault("congress.rate_limit", 2.0)
	v.SetDefault("congress.page_size", 250)
	v.SetDefault("youtube.max_per_channel", 500)
	v.SetDefault("youtube.rate_limit", 2.0)
	v.SetDefault("youtube.timeout_secs", 15)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("matcher.date_weight", 0.40)
	v.SetDefault("matcher.title_weight", 0.45)
	v.SetDefault("matcher.keyword_weight", 0.15)
	v.SetDefault("matcher.low_threshold", 0.4)
	v.SetDefault("matcher.high_threshold", 0.6)
	v.SetDefault("matcher.same_day_title_floor", 0.4)
	v.SetDefault("matcher.window_days_before", 3)
	v.SetDefault("matcher.window_days_after", 1)
	v.SetDefault("matcher.max_adjudication_candidates", 10)
	v.SetDefault("matcher.adjudication_date_tolerance_days", 7)
	v.SetDefault("store.path", "hearings.db")
	v.SetDefault("report.dir", "report")
	v.SetDefault("server.port", 8080)
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
