package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/sumanth428/market-basket-analysis/internal/basket"
	"github.com/sumanth428/market-basket-analysis/internal/dataset"
)

// Global configuration structure.
type Global struct {
	// Mining thresholds
	MinSupport   float64 `mapstructure:"min_support" yaml:"min_support" validate:"gt=0,lte=1"`
	MaxLen       int     `mapstructure:"max_len" yaml:"max_len" validate:"gte=0"`
	Metric       string  `mapstructure:"metric" yaml:"metric" validate:"required,metric"`
	MinThreshold float64 `mapstructure:"min_threshold" yaml:"min_threshold"`

	// Recommendation query
	RankBy string `mapstructure:"rank_by" yaml:"rank_by" validate:"required,metric"`
	TopK   int    `mapstructure:"top_k" yaml:"top_k" validate:"gte=0"`

	// Dataset loading
	MaxRows       int      `mapstructure:"max_rows" yaml:"max_rows" validate:"gte=0"`
	MissingValues []string `mapstructure:"missing_values" yaml:"missing_values"`

	// Batch analysis
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=1,lte=64"`

	LogConfig `mapstructure:",squash" yaml:",inline"`
}

// LogConfig selects the zap logger flavor.
type LogConfig struct {
	Level  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=console json"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("metric", func(fl validator.FieldLevel) bool {
		_, err := basket.ParseMetric(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks field ranges and that the rule threshold suits the metric.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "config: validate")
	}
	m, _ := basket.ParseMetric(c.Metric)
	if err := basket.ValidateThreshold(m, c.MinThreshold); err != nil {
		return eris.Wrap(err, "config: validate")
	}
	return nil
}

// Dir returns ~/.basket.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "resolve home dir")
	}
	return filepath.Join(home, ".basket"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.basket/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "mkdir config dir")
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrap(err, "write config")
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by callers) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BASKET")
	v.AutomaticEnv()

	v.SetDefault("min_support", 0.01)
	v.SetDefault("max_len", 0)
	v.SetDefault("metric", string(basket.MetricLift))
	v.SetDefault("min_threshold", 0.5)
	v.SetDefault("rank_by", string(basket.MetricLift))
	v.SetDefault("top_k", basket.DefaultTopK)
	v.SetDefault("max_rows", 0)
	v.SetDefault("missing_values", dataset.DefaultMissingValues)
	v.SetDefault("concurrency", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &c, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.OutputPaths = []string{"stderr"}

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
