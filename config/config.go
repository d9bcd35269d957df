package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/uyouii/peak-asymmetry/asymmetry"
	"github.com/uyouii/peak-asymmetry/common"
	"github.com/uyouii/peak-asymmetry/spectrumio"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes environment overrides, e.g. PEAKASYM_ANALYSIS_RELATIVE_HEIGHT.
const EnvPrefix = "PEAKASYM"

type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
}

type AnalysisConfig struct {
	MinProminence  float64 `mapstructure:"min_prominence"`
	RelativeHeight float64 `mapstructure:"relative_height"`
	Workers        int     `mapstructure:"workers"`
}

type InputConfig struct {
	Columns spectrumio.Columns `mapstructure:"columns"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"` // json, yaml or table
	Chart  string `mapstructure:"chart"`  // optional HTML chart path
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.min_prominence", asymmetry.DefaultMinProminence)
	v.SetDefault("analysis.relative_height", asymmetry.DefaultRelativeHeight)
	v.SetDefault("analysis.workers", asymmetry.DefaultBatchWorkers)
	v.SetDefault("input.columns.position", spectrumio.DefaultPositionColumn)
	v.SetDefault("input.columns.intensity", spectrumio.DefaultIntensityColumn)
	v.SetDefault("output.format", "table")
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_size", 32<<20)
}

// Default returns the configuration used when no file is given.
// Invalid environment overrides are ignored here; Load reports them.
func Default() *Config {
	if cfg, err := Load(""); err == nil {
		return cfg
	}
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = decode(v, &cfg)
	return &cfg
}

func decode(v *viper.Viper, cfg *Config) error {
	return v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	})
}

// Load reads an optional YAML file, applies PEAKASYM_* environment overrides and validates.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := decode(v, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	err := c.AnalysisOptions().Validate()
	if c.Analysis.Workers <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: analysis.workers must be > 0", common.ErrorInvalidInput))
	}
	if _, lerr := zapcore.ParseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("%w: log.level: %v", common.ErrorInvalidInput, lerr))
	}
	switch c.Output.Format {
	case "json", "yaml", "yml", "table", "text":
	default:
		err = multierr.Append(err, fmt.Errorf("%w: output.format %q", common.ErrorInvalidInput, c.Output.Format))
	}
	if c.Server.MaxUploadSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: server.max_upload_size must be > 0", common.ErrorInvalidInput))
	}
	return err
}

func (c *Config) AnalysisOptions() asymmetry.Options {
	return asymmetry.Options{
		MinProminence:  c.Analysis.MinProminence,
		RelativeHeight: c.Analysis.RelativeHeight,
	}
}
