// Package config loads the run configuration and the substitution tables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spicery/swift2kt/pkg/common"
)

// Sentinel validation errors.
var (
	ErrInvalidIndent          = errors.New("indent unit must not be empty")
	ErrInvalidLineLimit       = errors.New("line limit must be positive")
	ErrInvalidWorkers         = errors.New("workers must be positive")
	ErrInvalidHorizontalLimit = errors.New("horizontal limit must not be negative")
	ErrInvalidFormat          = errors.New("unknown dump format")
)

// Default configuration values.
const (
	DefaultIndentUnit      = "\t"
	DefaultLineLimit       = 100
	DefaultWorkers         = 4
	DefaultHorizontalLimit = common.DefaultHorizontalLimit
	DefaultDumpFormat      = "tree"
	DefaultLogLevel        = "warn"
)

// Config holds everything a translation run can be told.
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Dump     DumpConfig     `mapstructure:"dump"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Substitutions is a YAML file overlaid on the default substitutions.
	Substitutions string `mapstructure:"substitutions"`
	// Bundle is a SQLite file recording the run, or "" for none.
	Bundle string `mapstructure:"bundle"`
}

type OutputConfig struct {
	IndentUnit string `mapstructure:"indent_unit"`
	LineLimit  int    `mapstructure:"line_limit"`
}

type PipelineConfig struct {
	Workers          int  `mapstructure:"workers"`
	StopAtFirstError bool `mapstructure:"stop_at_first_error"`
}

type DumpConfig struct {
	Format          string `mapstructure:"format"`
	HorizontalLimit int    `mapstructure:"horizontal_limit"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"indent":              "output.indent_unit",
	"line-limit":          "output.line_limit",
	"workers":             "pipeline.workers",
	"stop-at-first-error": "pipeline.stop_at_first_error",
	"format":              "dump.format",
	"horizontal-limit":    "dump.horizontal_limit",
	"log-level":           "logging.level",
	"substitutions":       "substitutions",
	"bundle":              "bundle",
}

// LoadConfig reads defaults, then the config file, then SWIFT2KT_*
// environment variables, then any of the given flags that were set.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".swift2kt")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix("SWIFT2KT")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := viperCfg.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Output:   OutputConfig{IndentUnit: DefaultIndentUnit, LineLimit: DefaultLineLimit},
		Pipeline: PipelineConfig{Workers: DefaultWorkers},
		Dump:     DumpConfig{Format: DefaultDumpFormat, HorizontalLimit: DefaultHorizontalLimit},
		Logging:  LoggingConfig{Level: DefaultLogLevel},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("output.indent_unit", DefaultIndentUnit)
	viperCfg.SetDefault("output.line_limit", DefaultLineLimit)
	viperCfg.SetDefault("pipeline.workers", DefaultWorkers)
	viperCfg.SetDefault("pipeline.stop_at_first_error", false)
	viperCfg.SetDefault("dump.format", DefaultDumpFormat)
	viperCfg.SetDefault("dump.horizontal_limit", DefaultHorizontalLimit)
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("substitutions", "")
	viperCfg.SetDefault("bundle", "")
}

func validateConfig(config *Config) error {
	if config.Output.IndentUnit == "" {
		return ErrInvalidIndent
	}

	if config.Output.LineLimit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLineLimit, config.Output.LineLimit)
	}

	if config.Pipeline.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Pipeline.Workers)
	}

	if config.Dump.HorizontalLimit < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHorizontalLimit, config.Dump.HorizontalLimit)
	}

	if _, err := common.PickPrintFunc(config.Dump.Format); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, config.Dump.Format)
	}

	return nil
}
