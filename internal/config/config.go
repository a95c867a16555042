package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Output format constants
	FormatText = "text"
	FormatJSON = "json"

	// Default values
	DefaultLogLevel          = "info"
	DefaultMaxFileSize       = 50 * 1024 * 1024 // 50MB
	DefaultPositionTolerance = 5.0
)

// Config holds all configuration for the comparison tool
type Config struct {
	// Output configuration
	Format string `validate:"oneof=text json"`

	// Comparison configuration
	PositionTolerance float64 `validate:"gt=0"`

	// Application configuration
	LogLevel    string `validate:"oneof=debug info warn error"`
	MaxFileSize int64  `validate:"gt=0"`
	Version     string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Format:            FormatText,
		PositionTolerance: DefaultPositionTolerance,
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
		Version:           "1.0.0",
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("PDFCOMPARE")
	viper.AutomaticEnv()

	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("tolerance", cfg.PositionTolerance)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("format", cfg.Format, "Output format: 'text' or 'json'")
	pflag.Float64("tolerance", cfg.PositionTolerance, "Position tolerance in PDF units for the diff engine")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("format", pflag.Lookup("format"))
	_ = viper.BindPFlag("tolerance", pflag.Lookup("tolerance"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\npdfcompare - extract and compare interactive form fields across PDF versions\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  analyze <file.pdf>              Extract the field structure of one document\n")
		fmt.Fprintf(os.Stderr, "  compare <old.pdf> <new.pdf>     Diff the field structures of two versions\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDFCOMPARE_FORMAT       Output format\n")
		fmt.Fprintf(os.Stderr, "  PDFCOMPARE_TOLERANCE    Position tolerance\n")
		fmt.Fprintf(os.Stderr, "  PDFCOMPARE_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  PDFCOMPARE_MAXFILESIZE  Maximum file size\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Format = viper.GetString("format")
	cfg.PositionTolerance = viper.GetFloat64("tolerance")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Format: %s, PositionTolerance: %.1f, LogLevel: %s, MaxFileSize: %d}",
		c.Format, c.PositionTolerance, c.LogLevel, c.MaxFileSize)
}
