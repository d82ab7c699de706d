package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KilimcininKorOglu/lber/internal/ber"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the configuration and returns a list of validation errors.
// An empty slice indicates the configuration is valid.
func ValidateConfig(config *Config) []error {
	var errs []error

	errs = append(errs, validateCodecConfig(&config.Codec)...)
	errs = append(errs, validateLogConfig(&config.Logging)...)

	return errs
}

// validateCodecConfig validates codec configuration.
func validateCodecConfig(config *CodecConfig) []error {
	var errs []error

	if _, ok := ber.ParseMode(config.Mode); !ok {
		errs = append(errs, ValidationError{
			Field:   "codec.mode",
			Message: "must be canonical or legacy",
		})
	}

	if config.MaxContentLength < 0 {
		errs = append(errs, ValidationError{
			Field:   "codec.maxContentLength",
			Message: "must be non-negative",
		})
	} else if int64(config.MaxContentLength) > ber.MaxLength {
		errs = append(errs, ValidationError{
			Field:   "codec.maxContentLength",
			Message: fmt.Sprintf("must not exceed %d", int64(ber.MaxLength)),
		})
	}

	if config.InitialBufferSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "codec.initialBufferSize",
			Message: "must be non-negative",
		})
	}

	return errs
}

// validateLogConfig validates logging configuration.
func validateLogConfig(config *LogConfig) []error {
	var errs []error

	// Validate log level
	validLevels := map[string]bool{
		"debug": true, "trace": true, "info": true, "warn": true, "warning": true,
		"error": true, "disabled": true, "off": true, "none": true,
	}
	if config.Level != "" && !validLevels[strings.ToLower(config.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: "must be debug, info, warn, error, or off",
		})
	}

	// Validate log format
	validFormats := map[string]bool{"text": true, "json": true}
	if config.Format != "" && !validFormats[strings.ToLower(config.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: "must be text or json",
		})
	}

	// Validate output
	if config.Output != "" && config.Output != "stdout" && config.Output != "stderr" {
		dir := filepath.Dir(config.Output)
		if !filepath.IsAbs(config.Output) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: "must be stdout, stderr, or an absolute file path",
			})
		} else if _, err := os.Stat(dir); os.IsNotExist(err) {
			errs = append(errs, ValidationError{
				Field:   "logging.output",
				Message: fmt.Sprintf("directory %s does not exist", dir),
			})
		}
	}

	return errs
}
