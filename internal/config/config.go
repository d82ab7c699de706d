// Package config provides configuration parsing for the lber codec and tools.
package config

import (
	"fmt"

	"github.com/KilimcininKorOglu/lber/internal/ber"
	"github.com/KilimcininKorOglu/lber/internal/logging"
)

// Config holds the complete configuration.
type Config struct {
	Codec   CodecConfig `yaml:"codec" toml:"codec"`
	Logging LogConfig   `yaml:"logging" toml:"logging"`
}

// CodecConfig holds cursor settings.
type CodecConfig struct {
	Mode              string `yaml:"mode" toml:"mode"`
	Trace             bool   `yaml:"trace" toml:"trace"`
	MaxContentLength  int    `yaml:"maxContentLength" toml:"max_content_length"`
	InitialBufferSize int    `yaml:"initialBufferSize" toml:"initial_buffer_size"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	Output string `yaml:"output" toml:"output"`
}

// Options converts the codec section into cursor options. Trace output goes
// to log.
func (c *Config) Options(log logging.Logger) (ber.Options, error) {
	mode, ok := ber.ParseMode(c.Codec.Mode)
	if !ok {
		return ber.Options{}, ValidationError{
			Field:   "codec.mode",
			Message: fmt.Sprintf("unknown mode %q", c.Codec.Mode),
		}
	}
	return ber.Options{
		Mode:             mode,
		Trace:            c.Codec.Trace,
		Logger:           log,
		MaxContentLength: c.Codec.MaxContentLength,
		InitialSize:      c.Codec.InitialBufferSize,
	}, nil
}

// Logger creates a logger from the logging section. Codec trace lines are
// logged at debug, so codec.trace lowers the level to debug.
func (c *Config) Logger() logging.Logger {
	level := c.Logging.Level
	if c.Codec.Trace {
		level = "debug"
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	})
}
