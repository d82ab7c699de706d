package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Parser errors.
var (
	ErrFileNotFound      = errors.New("configuration file not found")
	ErrMissingConfigFile = errors.New("config file path is required")
	ErrUnknownKey        = errors.New("unknown configuration key")
	ErrInvalidOverride   = errors.New("invalid environment override")
)

// Format is the syntax of a configuration file.
type Format int

const (
	// FormatYAML selects YAML.
	FormatYAML Format = iota
	// FormatTOML selects TOML.
	FormatTOML
)

// String returns the name of the format.
func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// FormatFromPath picks the format from a file extension. Anything other
// than .toml is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// LoadConfig loads configuration from a file path.
// It reads the file, substitutes environment variables, decodes it over
// the defaults and applies LBER_* overrides.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, ErrMissingConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}

	config, err := ParseConfig(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// ParseConfig parses configuration data in the given format.
// Keys missing from data keep their default values.
func ParseConfig(data []byte, format Format) (*Config, error) {
	// Substitute environment variables
	data = substituteEnvVars(data)

	// Start with defaults
	config := DefaultConfig()

	var err error
	switch format {
	case FormatTOML:
		err = decodeTOML(data, config)
	default:
		err = decodeYAML(data, config)
	}
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeYAML(data []byte, config *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, config *Config) error {
	md, err := toml.Decode(string(data), config)
	if err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownKey, undecoded[0].String())
	}
	return nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment variable values.
func substituteEnvVars(data []byte) []byte {
	// Pattern matches ${VAR} or ${VAR:-default}
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllFunc(data, func(match []byte) []byte {
		content := string(match[2 : len(match)-1])

		if idx := strings.Index(content, ":-"); idx != -1 {
			varName := content[:idx]
			defaultVal := content[idx+2:]
			if val := os.Getenv(varName); val != "" {
				return []byte(val)
			}
			return []byte(defaultVal)
		}

		return []byte(os.Getenv(content))
	})
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern LBER_<SECTION>_<KEY>.
func applyEnvOverrides(cfg *Config) error {
	// Codec overrides
	if v := os.Getenv("LBER_CODEC_MODE"); v != "" {
		cfg.Codec.Mode = v
	}
	if v := os.Getenv("LBER_CODEC_TRACE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: LBER_CODEC_TRACE=%q", ErrInvalidOverride, v)
		}
		cfg.Codec.Trace = b
	}
	if v := os.Getenv("LBER_CODEC_MAX_CONTENT_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: LBER_CODEC_MAX_CONTENT_LENGTH=%q", ErrInvalidOverride, v)
		}
		cfg.Codec.MaxContentLength = n
	}

	// Logging overrides
	if v := os.Getenv("LBER_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LBER_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LBER_LOGGING_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
	return nil
}
