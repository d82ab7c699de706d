// Package config provides configuration parsing for the lber codec and tools.
//
// # Overview
//
// The config package loads and validates codec and logging settings from
// YAML or TOML files and environment variables. It supports:
//
//   - YAML files (gopkg.in/yaml.v3) and TOML files (BurntSushi/toml)
//   - Environment variable substitution and overrides
//   - Default values for all settings
//   - Configuration validation
//
// # Configuration Structure
//
//	type Config struct {
//	    Codec   CodecConfig // Cursor mode, tracing and limits
//	    Logging LogConfig   // Logging settings
//	}
//
// # Loading Configuration
//
// The file extension picks the syntax; .toml is TOML, anything else YAML:
//
//	cfg, err := config.LoadConfig("/etc/lber/berdump.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Or use defaults:
//
//	cfg := config.DefaultConfig()
//
// Unknown keys are rejected.
//
// # Environment Variables
//
// Values may reference the environment:
//
//	codec:
//	  mode: "${LBER_MODE:-canonical}"
//
// After decoding, these variables override the file:
//
//	LBER_CODEC_MODE, LBER_CODEC_TRACE, LBER_CODEC_MAX_CONTENT_LENGTH
//	LBER_LOGGING_LEVEL, LBER_LOGGING_FORMAT, LBER_LOGGING_OUTPUT
//
// # Using the Configuration
//
//	log := cfg.Logger()
//	opts, err := cfg.Options(log)
//	dec := ber.NewDecoderWithOptions(data, opts)
//
// # Validation
//
//	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
//	    for _, err := range errs {
//	        fmt.Println(err)
//	    }
//	}
package config
