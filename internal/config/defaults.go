package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Codec: CodecConfig{
			Mode:              "canonical",
			Trace:             false,
			MaxContentLength:  0,
			InitialBufferSize: 64,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
