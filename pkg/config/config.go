package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for cmd/cuckoodemo.
type Config struct {
	Name    string        `yaml:"name"`
	Filter  FilterConfig  `yaml:"filter"`
	Logging LoggingConfig `yaml:"logging"`
}

// FilterConfig mirrors the Builder's knobs. Fields left at their zero
// value fall back to the Builder's derived defaults; ExpectedCapacity is
// the one required field.
type FilterConfig struct {
	ExpectedCapacity  uint64  `yaml:"expected_capacity"`
	FalsePositiveRate float64 `yaml:"false_positive_rate"`
	BitsPerEntry      uint8   `yaml:"bits_per_entry"`
	EntriesPerBucket  uint8   `yaml:"entries_per_bucket"`
	ConcurrencyLevel  uint64  `yaml:"concurrency_level"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level         string `yaml:"level"`          // debug, info, warn, error
	EnableConsole bool   `yaml:"enable_console"` // Enable console output
	EnableFile    bool   `yaml:"enable_file"`    // Enable file output
	LogFile       string `yaml:"log_file"`       // Log file path
	BufferSize    int    `yaml:"buffer_size"`    // Async log buffer size
	LogDir        string `yaml:"log_dir"`        // Log directory
}

// Load reads and parses the configuration file, overlaying it on defaults.
// A missing file is not an error: the caller gets defaults back.
func Load(path string) (*Config, error) {
	config := &Config{
		Name: "cuckoodemo",
		Filter: FilterConfig{
			ExpectedCapacity:  100000,
			FalsePositiveRate: 0.002,
		},
		Logging: LoggingConfig{
			Level:         "info",
			EnableConsole: true,
			EnableFile:    false,
			BufferSize:    1000,
			LogDir:        "logs",
		},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("configuration file %s not found, using defaults\n", path)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid. Filter-specific bounds
// (capacity, false-positive rate, power-of-two constraints) are deferred
// to Builder.Build, which already aggregates those errors; Validate only
// catches values that would be nonsensical before a Builder ever sees them.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if c.Filter.ExpectedCapacity == 0 {
		return fmt.Errorf("filter.expected_capacity must be >= 1")
	}
	return nil
}
