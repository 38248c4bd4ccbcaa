package config_test

import (
	"os"
	"testing"

	"github.com/rverma17/cuckoofilter/pkg/config"
)

func TestConfigLoading(t *testing.T) {
	t.Run("Default_Configuration", func(t *testing.T) {
		cfg, err := config.Load("/non/existent/path")
		if err != nil {
			t.Fatalf("failed to load default config: %v", err)
		}

		if cfg.Filter.ExpectedCapacity != 100000 {
			t.Errorf("expected default capacity 100000, got %d", cfg.Filter.ExpectedCapacity)
		}
		if cfg.Filter.FalsePositiveRate != 0.002 {
			t.Errorf("expected default false positive rate 0.002, got %v", cfg.Filter.FalsePositiveRate)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected default log level 'info', got %s", cfg.Logging.Level)
		}
	})

	t.Run("YAML_Configuration_Loading", func(t *testing.T) {
		yamlContent := `
name: demo

filter:
  expected_capacity: 5000
  false_positive_rate: 0.001
  entries_per_bucket: 4
  concurrency_level: 8

logging:
  level: "debug"
  enable_file: true
  log_file: "/tmp/cuckoodemo.log"
`
		tmpfile, err := os.CreateTemp("", "cuckoofilter-test-*.yaml")
		if err != nil {
			t.Fatalf("failed to create temp file: %v", err)
		}
		defer os.Remove(tmpfile.Name())

		if _, err := tmpfile.Write([]byte(yamlContent)); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		tmpfile.Close()

		cfg, err := config.Load(tmpfile.Name())
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if cfg.Filter.ExpectedCapacity != 5000 {
			t.Errorf("expected capacity 5000, got %d", cfg.Filter.ExpectedCapacity)
		}
		if cfg.Filter.EntriesPerBucket != 4 {
			t.Errorf("expected entries per bucket 4, got %d", cfg.Filter.EntriesPerBucket)
		}
		if cfg.Filter.ConcurrencyLevel != 8 {
			t.Errorf("expected concurrency level 8, got %d", cfg.Filter.ConcurrencyLevel)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
		}
	})

	t.Run("Configuration_Validation", func(t *testing.T) {
		cfg, err := config.Load("/non/existent/path")
		if err != nil {
			t.Fatalf("failed to load default config: %v", err)
		}

		if err := cfg.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}

		cfg.Filter.ExpectedCapacity = 0
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected validation error for zero expected capacity")
		}

		cfg, _ = config.Load("/non/existent/path")
		cfg.Name = ""
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected validation error for empty name")
		}
	})

	t.Run("Missing_File_Is_Not_An_Error", func(t *testing.T) {
		if _, err := config.Load("/definitely/not/a/real/path.yaml"); err != nil {
			t.Errorf("missing config file should fall back to defaults, got error: %v", err)
		}
	})
}
