// Package config loads the cardkeep configuration from cardkeep.yml with
// CARDKEEP_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultConfig returns a Config with sensible defaults: a local image
// provider and the port the original deployment used.
func DefaultConfig() *Config {
	return &Config{
		Port:           7743,
		DataDir:        "data",
		ImagesProvider: ProviderLocal,
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CARDKEEP_*). A missing file is not an
// error; env vars and defaults still apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// CARDKEEP_DATA_DIR -> data_dir, CARDKEEP_S3_BUCKET -> s3.bucket.
	if err := k.Load(env.Provider("CARDKEEP_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "CARDKEEP_"))
		if rest, ok := strings.CutPrefix(s, "s3_"); ok {
			return "s3." + rest
		}
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.ImagesProvider {
	case ProviderLocal:
		if c.ImagesDir == "" {
			return fmt.Errorf("images_dir is required for the local image provider")
		}
	case ProviderS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for the s3 image provider")
		}
	default:
		return fmt.Errorf("invalid images_provider %q: must be local or s3", c.ImagesProvider)
	}
	return nil
}
