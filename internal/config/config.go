package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given and the file exists
const DefaultFile = "metadata-inspector.yaml"

// Config holds the application configuration
type Config struct {
	// External extraction tool
	ExifToolPath string `yaml:"exiftool_path"`

	// Export settings
	OutputDir string `yaml:"output_dir"`

	// Presentation and logging
	ShowBanner bool   `yaml:"show_banner"`
	NoColor    bool   `yaml:"no_color"`
	Verbose    bool   `yaml:"verbose"`
	LogFile    string `yaml:"log_file"`
}

// Default returns the configuration used when nothing else is specified
func Default() Config {
	return Config{
		ExifToolPath: "exiftool",
		OutputDir:    ".",
		ShowBanner:   true,
	}
}

// Load reads a YAML config file on top of the defaults. When path is empty
// the default file is used if present; an explicit path must exist
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that required settings are usable
func (c Config) Validate() error {
	if c.ExifToolPath == "" {
		return errors.New("exiftool_path must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	return nil
}
