// Package config loads the browser configuration and builds its logger.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	BrowserConfig struct {
		Width      int    `yaml:"width" validate:"min=200"`
		Height     int    `yaml:"height" validate:"min=100"`
		ScrollStep int    `yaml:"scroll_step" validate:"min=1"`
		Home       string `yaml:"home" validate:"required"`
	}

	CacheConfig struct {
		Kind string `yaml:"kind" validate:"oneof=none memory sqlite"`
		Path string `yaml:"path" validate:"required_if=Kind sqlite"`
	}

	NetworkConfig struct {
		UserAgent    string        `yaml:"user_agent" validate:"required"`
		Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
		MaxRedirects int           `yaml:"max_redirects" validate:"gte=0"`
		Cache        CacheConfig   `yaml:"cache"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Browser BrowserConfig `yaml:"browser"`
		Network NetworkConfig `yaml:"network"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Unknown keys are errors, so yaml.Unmarshal will not do.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration expands the embedded template for defaults, overlays
// the file at path when one is given, and validates the result.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns the expanded default configuration file.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
