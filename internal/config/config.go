// Package config loads the optional pgweasel YAML configuration file,
// letting operators pin default flags (mask, time bounds, workers, top-N,
// bucket width, debug) instead of repeating them on every invocation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config mirrors the subset of CLI flags an operator may want to pin in a
// config file. Any field left unset keeps the CLI's own default.
type Config struct {
	Mask        string `yaml:"mask"`
	Begin       string `yaml:"begin"`
	End         string `yaml:"end"`
	Workers     int    `yaml:"workers"`
	TopN        int    `yaml:"top_n"`
	BucketWidth string `yaml:"bucket_width"`
	Debug       bool   `yaml:"debug"`
}

// Load reads and parses the YAML file at path. Callers only invoke Load
// when --config was given; a missing or unreadable file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &c, nil
}
