package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-vcard/pkg/vcard"
)

// Config is the optional YAML configuration file. Flags override it.
type Config struct {
	LogLevel string       `yaml:"log_level"`
	Reader   ReaderConfig `yaml:"reader"`
	Writer   WriterConfig `yaml:"writer"`
}

// ReaderConfig contains parser settings.
type ReaderConfig struct {
	Strict   bool   `yaml:"strict"`
	FailFast bool   `yaml:"fail_fast"`
	Engine   string `yaml:"engine"` // "native" or "emersion"
}

// WriterConfig contains output settings.
type WriterConfig struct {
	Version       string `yaml:"version"`
	FoldLines     bool   `yaml:"fold_lines"`
	MaxLineLength int    `yaml:"max_line_length"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	w := vcard.DefaultWriterOptions()
	return &Config{
		LogLevel: "warn",
		Reader: ReaderConfig{
			Engine: engineNative,
		},
		Writer: WriterConfig{
			Version:       w.TargetVersion.String(),
			FoldLines:     w.FoldLines,
			MaxLineLength: w.MaxLineLength,
		},
	}
}

// LoadConfig reads the file at path over the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ReaderOptions converts the reader section.
func (c *Config) ReaderOptions() vcard.ReaderOptions {
	opts := vcard.DefaultReaderOptions()
	opts.Strict = c.Reader.Strict
	opts.FailFast = c.Reader.FailFast
	return opts
}

// WriterOptions converts and validates the writer section.
func (c *Config) WriterOptions() (vcard.WriterOptions, error) {
	v, ok := vcard.ParseVersion(c.Writer.Version)
	if !ok {
		return vcard.WriterOptions{}, fmt.Errorf("unsupported writer version %q", c.Writer.Version)
	}
	opts := vcard.WriterOptions{
		TargetVersion: v,
		FoldLines:     c.Writer.FoldLines,
		MaxLineLength: c.Writer.MaxLineLength,
	}
	if err := opts.Validate(); err != nil {
		return vcard.WriterOptions{}, err
	}
	return opts, nil
}
