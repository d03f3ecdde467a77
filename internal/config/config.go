// Package config loads the cmdflow settings from an optional YAML file.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidQueueSize = errors.New("queue_size must be at least 1")
	ErrInvalidLogLevel  = errors.New("log_level must be one of debug, info, warn, error")
)

// Config holds the settings of a run.
type Config struct {
	// QueueSize bounds the queue of every stage.
	QueueSize int `yaml:"queue_size"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// Measure logs stage durations and the slowest stage once the run finished.
	Measure bool `yaml:"measure"`
	// DOTFile is where the pipeline graph is written. Empty disables drawing.
	DOTFile string `yaml:"dot_file"`
	// ReferenceZone is the IANA zone reported by "gettime utc".
	ReferenceZone string `yaml:"reference_zone"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		QueueSize:     16,
		LogLevel:      "warn",
		ReferenceZone: "UTC",
	}
}

// Load reads the YAML file at path over the defaults. An empty path gives the defaults.
// The result is not validated so that it can still be overridden.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to read config file %s", path)
	}

	cfg, err = Parse(data)
	if err != nil {
		return cfg, errors.Wrapf(err, "invalid config file %s", path)
	}

	return cfg, nil
}

// Parse decodes data over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrap(err, "unable to decode config")
	}

	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.QueueSize < 1 {
		return errors.Wrapf(ErrInvalidQueueSize, "got %d", c.QueueSize)
	}

	_, err := c.Level()
	if err != nil {
		return err
	}

	_, err = c.Location()
	if err != nil {
		return err
	}

	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.Wrapf(ErrInvalidLogLevel, "got %q", c.LogLevel)
	}
}

// Location loads ReferenceZone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReferenceZone)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to load reference_zone %q", c.ReferenceZone)
	}

	return loc, nil
}
