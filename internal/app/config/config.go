package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/mutter"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/serial"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/uinput"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/orientation"
)

type Config struct {
	Sensor     serial.Config    `yaml:"sensor"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Display    DisplayConfig    `yaml:"display"`
	Breaker    BreakerConfig    `yaml:"breaker"`
	UInput     uinput.Config    `yaml:"uinput"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Log        LogConfig        `yaml:"log"`
}

type ClassifierConfig struct {
	Axis   string        `yaml:"axis"`
	Ranges []RangeConfig `yaml:"ranges"`
}

// RangeConfig is an inclusive range; a missing bound is unbounded.
type RangeConfig struct {
	State string   `yaml:"state"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
}

type DisplayConfig struct {
	Connector string        `yaml:"connector"`
	SkipScale bool          `yaml:"skip_scale"`
	Service   mutter.Config `yaml:"service"`
}

type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

type MetricsConfig struct {
	Addr     string `yaml:"addr"`
	Disabled bool   `yaml:"disabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied. It is not
// validated.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Classifier.Axis == "" {
		c.Classifier.Axis = "y"
	}
	if c.Display.Connector == "" {
		c.Display.Connector = "eDP-1"
	}
	if c.Breaker.MaxFailures == 0 {
		c.Breaker.MaxFailures = 5
	}
	if c.Breaker.OpenTimeout == 0 {
		c.Breaker.OpenTimeout = 30 * time.Second
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9101"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	c.Sensor.ApplyDefaults()
	c.Display.Service.ApplyDefaults()
	c.UInput.ApplyDefaults()
}

func (c *Config) validate() error {
	if err := c.Sensor.Validate(); err != nil {
		return fmt.Errorf("sensor config: %w", err)
	}
	if err := c.Display.Service.Validate(); err != nil {
		return fmt.Errorf("display.service config: %w", err)
	}
	if _, err := c.Axis(); err != nil {
		return fmt.Errorf("classifier.axis: %w", err)
	}
	if _, err := c.BuildClassifier(); err != nil {
		return fmt.Errorf("classifier.ranges: %w", err)
	}
	if c.Display.Connector == "" {
		return fmt.Errorf("display.connector is required")
	}
	return nil
}

func (c *Config) Axis() (domain.Axis, error) {
	return domain.ParseAxis(c.Classifier.Axis)
}

// BuildClassifier returns the configured classifier, or the default ranges
// when none are configured.
func (c *Config) BuildClassifier() (*orientation.Classifier, error) {
	if len(c.Classifier.Ranges) == 0 {
		return orientation.NewClassifier(orientation.DefaultRanges())
	}
	ranges := make([]orientation.Range, 0, len(c.Classifier.Ranges))
	for i, rc := range c.Classifier.Ranges {
		state, err := domain.ParseOrientation(rc.State)
		if err != nil {
			return nil, fmt.Errorf("range %d: %w", i, err)
		}
		r := orientation.Range{State: state, Min: math.Inf(-1), Max: math.Inf(1)}
		if rc.Min != nil {
			r.Min = *rc.Min
		}
		if rc.Max != nil {
			r.Max = *rc.Max
		}
		ranges = append(ranges, r)
	}
	return orientation.NewClassifier(ranges)
}
