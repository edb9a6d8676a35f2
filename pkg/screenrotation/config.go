package screenrotation

import (
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/mutter"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/serial"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/uinput"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// SensorConfig selects the serial device, discovery ids or replay file.
	SensorConfig = serial.Config
	// ClassifierConfig holds the axis and orientation ranges.
	ClassifierConfig = config.ClassifierConfig
	// RangeConfig is one inclusive orientation range.
	RangeConfig = config.RangeConfig
	// DisplayConfig names the rotated connector and the service endpoint.
	DisplayConfig = config.DisplayConfig
	// ServiceConfig holds the D-Bus coordinates of the display service.
	ServiceConfig = mutter.Config
	// BreakerConfig tunes the apply circuit breaker.
	BreakerConfig = config.BreakerConfig
	// UInputConfig enables the virtual accelerometer.
	UInputConfig = uinput.Config
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// LogConfig sets the log level and format.
	LogConfig = config.LogConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	return config.Default()
}
