package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/orientation"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
sensor:
  device: /dev/ttyACM0
display:
  connector: eDP-2
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Sensor.ReadTimeout != time.Second {
		t.Fatalf("expected ReadTimeout default 1s, got %s", cfg.Sensor.ReadTimeout)
	}
	if cfg.Sensor.BaudRate != 115200 {
		t.Fatalf("expected BaudRate default 115200, got %d", cfg.Sensor.BaudRate)
	}
	if cfg.Sensor.VendorID != "" {
		t.Fatalf("expected no vendor id when a device is configured, got %s", cfg.Sensor.VendorID)
	}
	if cfg.Metrics.Addr != ":9101" {
		t.Fatalf("expected default metrics addr :9101, got %s", cfg.Metrics.Addr)
	}
	if cfg.Display.Connector != "eDP-2" {
		t.Fatalf("expected connector eDP-2, got %s", cfg.Display.Connector)
	}
	if cfg.Display.Service.CallTimeout != 5*time.Second {
		t.Fatalf("expected call timeout default 5s, got %s", cfg.Display.Service.CallTimeout)
	}
	if axis, _ := cfg.Axis(); axis != domain.AxisY {
		t.Fatalf("expected default axis y, got %s", axis)
	}
	if cfg.UInput.Name != "Virtual Accelerometer" {
		t.Fatalf("expected default uinput name, got %s", cfg.UInput.Name)
	}
}

func TestParseCustomRanges(t *testing.T) {
	data := `
sensor:
  replay_file: tilt.csv
classifier:
  axis: X
  ranges:
    - state: landscape
      min: -50
      max: 50
    - state: left_rotation
      min: 700
    - state: right_rotation
      max: -700
    - state: inverted_landscape
      min: 300
      max: 400
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	c, err := cfg.BuildClassifier()
	if err != nil {
		t.Fatalf("build classifier: %v", err)
	}

	checks := map[float64]domain.Orientation{
		60:    domain.Unknown,
		700:   domain.LeftRotation,
		1e6:   domain.LeftRotation,
		-1e6:  domain.RightRotation,
		350:   domain.InvertedLandscape,
		-50.0: domain.Landscape,
	}
	for v, want := range checks {
		if got := c.Classify(v); got != want {
			t.Fatalf("classify(%v) = %s, want %s", v, got, want)
		}
	}
	if axis, _ := cfg.Axis(); axis != domain.AxisX {
		t.Fatalf("expected axis x, got %s", axis)
	}
}

func TestParseRejectsOverlappingRanges(t *testing.T) {
	data := `
classifier:
  ranges:
    - state: landscape
      min: -100
      max: 100
    - state: left_rotation
      min: 50
`
	_, err := Parse([]byte(data))
	if !errors.Is(err, orientation.ErrOverlappingRanges) {
		t.Fatalf("expected overlapping ranges error, got %v", err)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"axis":        "classifier:\n  axis: w\n",
		"state":       "classifier:\n  ranges:\n    - state: sideways\n",
		"sensor":      "sensor:\n  device: /dev/ttyACM0\n  replay_file: x.csv\n",
		"object path": "display:\n  service:\n    path: nope\n",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Sensor.VendorID != "1b4f" || cfg.Sensor.ProductID != "9204" {
		t.Fatalf("expected default sensor ids, got %s:%s", cfg.Sensor.VendorID, cfg.Sensor.ProductID)
	}
}
