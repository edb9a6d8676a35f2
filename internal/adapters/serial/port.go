package serial

import (
	"errors"
	"fmt"
	"os"

	goserial "go.bug.st/serial"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// Open resolves the configured sensor and returns a sample source for it:
// a replay file, an explicit serial device, or the first tty whose USB
// vendor/product ids match.
func Open(cfg Config) (ports.SampleSource, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.ReplayFile != "" {
		if cfg.ReplayFile == "-" {
			return NewLineSource(os.Stdin), nil
		}
		f, err := os.Open(cfg.ReplayFile)
		if err != nil {
			return nil, fmt.Errorf("open replay file: %w", err)
		}
		return NewLineSource(f), nil
	}

	device := cfg.Device
	if device == "" {
		var err error
		device, err = Discover(cfg.SysfsRoot, cfg.DevRoot, cfg.VendorID, cfg.ProductID)
		if err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(device); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ports.ErrDeviceNotFound, device)
	}

	port, err := goserial.Open(device, &goserial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   goserial.NoParity,
		StopBits: goserial.OneStopBit,
	})
	if err != nil {
		var perr *goserial.PortError
		if errors.As(err, &perr) && perr.Code() == goserial.PortNotFound {
			return nil, fmt.Errorf("%w: %s", ports.ErrDeviceNotFound, device)
		}
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	return NewLineSource(port), nil
}
