// Package uinput mirrors accepted orientation changes onto a virtual
// accelerometer so desktop components listening to input devices see the
// same orientation.
package uinput

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/holoplot/go-evdev"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// Config controls the virtual device.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "Virtual Accelerometer"
	}
}

// Vector is the synthetic reading emitted for an orientation.
type Vector struct {
	X, Y, Z int32
}

// Vectors holds the reading emitted for each orientation.
var Vectors = map[domain.Orientation]Vector{
	domain.Landscape:         {X: 0, Y: -1000, Z: 0},
	domain.LeftRotation:      {X: -1000, Y: 0, Z: 0},
	domain.RightRotation:     {X: 1000, Y: 0, Z: 0},
	domain.InvertedLandscape: {X: 0, Y: 1000, Z: 0},
}

type eventWriter interface {
	WriteOne(ev *evdev.InputEvent) error
	Close() error
}

// Accelerometer is a ports.Notifier backed by a uinput device. It owns the
// device; Close must be called on every exit path.
type Accelerometer struct {
	mu     sync.Mutex
	dev    eventWriter
	now    func() time.Time
	closed bool
}

// Create registers the virtual device with the kernel.
func Create(cfg Config) (*Accelerometer, error) {
	cfg.ApplyDefaults()
	dev, err := evdev.CreateDevice(
		cfg.Name,
		evdev.InputID{
			BusType: 0x06,
			Vendor:  0x1b4f,
			Product: 0x9204,
			Version: 3,
		},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_ABS: {evdev.ABS_X, evdev.ABS_Y, evdev.ABS_Z},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	return newAccelerometer(dev), nil
}

func newAccelerometer(dev eventWriter) *Accelerometer {
	return &Accelerometer{dev: dev, now: time.Now}
}

func (a *Accelerometer) Name() string { return "uinput" }

// Notify writes the orientation's vector followed by a SYN_REPORT.
func (a *Accelerometer) Notify(t ports.Transition) error {
	vec, ok := Vectors[t.To]
	if !ok {
		return nil
	}
	return a.Emit(vec)
}

// Emit writes one absolute reading for each axis and a sync event.
func (a *Accelerometer) Emit(v Vector) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.New("uinput device closed")
	}

	tv := syscall.NsecToTimeval(a.now().UnixNano())
	events := []evdev.InputEvent{
		{Time: tv, Type: evdev.EV_ABS, Code: evdev.ABS_X, Value: v.X},
		{Time: tv, Type: evdev.EV_ABS, Code: evdev.ABS_Y, Value: v.Y},
		{Time: tv, Type: evdev.EV_ABS, Code: evdev.ABS_Z, Value: v.Z},
		{Time: tv, Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0},
	}
	for i := range events {
		if err := a.dev.WriteOne(&events[i]); err != nil {
			return fmt.Errorf("write uinput event: %w", err)
		}
	}
	return nil
}

// Close destroys the virtual device. It is safe to call more than once.
func (a *Accelerometer) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.dev.Close()
}

var _ ports.Notifier = (*Accelerometer)(nil)
