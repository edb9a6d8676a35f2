// Package mutter talks to org.gnome.Mutter.DisplayConfig on the session
// bus.
package mutter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// MethodPersistent asks the service to keep the configuration.
const MethodPersistent uint32 = 1

// Config captures the bus coordinates of the display configuration service.
type Config struct {
	Destination string        `yaml:"destination"`
	Path        string        `yaml:"path"`
	Interface   string        `yaml:"interface"`
	CallTimeout time.Duration `yaml:"call_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.Destination == "" {
		c.Destination = "org.gnome.Mutter.DisplayConfig"
	}
	if c.Path == "" {
		c.Path = "/org/gnome/Mutter/DisplayConfig"
	}
	if c.Interface == "" {
		c.Interface = c.Destination
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 5 * time.Second
	}
}

func (c *Config) Validate() error {
	if !dbus.ObjectPath(c.Path).IsValid() {
		return fmt.Errorf("invalid object path %q", c.Path)
	}
	return nil
}

// caller is the subset of dbus.BusObject the client uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

type Client struct {
	cfg  Config
	conn *dbus.Conn
	obj  caller
}

// Dial opens a private session bus connection.
func Dial(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Client{
		cfg:  cfg,
		conn: conn,
		obj:  conn.Object(cfg.Destination, dbus.ObjectPath(cfg.Path)),
	}, nil
}

func newClient(cfg Config, obj caller) *Client {
	cfg.ApplyDefaults()
	return &Client{cfg: cfg, obj: obj}
}

func (c *Client) method(name string) string {
	return c.cfg.Interface + "." + name
}

// FetchSnapshot reads the current layout together with its serial.
func (c *Client) FetchSnapshot(ctx context.Context) (domain.Layout, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	call := c.obj.CallWithContext(ctx, c.method("GetCurrentState"), 0)
	if call.Err != nil {
		return domain.Layout{}, fmt.Errorf("GetCurrentState: %w", call.Err)
	}

	var state wireState
	if err := call.Store(&state.Serial, &state.Monitors, &state.Logical, &state.Properties); err != nil {
		return domain.Layout{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return decodeState(state)
}

// ApplySnapshot writes l back with the serial it was fetched with.
func (c *Client) ApplySnapshot(ctx context.Context, l domain.Layout) error {
	logical, err := encodeLayout(l)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	call := c.obj.CallWithContext(ctx, c.method("ApplyMonitorsConfig"), 0,
		l.Serial, MethodPersistent, logical, map[string]dbus.Variant{})
	if call.Err != nil {
		return classifyApplyError(call.Err)
	}
	return nil
}

func classifyApplyError(err error) error {
	var derr dbus.Error
	var perr *dbus.Error
	switch {
	case errors.As(err, &derr):
	case errors.As(err, &perr) && perr != nil:
		derr = *perr
	default:
		return fmt.Errorf("ApplyMonitorsConfig: %w", err)
	}
	if strings.Contains(strings.ToLower(derr.Error()), "stale") {
		return fmt.Errorf("%w: %s", ports.ErrStaleSerial, derr.Error())
	}
	return fmt.Errorf("%w: %s: %s", ports.ErrApplyRejected, derr.Name, derr.Error())
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

var _ ports.DisplayConfig = (*Client)(nil)
