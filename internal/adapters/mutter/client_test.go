package mutter

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/layout"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

type recordedCall struct {
	method string
	args   []interface{}
}

// fakeBus plays the display configuration service: it serves a fixed
// state and records apply calls.
type fakeBus struct {
	state    wireState
	applyErr error
	calls    []recordedCall
}

func (f *fakeBus) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	switch method {
	case "org.gnome.Mutter.DisplayConfig.GetCurrentState":
		return &dbus.Call{Body: []interface{}{f.state.Serial, f.state.Monitors, f.state.Logical, f.state.Properties}}
	case "org.gnome.Mutter.DisplayConfig.ApplyMonitorsConfig":
		return &dbus.Call{Err: f.applyErr}
	default:
		return &dbus.Call{Err: dbus.Error{Name: "org.freedesktop.DBus.Error.UnknownMethod"}}
	}
}

func (f *fakeBus) applied(t *testing.T) []wireApplyLogical {
	t.Helper()
	last := f.calls[len(f.calls)-1]
	require.Equal(t, "org.gnome.Mutter.DisplayConfig.ApplyMonitorsConfig", last.method)
	require.Len(t, last.args, 4)
	logical, ok := last.args[2].([]wireApplyLogical)
	require.True(t, ok, "unexpected logical monitor arg %T", last.args[2])
	return logical
}

func mode(id string, w, h int32, current bool) wireMode {
	props := map[string]dbus.Variant{}
	if current {
		props["is-current"] = dbus.MakeVariant(true)
	}
	return wireMode{ID: id, Width: w, Height: h, RefreshRate: 60, PreferredScale: 1, SupportedScales: []float64{1, 2}, Properties: props}
}

func twoScreenState() wireState {
	edp := wireMonitorSpec{Connector: "eDP-1", Vendor: "BOE", Product: "0x0a1b", Serial: "0x00000000"}
	hdmi := wireMonitorSpec{Connector: "HDMI-1", Vendor: "DEL", Product: "U2719D", Serial: "ABC123"}
	return wireState{
		Serial: 42,
		Monitors: []wireMonitor{
			{Spec: edp, Modes: []wireMode{mode("1920x1080@60", 1920, 1080, true)}},
			{Spec: hdmi, Modes: []wireMode{
				mode("3840x2160@60", 3840, 2160, false),
				mode("2560x1440@60", 2560, 1440, true),
			}},
		},
		Logical: []wireLogicalMonitor{
			{X: 0, Y: 0, Scale: 1, Transform: 0, Primary: true, Monitors: []wireMonitorSpec{edp}},
			{X: 1920, Y: 0, Scale: 1, Transform: 0, Monitors: []wireMonitorSpec{hdmi}},
		},
		Properties: map[string]dbus.Variant{},
	}
}

func TestFetchSnapshotDecodesState(t *testing.T) {
	bus := &fakeBus{state: twoScreenState()}
	c := newClient(Config{}, bus)

	l, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint32(42), l.Serial)
	require.Len(t, l.Displays, 2)
	assert.True(t, l.Displays[0].Primary)
	assert.Equal(t, "eDP-1", l.Displays[0].Monitors[0].Connector)
	assert.Equal(t, 1920, l.Displays[1].X)

	hdmi := l.Displays[1].Monitors[0]
	assert.Equal(t, "DEL", hdmi.Vendor)
	require.Len(t, hdmi.Modes, 2)
	assert.Equal(t, "2560x1440@60", hdmi.Modes[0].ID, "current mode must come first")
	assert.Equal(t, "3840x2160@60", hdmi.Modes[1].ID)
}

func TestFetchSnapshotRejectsUnknownConnector(t *testing.T) {
	state := twoScreenState()
	state.Logical[1].Monitors[0].Connector = "DP-7"
	c := newClient(Config{}, &fakeBus{state: state})

	_, err := c.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrUnknownMonitor)
}

func TestFetchSnapshotRejectsEmptyLogicalMonitor(t *testing.T) {
	state := twoScreenState()
	state.Logical[0].Monitors = nil
	c := newClient(Config{}, &fakeBus{state: state})

	_, err := c.FetchSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestFetchSnapshotWrapsTransportErrors(t *testing.T) {
	c := newClient(Config{Interface: "org.example.Missing"}, &fakeBus{state: twoScreenState()})

	_, err := c.FetchSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GetCurrentState")
}

func TestApplySnapshotEncodesArguments(t *testing.T) {
	bus := &fakeBus{state: twoScreenState()}
	c := newClient(Config{}, bus)

	l, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	rotated, err := layout.ApplyRotation(l, "eDP-1", domain.TransformLeft)
	require.NoError(t, err)
	require.NoError(t, c.ApplySnapshot(context.Background(), rotated))

	args := bus.calls[len(bus.calls)-1].args
	assert.Equal(t, uint32(42), args[0])
	assert.Equal(t, MethodPersistent, args[1])
	assert.Equal(t, map[string]dbus.Variant{}, args[3])

	logical := bus.applied(t)
	require.Len(t, logical, 2)
	assert.Equal(t, uint32(domain.TransformLeft), logical[0].Transform)
	assert.Equal(t, int32(1080), logical[1].X)
	assert.Equal(t, "2560x1440@60", logical[1].Monitors[0].ModeID)
	assert.Equal(t, dbus.MakeVariant(false), logical[1].Monitors[0].Properties["underscanning"])
}

func TestFetchThenApplyIsNoOp(t *testing.T) {
	bus := &fakeBus{state: twoScreenState()}
	c := newClient(Config{}, bus)

	l, err := c.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.ApplySnapshot(context.Background(), l))

	logical := bus.applied(t)
	require.Len(t, logical, len(bus.state.Logical))
	for i, lm := range bus.state.Logical {
		assert.Equal(t, lm.X, logical[i].X)
		assert.Equal(t, lm.Y, logical[i].Y)
		assert.Equal(t, lm.Scale, logical[i].Scale)
		assert.Equal(t, lm.Transform, logical[i].Transform)
		assert.Equal(t, lm.Primary, logical[i].Primary)
		assert.Equal(t, lm.Monitors[0].Connector, logical[i].Monitors[0].Connector)
	}
}

func TestApplySnapshotClassifiesErrors(t *testing.T) {
	cases := map[string]struct {
		err  error
		want error
	}{
		"stale": {
			dbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied", Body: []interface{}{"The requested configuration is based on stale information"}},
			ports.ErrStaleSerial,
		},
		"rejected": {
			&dbus.Error{Name: "org.freedesktop.DBus.Error.InvalidArgs", Body: []interface{}{"Invalid mode"}},
			ports.ErrApplyRejected,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			bus := &fakeBus{state: twoScreenState(), applyErr: tc.err}
			c := newClient(Config{}, bus)
			l, err := c.FetchSnapshot(context.Background())
			require.NoError(t, err)

			err = c.ApplySnapshot(context.Background(), l)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	bus := &fakeBus{state: twoScreenState(), applyErr: errors.New("connection closed")}
	c := newClient(Config{}, bus)
	err := c.ApplySnapshot(context.Background(), domain.Layout{})
	assert.NotErrorIs(t, err, ports.ErrApplyRejected)
	assert.Contains(t, err.Error(), "connection closed")
}

func TestApplySnapshotRefusesMonitorWithoutModes(t *testing.T) {
	bus := &fakeBus{}
	c := newClient(Config{}, bus)
	l := domain.Layout{Displays: []domain.LogicalDisplay{{Monitors: []domain.Monitor{{Connector: "eDP-1"}}}}}

	err := c.ApplySnapshot(context.Background(), l)
	require.Error(t, err)
	assert.Empty(t, bus.calls)
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, "org.gnome.Mutter.DisplayConfig", cfg.Interface)
	assert.NoError(t, cfg.Validate())

	bad := Config{Path: "not/a/path"}
	bad.ApplyDefaults()
	assert.Error(t, bad.Validate())
}
