package mutter

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
)

// ErrMalformedReply is returned when GetCurrentState does not have the
// documented shape.
var ErrMalformedReply = errors.New("malformed GetCurrentState reply")

// ErrUnknownMonitor is returned when a logical monitor references a
// connector missing from the monitor list.
var ErrUnknownMonitor = errors.New("logical monitor references unknown connector")

// Reply layout of GetCurrentState:
// (u a((ssss) a(siiddada{sv}) a{sv}) a(iiduba(ssss)a{sv}) a{sv})

type wireMonitorSpec struct {
	Connector string
	Vendor    string
	Product   string
	Serial    string
}

type wireMode struct {
	ID              string
	Width           int32
	Height          int32
	RefreshRate     float64
	PreferredScale  float64
	SupportedScales []float64
	Properties      map[string]dbus.Variant
}

type wireMonitor struct {
	Spec       wireMonitorSpec
	Modes      []wireMode
	Properties map[string]dbus.Variant
}

type wireLogicalMonitor struct {
	X          int32
	Y          int32
	Scale      float64
	Transform  uint32
	Primary    bool
	Monitors   []wireMonitorSpec
	Properties map[string]dbus.Variant
}

type wireState struct {
	Serial     uint32
	Monitors   []wireMonitor
	Logical    []wireLogicalMonitor
	Properties map[string]dbus.Variant
}

// Argument layout of ApplyMonitorsConfig:
// (u u a(iiduba(ssa{sv})) a{sv})

type wireApplyMonitor struct {
	Connector  string
	ModeID     string
	Properties map[string]dbus.Variant
}

type wireApplyLogical struct {
	X         int32
	Y         int32
	Scale     float64
	Transform uint32
	Primary   bool
	Monitors  []wireApplyMonitor
}

func decodeState(s wireState) (domain.Layout, error) {
	byConnector := make(map[string]wireMonitor, len(s.Monitors))
	for _, m := range s.Monitors {
		if m.Spec.Connector == "" {
			return domain.Layout{}, fmt.Errorf("%w: monitor without connector", ErrMalformedReply)
		}
		byConnector[m.Spec.Connector] = m
	}

	out := domain.Layout{Serial: s.Serial, Displays: make([]domain.LogicalDisplay, 0, len(s.Logical))}
	for i, lm := range s.Logical {
		if len(lm.Monitors) == 0 {
			return domain.Layout{}, fmt.Errorf("%w: logical monitor %d drives no monitors", ErrMalformedReply, i)
		}
		d := domain.LogicalDisplay{
			X:         int(lm.X),
			Y:         int(lm.Y),
			Scale:     lm.Scale,
			Transform: domain.Transform(lm.Transform),
			Primary:   lm.Primary,
			Monitors:  make([]domain.Monitor, 0, len(lm.Monitors)),
		}
		for _, spec := range lm.Monitors {
			wm, ok := byConnector[spec.Connector]
			if !ok {
				return domain.Layout{}, fmt.Errorf("%w: %q", ErrUnknownMonitor, spec.Connector)
			}
			d.Monitors = append(d.Monitors, domain.Monitor{
				Connector: spec.Connector,
				Vendor:    spec.Vendor,
				Product:   spec.Product,
				Serial:    spec.Serial,
				Modes:     decodeModes(wm.Modes),
			})
		}
		out.Displays = append(out.Displays, d)
	}
	return out, nil
}

// decodeModes keeps wire order but moves the mode flagged is-current to the
// front, so Modes[0] is always the mode in use.
func decodeModes(in []wireMode) []domain.Mode {
	out := make([]domain.Mode, 0, len(in))
	current := -1
	for i, m := range in {
		if current < 0 && boolProp(m.Properties, "is-current") {
			current = i
		}
		out = append(out, domain.Mode{
			ID:              m.ID,
			Width:           int(m.Width),
			Height:          int(m.Height),
			RefreshRate:     m.RefreshRate,
			PreferredScale:  m.PreferredScale,
			SupportedScales: append([]float64(nil), m.SupportedScales...),
		})
	}
	if current > 0 {
		cur := out[current]
		copy(out[1:current+1], out[:current])
		out[0] = cur
	}
	return out
}

func boolProp(props map[string]dbus.Variant, key string) bool {
	v, ok := props[key]
	if !ok {
		return false
	}
	b, ok := v.Value().(bool)
	return ok && b
}

func encodeLayout(l domain.Layout) ([]wireApplyLogical, error) {
	out := make([]wireApplyLogical, 0, len(l.Displays))
	for i, d := range l.Displays {
		lm := wireApplyLogical{
			X:         int32(d.X),
			Y:         int32(d.Y),
			Scale:     d.Scale,
			Transform: uint32(d.Transform),
			Primary:   d.Primary,
			Monitors:  make([]wireApplyMonitor, 0, len(d.Monitors)),
		}
		for _, m := range d.Monitors {
			mode, ok := m.CurrentMode()
			if !ok {
				return nil, fmt.Errorf("display %d: monitor %q has no current mode", i, m.Connector)
			}
			lm.Monitors = append(lm.Monitors, wireApplyMonitor{
				Connector: m.Connector,
				ModeID:    mode.ID,
				Properties: map[string]dbus.Variant{
					"underscanning": dbus.MakeVariant(false),
				},
			})
		}
		out = append(out, lm)
	}
	return out, nil
}
