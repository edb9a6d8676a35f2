// Package layout computes new display geometry for a rotation without
// talking to the display service.
package layout

import (
	"errors"
	"fmt"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
)

var (
	ErrConnectorNotFound = errors.New("connector not found")
	ErrNoModes           = errors.New("monitor reports no modes")
)

// EffectiveSize is the footprint of mode under transform t. Left and right
// rotations swap width and height.
func EffectiveSize(mode domain.Mode, t domain.Transform) (width, height int) {
	if t.Rotated() {
		return mode.Height, mode.Width
	}
	return mode.Width, mode.Height
}

// ApplyRotation sets the transform of the display driving connector and
// shifts every other display that sits strictly to the right of it or
// strictly below it by the change in footprint. The rotated display keeps
// its top-left corner. The input layout is not modified.
//
// Displays are treated as a shelf layout keyed by absolute offsets; an
// L-shaped arrangement can end up overlapping.
func ApplyRotation(l domain.Layout, connector string, t domain.Transform) (domain.Layout, error) {
	di, mi, ok := l.FindConnector(connector)
	if !ok {
		return domain.Layout{}, fmt.Errorf("%w: %q", ErrConnectorNotFound, connector)
	}
	mode, ok := l.Displays[di].Monitors[mi].CurrentMode()
	if !ok {
		return domain.Layout{}, fmt.Errorf("%w: %q", ErrNoModes, connector)
	}

	out := l.Clone()
	target := &out.Displays[di]

	oldW, oldH := EffectiveSize(mode, target.Transform)
	target.Transform = t
	newW, newH := EffectiveSize(mode, t)

	dw, dh := newW-oldW, newH-oldH
	if dw == 0 && dh == 0 {
		return out, nil
	}

	for i := range out.Displays {
		if i == di {
			continue
		}
		d := &out.Displays[i]
		if d.X > target.X {
			d.X += dw
		}
		if d.Y > target.Y {
			d.Y += dh
		}
	}
	return out, nil
}
