package layout

import "github.com/imrisaac/iio-accel-screen-rotation/internal/domain"

// UniformScale is the largest scale currently used by any display, never
// below 1.0.
func UniformScale(l domain.Layout) float64 {
	scale := 1.0
	for _, d := range l.Displays {
		if d.Scale > scale {
			scale = d.Scale
		}
	}
	return scale
}

// ApplyScale sets every display to scale, falling back to 1.0 for a display
// whose monitors do not all support scale in their current mode.
func ApplyScale(l domain.Layout, scale float64) domain.Layout {
	out := l.Clone()
	for i := range out.Displays {
		d := &out.Displays[i]
		d.Scale = scale
		for _, m := range d.Monitors {
			mode, ok := m.CurrentMode()
			if !ok || !mode.SupportsScale(scale) {
				d.Scale = 1.0
				break
			}
		}
	}
	return out
}
