package screenrotation

import (
	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// AxisSample is one accelerometer reading.
type AxisSample = domain.AxisSample

// Orientation is the classified tilt state.
type Orientation = domain.Orientation

// Transform is the rotation code applied to a logical display.
type Transform = domain.Transform

// Layout is a snapshot of the display configuration.
type Layout = domain.Layout

// LogicalDisplay is one positioned surface in a Layout.
type LogicalDisplay = domain.LogicalDisplay

// Mode is one display mode a Monitor supports.
type Mode = domain.Mode

// Monitor is a physical output driving a LogicalDisplay.
type Monitor = domain.Monitor

// Transition describes an applied orientation change.
type Transition = ports.Transition

// SampleSource streams accelerometer samples (serial, replay, simulators).
type SampleSource = ports.SampleSource

// DisplayService reads and writes the display layout.
type DisplayService = ports.DisplayConfig

// Notifier is told about every applied transition.
type Notifier = ports.Notifier

// Observability emits metrics and logs.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

const (
	Landscape         = domain.Landscape
	LeftRotation      = domain.LeftRotation
	RightRotation     = domain.RightRotation
	InvertedLandscape = domain.InvertedLandscape

	TransformNormal   = domain.TransformNormal
	TransformLeft     = domain.TransformLeft
	TransformRight    = domain.TransformRight
	TransformInverted = domain.TransformInverted
)

// ParseTransform accepts normal, left, right or inverted.
func ParseTransform(s string) (Transform, error) {
	return domain.ParseTransform(s)
}
