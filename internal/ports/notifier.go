package ports

import "github.com/imrisaac/iio-accel-screen-rotation/internal/domain"

// Transition describes an orientation change that was applied to the
// display.
type Transition struct {
	From      domain.Orientation
	To        domain.Orientation
	Transform domain.Transform
	Sample    domain.AxisSample
	Layout    domain.Layout
}

// Notifier is told about every applied transition.
type Notifier interface {
	Notify(t Transition) error
	Name() string
}
