package ports

import (
	"context"
	"errors"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
)

var (
	// ErrNoSample is returned when a read timed out without a full line.
	ErrNoSample = errors.New("no sample available")
	// ErrSensorRead marks a blank or malformed sensor line.
	ErrSensorRead = errors.New("malformed sensor line")
	// ErrDeviceNotFound means no sensor device could be located.
	ErrDeviceNotFound = errors.New("sensor device not found")
)

// SampleSource yields accelerometer samples. Next blocks for at most the
// source's read timeout.
type SampleSource interface {
	Next(ctx context.Context) (domain.AxisSample, error)
	Close() error
}
