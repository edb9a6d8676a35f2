package ports

import (
	"context"
	"errors"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
)

var (
	// ErrStaleSerial means the service rejected a write because the layout
	// serial no longer matches its current configuration.
	ErrStaleSerial = errors.New("display configuration serial is stale")
	// ErrApplyRejected covers every other refusal of an apply call.
	ErrApplyRejected = errors.New("display configuration rejected")
)

// DisplayConfig reads and writes the desktop display layout.
type DisplayConfig interface {
	FetchSnapshot(ctx context.Context) (domain.Layout, error)
	ApplySnapshot(ctx context.Context, l domain.Layout) error
}
