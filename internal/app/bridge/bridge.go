// Package bridge runs the control loop that turns sensor samples into
// display rotations.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/observability"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/layout"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/orientation"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// ErrBreakerOpen is returned by Step while repeated service failures keep
// the breaker open.
var ErrBreakerOpen = errors.New("display service breaker open")

type Settings struct {
	Axis        domain.Axis
	Connector   string
	SkipScale   bool
	MaxFailures uint32
	OpenTimeout time.Duration
}

type Bridge struct {
	settings   Settings
	classifier *orientation.Classifier
	source     ports.SampleSource
	display    ports.DisplayConfig
	obs        ports.Observability
	notifiers  []ports.Notifier
	breaker    *gobreaker.CircuitBreaker
	clock      clockwork.Clock

	// held is read by HTTP handlers while Run writes it.
	held atomic.Int32
}

type Option func(*Bridge)

func WithClock(c clockwork.Clock) Option {
	return func(b *Bridge) {
		if c != nil {
			b.clock = c
		}
	}
}

func WithNotifiers(n ...ports.Notifier) Option {
	return func(b *Bridge) {
		for _, x := range n {
			if x != nil {
				b.notifiers = append(b.notifiers, x)
			}
		}
	}
}

// AddNotifier registers n for transitions applied after the call. It must
// not be called while Run is active.
func (b *Bridge) AddNotifier(n ports.Notifier) {
	if n != nil {
		b.notifiers = append(b.notifiers, n)
	}
}

func New(s Settings, c *orientation.Classifier, src ports.SampleSource, disp ports.DisplayConfig, obs ports.Observability, opts ...Option) (*Bridge, error) {
	if c == nil || disp == nil || obs == nil {
		return nil, fmt.Errorf("classifier, display and observability are required")
	}
	if s.Connector == "" {
		return nil, fmt.Errorf("connector is required")
	}
	if s.Axis == "" {
		s.Axis = domain.AxisY
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	b := &Bridge{
		settings:   s,
		classifier: c,
		source:     src,
		display:    disp,
		obs:        obs,
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "display-config",
		Timeout: s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || requestError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			obs.LogWarn("breaker_state_changed", nil,
				ports.Field{Key: "breaker", Value: name},
				ports.Field{Key: "from", Value: from.String()},
				ports.Field{Key: "to", Value: to.String()})
		},
	})
	return b, nil
}

// requestError reports failures caused by the request rather than by the
// health of the display service.
func requestError(err error) bool {
	return errors.Is(err, layout.ErrConnectorNotFound) ||
		errors.Is(err, layout.ErrNoModes) ||
		errors.Is(err, ports.ErrStaleSerial)
}

// Held returns the orientation last applied successfully, or Unknown before
// the first transition.
func (b *Bridge) Held() domain.Orientation {
	return domain.Orientation(b.held.Load())
}

// Step classifies one sample and, on a transition, rotates the target
// display. The held state only advances when the apply succeeded.
func (b *Bridge) Step(ctx context.Context, sample domain.AxisSample) (bool, error) {
	state := b.classifier.Classify(sample.Value(b.settings.Axis))
	from := b.Held()
	if state == domain.Unknown || state == from {
		return false, nil
	}
	transform, ok := domain.TransformFor(state)
	if !ok {
		return false, nil
	}

	applied, err := b.rotateGuarded(ctx, transform)
	if err != nil {
		b.obs.IncCounter(observability.ApplyFailures, 1)
		b.logFailure(err, state, transform)
		return false, err
	}

	b.held.Store(int32(state))
	b.obs.IncCounter(observability.Transitions, 1)
	b.obs.SetGauge(observability.OrientationGauge, float64(state))
	b.obs.SetGauge(observability.TransformGauge, float64(transform))
	b.obs.LogInfo("rotation_applied",
		ports.Field{Key: "from", Value: from.String()},
		ports.Field{Key: "to", Value: state.String()},
		ports.Field{Key: "transform", Value: transform.String()},
		ports.Field{Key: "connector", Value: b.settings.Connector})

	b.notify(ports.Transition{From: from, To: state, Transform: transform, Sample: sample, Layout: applied})
	return true, nil
}

func (b *Bridge) logFailure(err error, state domain.Orientation, t domain.Transform) {
	fields := []ports.Field{
		{Key: "to", Value: state.String()},
		{Key: "transform", Value: t.String()},
		{Key: "connector", Value: b.settings.Connector},
	}
	switch {
	case errors.Is(err, ports.ErrStaleSerial), errors.Is(err, ports.ErrApplyRejected):
		b.obs.LogWarn("rotation_rejected", err, fields...)
	case errors.Is(err, ErrBreakerOpen):
		b.obs.LogWarn("rotation_short_circuited", err, fields...)
	default:
		b.obs.LogError("rotation_failed", err, fields...)
	}
}

func (b *Bridge) notify(t ports.Transition) {
	for _, n := range b.notifiers {
		if err := n.Notify(t); err != nil {
			b.obs.IncCounter(observability.NotifyFailures, 1)
			b.obs.LogError("notify_failed", err, ports.Field{Key: "notifier", Value: n.Name()})
		}
	}
}

func (b *Bridge) rotateGuarded(ctx context.Context, t domain.Transform) (domain.Layout, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.Rotate(ctx, t)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.obs.IncCounter(observability.BreakerRejected, 1)
		return domain.Layout{}, fmt.Errorf("%w: %v", ErrBreakerOpen, err)
	}
	if err != nil {
		return domain.Layout{}, err
	}
	return res.(domain.Layout), nil
}

// Rotate fetches a fresh layout, rotates the target display, reapplies the
// uniform scale and writes the result back. It returns the applied layout.
func (b *Bridge) Rotate(ctx context.Context, t domain.Transform) (domain.Layout, error) {
	start := b.clock.Now()
	defer func() {
		b.obs.ObserveLatency(observability.ApplyLatency, b.clock.Since(start).Seconds())
	}()

	current, err := b.display.FetchSnapshot(ctx)
	if err != nil {
		return domain.Layout{}, fmt.Errorf("fetch layout: %w", err)
	}
	next, err := layout.ApplyRotation(current, b.settings.Connector, t)
	if err != nil {
		return domain.Layout{}, err
	}
	if !b.settings.SkipScale {
		next = layout.ApplyScale(next, layout.UniformScale(current))
	}
	if err := b.display.ApplySnapshot(ctx, next); err != nil {
		return domain.Layout{}, fmt.Errorf("apply layout: %w", err)
	}
	return next, nil
}

// SetScale applies scale to every display that supports it.
func (b *Bridge) SetScale(ctx context.Context, scale float64) (domain.Layout, error) {
	current, err := b.display.FetchSnapshot(ctx)
	if err != nil {
		return domain.Layout{}, fmt.Errorf("fetch layout: %w", err)
	}
	next := layout.ApplyScale(current, scale)
	if err := b.display.ApplySnapshot(ctx, next); err != nil {
		return domain.Layout{}, fmt.Errorf("apply layout: %w", err)
	}
	return next, nil
}

// Run reads samples until ctx is cancelled or the source ends. A step that
// has started always runs to completion.
func (b *Bridge) Run(ctx context.Context) error {
	if b.source == nil {
		return fmt.Errorf("sample source is required")
	}
	b.obs.LogInfo("bridge_started",
		ports.Field{Key: "connector", Value: b.settings.Connector},
		ports.Field{Key: "axis", Value: string(b.settings.Axis)})

	stepCtx := context.WithoutCancel(ctx)
	for {
		if ctx.Err() != nil {
			return nil
		}

		sample, err := b.source.Next(ctx)
		switch {
		case err == nil:
		case errors.Is(err, ports.ErrNoSample):
			continue
		case errors.Is(err, ports.ErrSensorRead):
			b.obs.IncCounter(observability.SamplesSkipped, 1)
			continue
		case errors.Is(err, io.EOF):
			b.obs.LogInfo("sensor_stream_ended")
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("read sample: %w", err)
		}

		b.obs.IncCounter(observability.SamplesRead, 1)
		// Step logs and counts its own failures; the loop keeps polling.
		_, _ = b.Step(stepCtx, sample)
	}
}
