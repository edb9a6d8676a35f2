package screenrotation

import (
	base "github.com/imrisaac/iio-accel-screen-rotation/pkg/screenrotation"
)

// Re-exported errors for convenience.
var (
	ErrChannelNotifierClosed = base.ErrChannelNotifierClosed
)

// Type aliases so consumers can import github.com/imrisaac/iio-accel-screen-rotation directly.
type (
	Config           = base.Config
	SensorConfig     = base.SensorConfig
	ClassifierConfig = base.ClassifierConfig
	RangeConfig      = base.RangeConfig
	DisplayConfig    = base.DisplayConfig
	ServiceConfig    = base.ServiceConfig
	BreakerConfig    = base.BreakerConfig
	UInputConfig     = base.UInputConfig
	MetricsConfig    = base.MetricsConfig
	LogConfig        = base.LogConfig
	Flow             = base.Flow
	Runtime          = base.Runtime
	RuntimeOption    = base.RuntimeOption
	AxisSample       = base.AxisSample
	Orientation      = base.Orientation
	Transform        = base.Transform
	Layout           = base.Layout
	LogicalDisplay   = base.LogicalDisplay
	Monitor          = base.Monitor
	Mode             = base.Mode
	Transition       = base.Transition
	TransitionFunc   = base.TransitionFunc
	SampleSource     = base.SampleSource
	DisplayService   = base.DisplayService
	Notifier         = base.Notifier
	Observability    = base.Observability
	Field            = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

func ParseTransform(s string) (Transform, error) {
	return base.ParseTransform(s)
}

// Flow helpers.
func Conf(path string, opts ...RuntimeOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...RuntimeOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func OnTransition(name string, fn TransitionFunc) RuntimeOption {
	return base.OnTransition(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithSampleSource(src SampleSource) RuntimeOption {
	return base.WithSampleSource(src)
}

func WithDisplayService(d DisplayService) RuntimeOption {
	return base.WithDisplayService(d)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithNotifier(n Notifier) RuntimeOption {
	return base.WithNotifier(n)
}

// Notifier adapters.
func NewCallbackNotifier(name string, fn TransitionFunc) Notifier {
	return base.NewCallbackNotifier(name, fn)
}

func NewChannelNotifier(name string, buffer int) (Notifier, <-chan Transition, func()) {
	return base.NewChannelNotifier(name, buffer)
}
