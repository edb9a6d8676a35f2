package screenrotation

import (
	"context"
	"fmt"
)

// Flow pairs a configuration with the runtime options collected for it, so
// a caller can go from a YAML path to a running loop in one expression.
type Flow struct {
	cfg  *Config
	opts []RuntimeOption
}

// Conf loads path and returns a Flow carrying opts.
func Conf(path string, opts ...RuntimeOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig wraps an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...RuntimeOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return (&Flow{cfg: cfg}).With(opts...), nil
}

// Config returns the configuration so it can be adjusted before Run.
func (f *Flow) Config() *Config {
	return f.cfg
}

// With appends runtime options; nil options are ignored.
func (f *Flow) With(opts ...RuntimeOption) *Flow {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
	return f
}

// Runtime builds a Runtime from the collected options plus extra.
func (f *Flow) Runtime(extra ...RuntimeOption) (*Runtime, error) {
	return NewRuntime(f.cfg, append(append([]RuntimeOption(nil), f.opts...), extra...)...)
}

// Run builds the runtime and blocks in Runtime.Run.
func (f *Flow) Run(ctx context.Context, extra ...RuntimeOption) error {
	rt, err := f.Runtime(extra...)
	if err != nil {
		return err
	}
	return rt.Run(ctx)
}

// OnTransition installs fn as a notifier named name.
func OnTransition(name string, fn TransitionFunc) RuntimeOption {
	return WithNotifier(NewCallbackNotifier(name, fn))
}
