package screenrotation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/mutter"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/observability"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/serial"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/adapters/uinput"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/app/bridge"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/logging"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	source        SampleSource
	display       DisplayService
	observability Observability
	notifiers     []Notifier
	registry      *prometheus.Registry
	logger        *slog.Logger
	clock         clockwork.Clock
}

// WithSampleSource injects a custom sample source (replays, simulators, other
// sensor transports) in place of the serial device.
func WithSampleSource(src SampleSource) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.source = src
	}
}

// WithDisplayService injects a custom display service client.
func WithDisplayService(d DisplayService) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.display = d
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithNotifier adds a notifier that is told about every applied transition.
func WithNotifier(n Notifier) RuntimeOption {
	return func(o *runtimeOverrides) {
		if n != nil {
			o.notifiers = append(o.notifiers, n)
		}
	}
}

// WithRegistry registers the default metrics on reg instead of the global
// Prometheus registry and serves reg on /metrics.
func WithRegistry(reg *prometheus.Registry) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.registry = reg
	}
}

// WithLogger replaces the logger built from the log section of the config.
func WithLogger(l *slog.Logger) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.logger = l
	}
}

// WithClock replaces the wall clock used for latency measurements.
func WithClock(c clockwork.Clock) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.clock = c
	}
}

// virtualDevice is a notifier backed by an OS resource.
type virtualDevice interface {
	ports.Notifier
	io.Closer
}

var createVirtualDevice = func(cfg uinput.Config) (virtualDevice, error) {
	return uinput.Create(cfg)
}

// Runtime wires sensor → classifier → display service and owns every
// resource it opened: the sensor stream, the D-Bus connection, the virtual
// accelerometer and the metrics server.
type Runtime struct {
	cfg      *Config
	logger   *slog.Logger
	obs      ports.Observability
	gatherer prometheus.Gatherer
	source   ports.SampleSource
	display  ports.DisplayConfig
	bridge   *bridge.Bridge

	mu         sync.Mutex
	closers    []io.Closer
	metricsSrv *http.Server
	shutdown   bool
}

// NewRuntime bootstraps the default adapters (serial sensor, Mutter D-Bus
// client, Prometheus observability). The serial device is opened on the first
// read, so one-shot operations such as Snapshot never touch it.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	logger := overrides.logger
	if logger == nil {
		logger = logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	}

	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if overrides.registry != nil {
		gatherer = overrides.registry
	}

	obs := overrides.observability
	if obs == nil {
		if overrides.registry != nil {
			obs = observability.NewPromObsWith(overrides.registry, logger)
		} else {
			obs = observability.NewPromObs(logger)
		}
	}

	classifier, err := cfg.BuildClassifier()
	if err != nil {
		return nil, err
	}
	axis, err := cfg.Axis()
	if err != nil {
		return nil, err
	}

	rt := &Runtime{cfg: cfg, logger: logger, obs: obs, gatherer: gatherer}

	rt.display = overrides.display
	if rt.display == nil {
		client, err := mutter.Dial(cfg.Display.Service)
		if err != nil {
			return nil, err
		}
		rt.display = client
		rt.closers = append(rt.closers, client)
	}

	rt.source = overrides.source
	if rt.source == nil {
		sensor := cfg.Sensor
		rt.source = &lazySource{open: func() (ports.SampleSource, error) {
			return serial.Open(sensor)
		}}
	}
	rt.closers = append(rt.closers, rt.source)

	bridgeOpts := []bridge.Option{bridge.WithNotifiers(overrides.notifiers...)}
	if overrides.clock != nil {
		bridgeOpts = append(bridgeOpts, bridge.WithClock(overrides.clock))
	}
	rt.bridge, err = bridge.New(bridge.Settings{
		Axis:        axis,
		Connector:   cfg.Display.Connector,
		SkipScale:   cfg.Display.SkipScale,
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}, classifier, rt.source, rt.display, obs, bridgeOpts...)
	if err != nil {
		return nil, errors.Join(err, rt.closeResources())
	}
	return rt, nil
}

// Run starts the metrics server and the sensor loop and blocks until ctx is
// cancelled or the sensor stream ends. Every owned resource is released
// before Run returns.
func (r *Runtime) Run(ctx context.Context) error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}

	if r.cfg.UInput.Enabled {
		dev, err := createVirtualDevice(r.cfg.UInput)
		if err != nil {
			return errors.Join(fmt.Errorf("create virtual accelerometer: %w", err), r.Close())
		}
		r.track(dev)
		r.bridge.AddNotifier(dev)
	}

	if !r.cfg.Metrics.Disabled {
		r.startMetrics()
	}

	runErr := r.bridge.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return errors.Join(runErr, r.Shutdown(shutdownCtx))
}

// Snapshot returns the current display layout.
func (r *Runtime) Snapshot(ctx context.Context) (Layout, error) {
	return r.display.FetchSnapshot(ctx)
}

// Rotate applies t to the configured connector immediately, bypassing the
// classifier.
func (r *Runtime) Rotate(ctx context.Context, t Transform) (Layout, error) {
	return r.bridge.Rotate(ctx, t)
}

// SetScale applies scale to every display whose current mode supports it.
func (r *Runtime) SetScale(ctx context.Context, scale float64) (Layout, error) {
	return r.bridge.SetScale(ctx, scale)
}

// Held is the orientation currently applied by the sensor loop.
func (r *Runtime) Held() Orientation {
	return r.bridge.Held()
}

// Shutdown stops the metrics server and closes the sensor, the display
// connection and the virtual device. It is safe to call more than once.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return nil
	}
	r.shutdown = true
	srv := r.metricsSrv
	r.mu.Unlock()

	var errs []error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}
	errs = append(errs, r.closeResources())
	return errors.Join(errs...)
}

// Close is Shutdown without a deadline, for one-shot callers.
func (r *Runtime) Close() error {
	return r.Shutdown(context.Background())
}

func (r *Runtime) track(c io.Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, c)
}

// closeResources closes in reverse acquisition order.
func (r *Runtime) closeResources() error {
	r.mu.Lock()
	closers := r.closers
	r.closers = nil
	r.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/state", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(r.bridge.Held().String()))
	})
	return mux
}

func (r *Runtime) startMetrics() {
	srv := &http.Server{
		Addr:              r.cfg.Metrics.Addr,
		Handler:           r.metricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	r.mu.Lock()
	r.metricsSrv = srv
	r.mu.Unlock()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("metrics server exited", "error", err)
		}
	}()
}

// lazySource opens the underlying source on the first read.
type lazySource struct {
	mu   sync.Mutex
	open func() (ports.SampleSource, error)
	src  ports.SampleSource
}

func (l *lazySource) Next(ctx context.Context) (domain.AxisSample, error) {
	l.mu.Lock()
	if l.src == nil {
		src, err := l.open()
		if err != nil {
			l.mu.Unlock()
			return domain.AxisSample{}, err
		}
		l.src = src
	}
	src := l.src
	l.mu.Unlock()
	return src.Next(ctx)
}

func (l *lazySource) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.src == nil {
		return nil
	}
	return l.src.Close()
}
