package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// Metric names understood by PromObs.
const (
	SamplesRead      = "screenrotation_samples_read_total"
	SamplesSkipped   = "screenrotation_samples_skipped_total"
	Transitions      = "screenrotation_transitions_total"
	ApplyFailures    = "screenrotation_apply_failures_total"
	BreakerRejected  = "screenrotation_breaker_rejected_total"
	NotifyFailures   = "screenrotation_notify_failures_total"
	OrientationGauge = "screenrotation_orientation"
	TransformGauge   = "screenrotation_transform"
	ApplyLatency     = "screenrotation_apply_latency_seconds"
)

type PromObs struct {
	logger   *slog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the daemon's metrics on the default registry.
func NewPromObs(logger *slog.Logger) *PromObs {
	return NewPromObsWith(prometheus.DefaultRegisterer, logger)
}

func NewPromObsWith(reg prometheus.Registerer, logger *slog.Logger) *PromObs {
	if logger == nil {
		logger = slog.Default()
	}

	read := prometheus.NewCounter(prometheus.CounterOpts{
		Name: SamplesRead,
		Help: "Accelerometer samples successfully parsed.",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: SamplesSkipped,
		Help: "Sensor lines skipped because they were blank or malformed.",
	})
	transitions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: Transitions,
		Help: "Orientation transitions applied to the display.",
	})
	applyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ApplyFailures,
		Help: "Rotation attempts that failed to fetch, transform or apply.",
	})
	breaker := prometheus.NewCounter(prometheus.CounterOpts{
		Name: BreakerRejected,
		Help: "Rotation attempts short-circuited by the open breaker.",
	})
	notify := prometheus.NewCounter(prometheus.CounterOpts{
		Name: NotifyFailures,
		Help: "Transition notifications that returned an error.",
	})
	orientation := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: OrientationGauge,
		Help: "Held orientation state (0 none, 1 landscape, 2 left, 3 right, 4 inverted).",
	})
	transform := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: TransformGauge,
		Help: "Transform code last applied to the target display.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    ApplyLatency,
		Help:    "Fetch, transform and apply round trip duration.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	reg.MustRegister(read, skipped, transitions, applyFailures, breaker, notify, orientation, transform, latency)

	return &PromObs{
		logger: logger,
		counters: map[string]prometheus.Counter{
			SamplesRead:     read,
			SamplesSkipped:  skipped,
			Transitions:     transitions,
			ApplyFailures:   applyFailures,
			BreakerRejected: breaker,
			NotifyFailures:  notify,
		},
		gauges: map[string]prometheus.Gauge{
			OrientationGauge: orientation,
			TransformGauge:   transform,
		},
		histos: map[string]prometheus.Observer{
			ApplyLatency: latency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.logger.Info(msg, attrs(nil, fields)...)
}

func (p *PromObs) LogWarn(msg string, err error, fields ...ports.Field) {
	p.logger.Warn(msg, attrs(err, fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	p.logger.Error(msg, attrs(err, fields)...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func attrs(err error, fields []ports.Field) []any {
	out := make([]any, 0, 2*len(fields)+2)
	if err != nil {
		out = append(out, "error", err)
	}
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
