package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

func TestPromObsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPromObsWith(reg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	obs.IncCounter(SamplesRead, 5)
	if got := testutil.ToFloat64(obs.counters[SamplesRead]); got != 5 {
		t.Fatalf("expected samples read counter 5, got %f", got)
	}

	obs.IncCounter(Transitions, 2)
	if got := testutil.ToFloat64(obs.counters[Transitions]); got != 2 {
		t.Fatalf("expected transitions counter 2, got %f", got)
	}

	obs.SetGauge(TransformGauge, 3)
	if got := testutil.ToFloat64(obs.gauges[TransformGauge]); got != 3 {
		t.Fatalf("expected transform gauge 3, got %f", got)
	}

	obs.ObserveLatency(ApplyLatency, 0.5)
	hCollector := obs.histos[ApplyLatency].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected latency histogram to record 1 sample, got %d", samples)
	}

	obs.IncCounter("not_a_metric", 1)
	obs.SetGauge("not_a_gauge", 1)

	if n, err := testutil.GatherAndCount(reg); err != nil || n != 9 {
		t.Fatalf("expected 9 registered metrics, got %d (err=%v)", n, err)
	}
}

func TestPromObsLogsFieldsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	obs := NewPromObsWith(prometheus.NewRegistry(), slog.New(slog.NewTextHandler(&buf, nil)))

	obs.LogWarn("apply_rejected", errors.New("stale"), ports.Field{Key: "connector", Value: "eDP-1"})

	out := buf.String()
	for _, want := range []string{"level=WARN", "apply_rejected", "error=stale", "connector=eDP-1"} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Fatalf("expected log output to contain %q, got %q", want, out)
		}
	}
}
