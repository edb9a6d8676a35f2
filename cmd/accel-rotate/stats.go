package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	screenrotation "github.com/imrisaac/iio-accel-screen-rotation"
)

const (
	metricSamplesRead   = "screenrotation_samples_read_total"
	metricSkipped       = "screenrotation_samples_skipped_total"
	metricTransitions   = "screenrotation_transitions_total"
	metricApplyFailures = "screenrotation_apply_failures_total"
	metricOrientation   = "screenrotation_orientation"
)

type snapshot struct {
	samples     float64
	skipped     float64
	transitions float64
	failures    float64
	orientation screenrotation.Orientation
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9101/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	client := &http.Client{Timeout: *interval}
	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(ctx, client, *url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	s, err := parseSnapshot(resp.Body)
	if err != nil {
		return err
	}
	fmt.Printf("[%s] orientation=%s samples=%.0f skipped=%.0f transitions=%.0f apply_failures=%.0f\n",
		time.Now().Format(time.RFC3339),
		s.orientation, s.samples, s.skipped, s.transitions, s.failures)
	return nil
}

func parseSnapshot(r io.Reader) (snapshot, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return snapshot{}, fmt.Errorf("parse metrics: %w", err)
	}
	return snapshot{
		samples:     sum(families[metricSamplesRead]),
		skipped:     sum(families[metricSkipped]),
		transitions: sum(families[metricTransitions]),
		failures:    sum(families[metricApplyFailures]),
		orientation: screenrotation.Orientation(sum(families[metricOrientation])),
	}, nil
}

// sum adds every sample of a counter or gauge family, across labels.
func sum(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.GetCounter() != nil:
			total += m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			total += m.GetGauge().GetValue()
		}
	}
	return total
}
