package main

import (
	"strings"
	"testing"

	screenrotation "github.com/imrisaac/iio-accel-screen-rotation"
)

const exposition = `# HELP screenrotation_samples_read_total Samples parsed from the sensor.
# TYPE screenrotation_samples_read_total counter
screenrotation_samples_read_total 42
# TYPE screenrotation_samples_skipped_total counter
screenrotation_samples_skipped_total 3
# TYPE screenrotation_transitions_total counter
screenrotation_transitions_total{to="landscape"} 2
screenrotation_transitions_total{to="left_rotation"} 1
# TYPE screenrotation_orientation gauge
screenrotation_orientation 2
`

func TestParseSnapshot(t *testing.T) {
	s, err := parseSnapshot(strings.NewReader(exposition))
	if err != nil {
		t.Fatalf("parseSnapshot returned error: %v", err)
	}
	if s.samples != 42 || s.skipped != 3 {
		t.Fatalf("unexpected sample counters: %+v", s)
	}
	if s.transitions != 3 {
		t.Fatalf("expected transitions summed across labels, got %v", s.transitions)
	}
	if s.failures != 0 {
		t.Fatalf("expected missing family to read as zero, got %v", s.failures)
	}
	if s.orientation != screenrotation.Orientation(2) {
		t.Fatalf("unexpected orientation %v", s.orientation)
	}
}

func TestParseSnapshotRejectsGarbage(t *testing.T) {
	if _, err := parseSnapshot(strings.NewReader("not a metric line {\n")); err == nil {
		t.Fatalf("expected malformed exposition to fail")
	}
}
