package domain

import (
	"fmt"
	"strings"
	"time"
)

// Axis selects which accelerometer reading drives orientation detection.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// ParseAxis accepts "x", "y" or "z" in any case.
func ParseAxis(s string) (Axis, error) {
	switch a := Axis(strings.ToLower(strings.TrimSpace(s))); a {
	case AxisX, AxisY, AxisZ:
		return a, nil
	default:
		return "", fmt.Errorf("unknown axis %q", s)
	}
}

// AxisSample is one accelerometer reading as reported by the sensor.
type AxisSample struct {
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Z        float64   `json:"z"`
	Received time.Time `json:"received"`
}

// Value returns the reading for the given axis.
func (s AxisSample) Value(a Axis) float64 {
	switch a {
	case AxisX:
		return s.X
	case AxisZ:
		return s.Z
	default:
		return s.Y
	}
}
