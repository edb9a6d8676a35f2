// Package orientation turns a single accelerometer axis value into a
// discrete orientation state.
package orientation

import (
	"errors"
	"fmt"
	"math"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
)

var (
	ErrOverlappingRanges = errors.New("orientation ranges overlap")
	ErrEmptyRange        = errors.New("orientation range is empty")
	ErrUnknownState      = errors.New("orientation range cannot be tagged unknown")
	ErrNoRanges          = errors.New("at least one orientation range is required")
)

// Range is an inclusive [Min, Max] interval tagged with the state it
// selects. Use math.Inf for unbounded ends.
type Range struct {
	State domain.Orientation
	Min   float64
	Max   float64
}

func (r Range) contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

func (r Range) overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// DefaultRanges leaves (100, 800) and (-800, -100) as dead zones.
func DefaultRanges() []Range {
	return []Range{
		{State: domain.Landscape, Min: -100, Max: 100},
		{State: domain.LeftRotation, Min: 800, Max: math.Inf(1)},
		{State: domain.RightRotation, Min: math.Inf(-1), Max: -800},
	}
}

// Classifier evaluates its ranges in order. It holds no state between
// calls.
type Classifier struct {
	ranges []Range
}

// NewClassifier validates ranges and fixes their evaluation order.
func NewClassifier(ranges []Range) (*Classifier, error) {
	if len(ranges) == 0 {
		return nil, ErrNoRanges
	}
	for i, r := range ranges {
		if r.State == domain.Unknown {
			return nil, fmt.Errorf("range %d: %w", i, ErrUnknownState)
		}
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
			return nil, fmt.Errorf("range %d (%s) [%v, %v]: %w", i, r.State, r.Min, r.Max, ErrEmptyRange)
		}
		for j := 0; j < i; j++ {
			if r.overlaps(ranges[j]) {
				return nil, fmt.Errorf("%s and %s: %w", ranges[j].State, r.State, ErrOverlappingRanges)
			}
		}
	}
	return &Classifier{ranges: append([]Range(nil), ranges...)}, nil
}

// MustDefault returns a classifier over DefaultRanges.
func MustDefault() *Classifier {
	c, err := NewClassifier(DefaultRanges())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the first state whose range contains v, or Unknown.
func (c *Classifier) Classify(v float64) domain.Orientation {
	if math.IsNaN(v) {
		return domain.Unknown
	}
	for _, r := range c.ranges {
		if r.contains(v) {
			return r.State
		}
	}
	return domain.Unknown
}

// Ranges returns a copy of the configured ranges in evaluation order.
func (c *Classifier) Ranges() []Range {
	return append([]Range(nil), c.ranges...)
}
