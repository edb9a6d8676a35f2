package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
)

func TestUniformScalePicksLargest(t *testing.T) {
	l := shelfLayout()
	l.Displays[1].Scale = 1.25
	l.Displays[2].Scale = 2

	assert.Equal(t, 2.0, UniformScale(l))
}

func TestUniformScaleNeverBelowOne(t *testing.T) {
	l := shelfLayout()
	for i := range l.Displays {
		l.Displays[i].Scale = 0.5
	}
	assert.Equal(t, 1.0, UniformScale(l))
	assert.Equal(t, 1.0, UniformScale(domain.Layout{}))
}

func TestApplyScaleFallsBackWhenUnsupported(t *testing.T) {
	l := shelfLayout()
	// HDMI-1 is driven in its 720p mode, which only supports 1.0.
	l.Displays[1].Monitors[0].Modes[0], l.Displays[1].Monitors[0].Modes[1] =
		l.Displays[1].Monitors[0].Modes[1], l.Displays[1].Monitors[0].Modes[0]

	out := ApplyScale(l, 1.5)

	assert.Equal(t, 1.5, out.Displays[0].Scale)
	assert.Equal(t, 1.0, out.Displays[1].Scale)
	assert.Equal(t, 1.5, out.Displays[2].Scale)
	assert.Equal(t, 1.0, l.Displays[0].Scale, "input must not change")
}

func TestApplyScaleWithMultipleMonitorsPerDisplay(t *testing.T) {
	mirror := fhdMonitor("DP-3")
	mirror.Modes[0].SupportedScales = []float64{1, 2}

	l := domain.Layout{Displays: []domain.LogicalDisplay{
		{Scale: 1, Monitors: []domain.Monitor{fhdMonitor("DP-2"), mirror}},
	}}

	assert.Equal(t, 2.0, ApplyScale(l, 2).Displays[0].Scale)
	assert.Equal(t, 1.0, ApplyScale(l, 1.25).Displays[0].Scale)
}
