package uinput

import (
	"errors"
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/domain"
	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

type fakeDevice struct {
	events []evdev.InputEvent
	failAt int
	closes int
}

func (f *fakeDevice) WriteOne(ev *evdev.InputEvent) error {
	if f.failAt > 0 && len(f.events)+1 == f.failAt {
		return errors.New("device gone")
	}
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeDevice) Close() error {
	f.closes++
	return nil
}

func TestNotifyEmitsVectorAndSync(t *testing.T) {
	dev := &fakeDevice{}
	acc := newAccelerometer(dev)

	require.NoError(t, acc.Notify(ports.Transition{To: domain.LeftRotation}))

	require.Len(t, dev.events, 4)
	assert.Equal(t, evdev.ABS_X, dev.events[0].Code)
	assert.Equal(t, int32(-1000), dev.events[0].Value)
	assert.Equal(t, int32(0), dev.events[1].Value)
	assert.Equal(t, evdev.EV_SYN, dev.events[3].Type)
	assert.Equal(t, evdev.SYN_REPORT, dev.events[3].Code)
}

func TestNotifyIgnoresUnknown(t *testing.T) {
	dev := &fakeDevice{}
	acc := newAccelerometer(dev)

	require.NoError(t, acc.Notify(ports.Transition{To: domain.Unknown}))
	assert.Empty(t, dev.events)
}

func TestEmitPropagatesWriteErrors(t *testing.T) {
	dev := &fakeDevice{failAt: 2}
	acc := newAccelerometer(dev)

	err := acc.Emit(Vectors[domain.Landscape])
	require.Error(t, err)
	assert.Len(t, dev.events, 1)
}

func TestCloseIsIdempotent(t *testing.T) {
	dev := &fakeDevice{}
	acc := newAccelerometer(dev)

	require.NoError(t, acc.Close())
	require.NoError(t, acc.Close())
	assert.Equal(t, 1, dev.closes)
	assert.Error(t, acc.Emit(Vector{}))
}
