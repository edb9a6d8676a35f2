package screenrotation

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelNotifierClosed is returned when a channel notifier is used after
// being closed.
var ErrChannelNotifierClosed = errors.New("screenrotation: channel notifier closed")

// TransitionFunc handles one applied transition.
type TransitionFunc func(Transition) error

// NewCallbackNotifier adapts a function into a Notifier.
func NewCallbackNotifier(name string, fn TransitionFunc) Notifier {
	if name == "" {
		name = "callback"
	}
	return &callbackNotifier{name: name, fn: fn}
}

// NewChannelNotifier exposes transitions via a channel; it returns the
// notifier, the read-only channel, and a close function that the caller
// should invoke during shutdown. A full channel drops the transition.
func NewChannelNotifier(name string, buffer int) (Notifier, <-chan Transition, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Transition, buffer)
	n := &channelNotifier{name: name, ch: ch}
	return n, ch, n.close
}

type callbackNotifier struct {
	name string
	fn   TransitionFunc
}

func (n *callbackNotifier) Notify(t Transition) error {
	if n.fn == nil {
		return fmt.Errorf("callback notifier %q: nil handler", n.name)
	}
	return n.fn(t)
}

func (n *callbackNotifier) Name() string { return n.name }

type channelNotifier struct {
	name   string
	mu     sync.Mutex
	ch     chan Transition
	closed bool
}

func (n *channelNotifier) Notify(t Transition) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrChannelNotifierClosed
	}
	select {
	case n.ch <- t:
		return nil
	default:
		return fmt.Errorf("channel notifier %q: buffer full", n.name)
	}
}

func (n *channelNotifier) Name() string { return n.name }

func (n *channelNotifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	close(n.ch)
}
