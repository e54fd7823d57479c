package broadcast

import "sync/atomic"

// Subscription is the handle returned when a listener is connected. The
// registry owns the registration until Cancel is called or the channel is
// cleared.
type Subscription struct {
	ID       string
	Key      ChannelKey
	Receiver Receiver

	listener Listener
	reg      *Registry
	detached atomic.Bool
}

// Cancel disconnects the listener. It is safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.detached.Swap(true) {
		return
	}
	s.reg.remove(s)
}

// Active reports whether the listener is still connected.
func (s *Subscription) Active() bool { return s != nil && !s.detached.Load() }
