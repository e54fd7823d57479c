package broadcast

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Default is the registry used when no WithRegistry option is given.
var Default = NewRegistry("default")

// Registry owns channels and their subscriptions. Separate registries act as
// separate namespaces: equal keys in different registries do not share
// listeners.
type Registry struct {
	name string
	log  zerolog.Logger

	mu       sync.Mutex
	channels map[ChannelKey][]*Subscription
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger installs the logger used for duplicate-receiver warnings and
// dispatch debugging.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

func NewRegistry(name string, opts ...RegistryOption) *Registry {
	r := &Registry{
		name:     name,
		log:      log.Logger,
		channels: make(map[ChannelKey][]*Subscription),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With().Str("namespace", name).Logger()
	return r
}

func (r *Registry) Name() string { return r.name }

// Lookup returns a handle on the channel for key. Channels exist implicitly;
// looking one up does not allocate anything.
func (r *Registry) Lookup(key ChannelKey) *Channel { return &Channel{reg: r, key: key} }

// ChannelInfo is a snapshot of one non-empty channel.
type ChannelInfo struct {
	Key       ChannelKey
	Receivers []Receiver
}

// Channels snapshots every channel that currently has listeners, ordered by
// rendered key.
func (r *Registry) Channels() []ChannelInfo {
	r.mu.Lock()
	out := make([]ChannelInfo, 0, len(r.channels))
	for k, subs := range r.channels {
		info := ChannelInfo{Key: k, Receivers: make([]Receiver, 0, len(subs))}
		for _, s := range subs {
			info.Receivers = append(info.Receivers, s.Receiver)
		}
		out = append(out, info)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Key.String() < out[j].Key.String() })
	return out
}

func (r *Registry) snapshot(key ChannelKey) []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := r.channels[key]
	if len(subs) == 0 {
		return nil
	}
	return append([]*Subscription(nil), subs...)
}

func (r *Registry) remove(s *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := r.channels[s.Key]
	for i, cur := range subs {
		if cur != s {
			continue
		}
		subs = append(subs[:i:i], subs[i+1:]...)
		break
	}
	if len(subs) == 0 {
		delete(r.channels, s.Key)
		return
	}
	r.channels[s.Key] = subs
}

// Channel is a handle on one notification stream of a Registry.
type Channel struct {
	reg *Registry
	key ChannelKey
}

func (c *Channel) Key() ChannelKey { return c.key }

// Connect appends l to the channel. Connect performs no duplicate detection;
// see Broadcaster.AddReceiver for that.
func (c *Channel) Connect(l Listener, desc Receiver) *Subscription {
	s := &Subscription{
		ID:       uuid.NewString(),
		Key:      c.key,
		Receiver: desc,
		listener: l,
		reg:      c.reg,
	}
	c.reg.mu.Lock()
	c.reg.channels[c.key] = append(c.reg.channels[c.key], s)
	c.reg.mu.Unlock()
	return s
}

// Len returns the number of connected listeners.
func (c *Channel) Len() int {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	return len(c.reg.channels[c.key])
}

// Receivers describes the connected listeners in registration order.
func (c *Channel) Receivers() []Receiver {
	subs := c.reg.snapshot(c.key)
	out := make([]Receiver, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.Receiver)
	}
	return out
}

// Subscriptions returns the live subscriptions in registration order.
func (c *Channel) Subscriptions() []*Subscription { return c.reg.snapshot(c.key) }

// Clear drops every listener of the channel.
func (c *Channel) Clear() {
	c.reg.mu.Lock()
	subs := c.reg.channels[c.key]
	delete(c.reg.channels, c.key)
	c.reg.mu.Unlock()
	for _, s := range subs {
		s.detached.Store(true)
	}
}

// Send delivers obj to every listener in registration order, on the calling
// goroutine. Listeners cancelled mid-dispatch are skipped. The first listener error stops delivery and is returned as is.
// Send on a channel without listeners is a no-op.
func (c *Channel) Send(obj Observable) error {
	subs := c.reg.snapshot(c.key)
	if len(subs) == 0 {
		return nil
	}
	dispatchTotal.WithLabelValues(c.reg.name, c.key.Timing.String()).Inc()
	for _, s := range subs {
		// cancelled by an earlier listener of this dispatch
		if s.detached.Load() {
			continue
		}
		if err := s.listener(obj); err != nil {
			listenerErrorsTotal.WithLabelValues(c.reg.name).Inc()
			c.reg.log.Debug().Str("channel", c.key.String()).Str("receiver", s.Receiver.String()).Err(err).Msg("listener failed")
			return err
		}
	}
	return nil
}
