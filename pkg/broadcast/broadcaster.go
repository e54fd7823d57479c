package broadcast

import (
	"fmt"
	"slices"
	"strings"
)

// Broadcaster instruments one attribute of a class (all instances) or of a
// single instance, and manages the listeners of the resulting channel.
//
// A Broadcaster keeps the class and the instance identifier only, never the
// instance itself.
type Broadcaster struct {
	reg      *Registry
	class    *Class
	instance string
	attr     Attribute
	timing   Timing
}

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithRegistry selects the registry (channel namespace). Defaults to Default.
func WithRegistry(r *Registry) Option {
	return func(b *Broadcaster) {
		if r != nil {
			b.reg = r
		}
	}
}

// New validates the target. It does not instrument anything; call
// Broadcast for that.
func New(holder Holder, attr string, timing Timing, opts ...Option) (*Broadcaster, error) {
	if holder == nil {
		return nil, configErr("new", attr, "nil holder")
	}
	cls := holder.BroadcastClass()
	if cls == nil {
		return nil, configErr("new", attr, "holder has no class")
	}
	target := cls.String() + "." + attr
	a, ok := cls.Attribute(attr)
	if !ok {
		return nil, configErr("new", target, "no such attribute")
	}
	if !timing.Valid() {
		return nil, configErr("new", target, "unsupported timing %s", timing)
	}
	if a.Kind == KindProperty && !a.Settable {
		return nil, configErr("new", target, "read-only property cannot broadcast")
	}
	b := &Broadcaster{reg: Default, class: cls, attr: a, timing: timing}
	if _, isClass := holder.(*Class); !isClass {
		obs, isObs := holder.(Observable)
		if !isObs {
			return nil, configErr("new", target, "holder must be a *Class or an Observable")
		}
		id, hasID := InstanceID(obs)
		if !hasID {
			return nil, configErr("new", target, "instance has neither a name nor a serial")
		}
		b.instance = id
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Registry returns the namespace the broadcaster publishes into.
func (b *Broadcaster) Registry() *Registry { return b.reg }
func (b *Broadcaster) Class() *Class       { return b.class }
func (b *Broadcaster) Attr() Attribute     { return b.attr }
func (b *Broadcaster) Timing() Timing      { return b.timing }

// Instance returns the instance identifier, or "" for class-wide targets.
func (b *Broadcaster) Instance() string { return b.instance }

// ClassKey is the channel shared by every instance of the class.
func (b *Broadcaster) ClassKey() ChannelKey {
	return ChannelKey{
		Timing: b.timing,
		Module: b.class.Module(),
		Class:  b.class.Name(),
		Attr:   b.attr.Name,
		Kind:   b.attr.Kind,
	}
}

// ID is the channel this broadcaster's listeners are connected to: the class
// key for class holders, the instance key otherwise.
func (b *Broadcaster) ID() ChannelKey { return b.ClassKey().ForInstance(b.instance) }

func (b *Broadcaster) channel() *Channel { return b.reg.Lookup(b.ID()) }

// Broadcast instruments the attribute. Calling it again with the same key and
// registry is a no-op. Method attributes carry one key at a time; asking for
// another key, or for the same key through another registry, returns a
// *ChannelConflictError. Property setters are always instrumented class-wide,
// once per timing, and additionally notify the per-instance channel of the
// object being set.
func (b *Broadcaster) Broadcast() error {
	c := b.class
	c.mu.Lock()
	defer c.mu.Unlock()

	if b.attr.Kind == KindProperty {
		key := b.ClassKey()
		for _, m := range c.props[b.attr.Name] {
			if m.key != key {
				continue
			}
			if m.reg != b.reg {
				return b.conflict(m, key)
			}
			return nil
		}
		c.props[b.attr.Name] = append(c.props[b.attr.Name], marker{key: key, reg: b.reg})
		return nil
	}

	key := b.ID()
	existing, ok := c.methods[b.attr.Name]
	if b.instance != "" {
		if m, inst := c.instMethods[b.instance][b.attr.Name]; inst {
			existing, ok = m, true
		}
	}
	if ok {
		if existing.key == key && existing.reg == b.reg {
			return nil
		}
		return b.conflict(existing, key)
	}
	m := marker{key: key, reg: b.reg}
	if b.instance == "" {
		c.methods[b.attr.Name] = m
		return nil
	}
	if c.instMethods[b.instance] == nil {
		c.instMethods[b.instance] = make(map[string]marker)
	}
	c.instMethods[b.instance][b.attr.Name] = m
	return nil
}

func (b *Broadcaster) conflict(existing marker, key ChannelKey) error {
	return &ChannelConflictError{
		Attr:               b.class.String() + "." + b.attr.Name,
		Existing:           existing.key,
		Requested:          key,
		ExistingNamespace:  existing.reg.Name(),
		RequestedNamespace: b.reg.Name(),
	}
}

// AddReceiver connects l to the broadcaster's channel. If a named receiver
// with the same descriptor is already connected, a warning is logged and the
// existing subscription is returned with added=false.
func (b *Broadcaster) AddReceiver(l Listener, opts ...ReceiverOption) (sub *Subscription, added bool) {
	if l == nil {
		b.reg.log.Warn().Str("channel", b.ID().String()).Msg("nil receiver ignored")
		return nil, false
	}
	desc := Describe(l, opts...)
	ch := b.channel()
	if !desc.Anonymous() {
		for _, s := range ch.Subscriptions() {
			if s.Receiver == desc {
				duplicateReceiversTotal.WithLabelValues(b.reg.name).Inc()
				b.reg.log.Warn().Str("channel", b.ID().String()).Str("receiver", desc.String()).Msg("receiver already connected, no action taken")
				return s, false
			}
		}
	}
	return ch.Connect(l, desc), true
}

// Receivers describes the connected listeners in registration order.
func (b *Broadcaster) Receivers() []Receiver { return b.channel().Receivers() }

// Subscriptions returns the live subscriptions in registration order.
func (b *Broadcaster) Subscriptions() []*Subscription { return b.channel().Subscriptions() }

// DeleteReceivers disconnects every listener. The instrumentation stays in
// place and keeps running, silently.
func (b *Broadcaster) DeleteReceivers() { b.channel().Clear() }

// Channels lists the keys the attribute currently broadcasts on, or nil when
// it is not instrumented.
func (b *Broadcaster) Channels() []ChannelKey {
	if b.attr.Kind == KindProperty {
		ms := b.class.propertyMarkers(b.attr.Name)
		if len(ms) == 0 {
			return nil
		}
		out := make([]ChannelKey, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.key)
		}
		return out
	}
	if m, ok := b.class.methodMarker(b.instance, b.attr.Name); ok {
		return []ChannelKey{m.key}
	}
	return nil
}

// Equal compares by value: same instrumentation channels and same receiver
// descriptors.
func (b *Broadcaster) Equal(other *Broadcaster) bool {
	if b == nil || other == nil {
		return b == other
	}
	return slices.Equal(b.Channels(), other.Channels()) && slices.Equal(b.Receivers(), other.Receivers())
}

func (b *Broadcaster) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "broadcast.Broadcaster: %s\nChannels: %v\nReceivers: [", b.ID(), b.Channels())
	for i, r := range b.Receivers() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(r.String())
	}
	sb.WriteString("]")
	return sb.String()
}

// Attach builds a broadcaster, instruments the attribute and connects l in
// one step.
func Attach(holder Holder, attr string, l Listener, timing Timing, opts ...Option) (*Broadcaster, *Subscription, error) {
	b, err := New(holder, attr, timing, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := b.Broadcast(); err != nil {
		return nil, nil, err
	}
	sub, _ := b.AddReceiver(l)
	return b, sub, nil
}

// BroadcastProperties instruments the settable properties of c: all of them
// when names is empty, the listed ones otherwise. Read-only properties are
// skipped; unknown names are an error.
func BroadcastProperties(c *Class, timing Timing, names []string, opts ...Option) error {
	if c == nil {
		return configErr("broadcast properties", "", "nil class")
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		a, ok := c.Attribute(n)
		if !ok || a.Kind != KindProperty {
			return configErr("broadcast properties", c.String()+"."+n, "no such property")
		}
		want[n] = true
	}
	for _, a := range c.Attributes() {
		if a.Kind != KindProperty || !a.Settable {
			continue
		}
		if len(want) > 0 && !want[a.Name] {
			continue
		}
		b, err := New(c, a.Name, timing, opts...)
		if err != nil {
			return err
		}
		if err := b.Broadcast(); err != nil {
			return err
		}
	}
	return nil
}
