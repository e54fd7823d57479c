package broadcast

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Attribute describes one instrumentable member of a Class.
type Attribute struct {
	Name     string
	Kind     Kind
	Settable bool
}

// Method declares a method attribute.
func Method(name string) Attribute { return Attribute{Name: name, Kind: KindMethod} }

// Property declares a settable property attribute.
func Property(name string) Attribute {
	return Attribute{Name: name, Kind: KindProperty, Settable: true}
}

// ReadOnly declares a property without a setter. It can be listed on a class
// but never instrumented.
func ReadOnly(name string) Attribute { return Attribute{Name: name, Kind: KindProperty} }

// marker records that an attribute broadcasts on key through reg.
type marker struct {
	key ChannelKey
	reg *Registry
}

// Class describes a Go type whose methods and property setters can be
// instrumented. Instrumentation markers live on the Class, so enabling a
// class-wide broadcast affects every Object created from it.
type Class struct {
	module string
	name   string

	mu    sync.RWMutex
	attrs map[string]Attribute
	order []string
	// class-wide method markers, by attribute
	methods map[string]marker
	// per-instance method markers: instance id -> attribute -> marker
	instMethods map[string]map[string]marker
	// property setter markers, at most one per timing
	props map[string][]marker
}

// NewClass declares an instrumentable type. module is normally the declaring
// package path and name the Go type name.
func NewClass(module, name string, attrs ...Attribute) (*Class, error) {
	if err := checkName("module", module); err != nil {
		return nil, err
	}
	if err := checkName("class", name); err != nil {
		return nil, err
	}
	c := &Class{
		module:      module,
		name:        name,
		attrs:       make(map[string]Attribute, len(attrs)),
		methods:     make(map[string]marker),
		instMethods: make(map[string]map[string]marker),
		props:       make(map[string][]marker),
	}
	for _, a := range attrs {
		if err := checkName("attribute", a.Name); err != nil {
			return nil, err
		}
		// keys would read back as the setter of a.Name minus the suffix
		if strings.HasSuffix(a.Name, setterSuffix) {
			return nil, configErr("new class", module+"."+name, "attribute %q must not end in %q", a.Name, setterSuffix)
		}
		if a.Kind != KindMethod && a.Kind != KindProperty {
			return nil, configErr("new class", module+"."+name, "attribute %q has invalid kind %s", a.Name, a.Kind)
		}
		if _, dup := c.attrs[a.Name]; dup {
			return nil, configErr("new class", module+"."+name, "duplicate attribute %q", a.Name)
		}
		if a.Kind == KindMethod {
			a.Settable = false
		}
		c.attrs[a.Name] = a
		c.order = append(c.order, a.Name)
	}
	return c, nil
}

// MustClass is like NewClass but panics on error. Intended for package-level
// class declarations.
func MustClass(module, name string, attrs ...Attribute) *Class {
	c, err := NewClass(module, name, attrs...)
	if err != nil {
		panic(err)
	}
	return c
}

func checkName(what, s string) error {
	if s == "" {
		return configErr("new class", "", "empty %s name", what)
	}
	if strings.ContainsAny(s, ":()") {
		return configErr("new class", s, "%s name must not contain ':', '(' or ')'", what)
	}
	return nil
}

func (c *Class) Module() string { return c.module }
func (c *Class) Name() string   { return c.name }
func (c *Class) String() string { return c.module + "." + c.name }

// BroadcastClass makes *Class a Holder that designates every instance.
func (c *Class) BroadcastClass() *Class { return c }

// Attribute looks up a declared attribute.
func (c *Class) Attribute(name string) (Attribute, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.attrs[name]
	return a, ok
}

// Attributes returns the declared attributes in declaration order.
func (c *Class) Attributes() []Attribute {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Attribute, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.attrs[n])
	}
	return out
}

// MixIn copies the attributes of src that c does not declare yet. Existing
// attributes are never overwritten. Use it for container types that forward
// methods and properties to an embedded value.
func (c *Class) MixIn(src *Class) {
	if src == nil || src == c {
		return
	}
	added := src.Attributes()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range added {
		if _, ok := c.attrs[a.Name]; ok {
			continue
		}
		c.attrs[a.Name] = a
		c.order = append(c.order, a.Name)
	}
}

// NewObject returns an Object bound to c with a fresh serial. Serials are
// never reused within a process.
func (c *Class) NewObject() Object {
	return Object{class: c, serial: serials.Add(1)}
}

// methodMarker returns the marker in effect for attr on the given instance
// ("" for class-wide lookups). Instance markers shadow the class marker.
func (c *Class) methodMarker(instance, attr string) (marker, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if instance != "" {
		if m, ok := c.instMethods[instance][attr]; ok {
			return m, true
		}
	}
	m, ok := c.methods[attr]
	return m, ok
}

func (c *Class) propertyMarkers(attr string) []marker {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ms := c.props[attr]
	if len(ms) == 0 {
		return nil
	}
	return append([]marker(nil), ms...)
}

var serials atomic.Uint64

// Observable is implemented by values whose operations can be broadcast.
// Embedding Object satisfies it.
type Observable interface {
	BroadcastClass() *Class
	BroadcastSerial() uint64
}

// Named observables use their name as the instance identifier.
type Named interface {
	Name() string
}

// Holder designates what a Broadcaster observes: a *Class (all instances)
// or an Observable (one instance).
type Holder interface {
	BroadcastClass() *Class
}

// Object is embedded by instrumented types. Create it with Class.NewObject.
type Object struct {
	class  *Class
	serial uint64
}

func (o Object) BroadcastClass() *Class  { return o.class }
func (o Object) BroadcastSerial() uint64 { return o.serial }

// InstanceID returns the identifier used for per-instance channels: the
// name of a Named observable, else "#<serial>". ok is false when obj has
// neither.
func InstanceID(obj Observable) (id string, ok bool) {
	if obj == nil {
		return "", false
	}
	if n, isNamed := obj.(Named); isNamed {
		if name := n.Name(); name != "" {
			return name, true
		}
	}
	if s := obj.BroadcastSerial(); s != 0 {
		return "#" + strconv.FormatUint(s, 10), true
	}
	return "", false
}
