package broadcast

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// Listener receives the object affected by an instrumented operation.
// Returning an error aborts the remaining fan-out and propagates to the
// caller of the operation.
type Listener func(obj Observable) error

// Receiver describes a connected listener. Two receivers with equal
// descriptors are considered the same listener.
type Receiver struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Package string `json:"package"`
}

// Anonymous receivers (closures, method values without an owner) are never
// treated as duplicates of each other.
func (r Receiver) Anonymous() bool {
	return r.Kind == "closure" || r.Kind == "method"
}

func (r Receiver) String() string {
	return "(" + r.Kind + ", " + r.Name + ", " + r.Package + ")"
}

type receiverOptions struct {
	owner string
	name  string
}

// ReceiverOption customizes the descriptor of a listener.
type ReceiverOption func(*receiverOptions)

// WithOwner identifies the value a method-value listener is bound to, so
// the same method bound to different values is not flagged as a duplicate.
func WithOwner(id string) ReceiverOption { return func(o *receiverOptions) { o.owner = id } }

// WithName gives the listener an explicit descriptive name.
func WithName(name string) ReceiverOption { return func(o *receiverOptions) { o.name = name } }

var closureSuffix = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// Describe builds the descriptor of l from its runtime symbol.
func Describe(l Listener, opts ...ReceiverOption) Receiver {
	var o receiverOptions
	for _, opt := range opts {
		opt(&o)
	}
	full := ""
	if l != nil {
		if fn := runtime.FuncForPC(reflect.ValueOf(l).Pointer()); fn != nil {
			full = fn.Name()
		}
	}
	pkg, name := splitSymbol(full)
	r := Receiver{Kind: "function", Name: name, Package: pkg}
	switch {
	case strings.HasSuffix(name, "-fm"):
		r.Name = strings.TrimSuffix(name, "-fm")
		r.Kind = "method"
		if o.owner != "" {
			r.Kind = "method(" + o.owner + ")"
		}
	case closureSuffix.MatchString(name):
		r.Kind = "closure"
	}
	if o.name != "" {
		r.Name = o.name
		if r.Kind == "closure" {
			r.Kind = "function"
		}
	}
	return r
}

// splitSymbol splits "path/to/pkg.Func" into package path and local name.
func splitSymbol(full string) (pkg, name string) {
	slash := strings.LastIndexByte(full, '/')
	dot := strings.IndexByte(full[slash+1:], '.')
	if dot < 0 {
		return "", full
	}
	dot += slash + 1
	return full[:dot], full[dot+1:]
}
