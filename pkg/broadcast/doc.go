// Package broadcast publishes notifications around method calls and property
// writes of instrumented types.
//
// A type opts in by declaring a Class, embedding an Object created from it,
// and routing its operations through Call, Do or Set:
//
//	var pointClass = broadcast.MustClass("geom", "Point",
//		broadcast.Method("Translate"),
//		broadcast.Property("X"),
//	)
//
//	type Point struct {
//		broadcast.Object
//		x float64
//	}
//
//	func NewPoint() *Point { return &Point{Object: pointClass.NewObject()} }
//
//	func (p *Point) SetX(v float64) error {
//		return broadcast.Set(p, "X", func() error { p.x = v; return nil })
//	}
//
// Instrumentation is enabled per (holder, attribute, timing) with a
// Broadcaster. The holder is either the *Class (every instance) or one
// Observable (that instance only):
//
//	b, err := broadcast.New(pointClass, "X", broadcast.After)
//	...
//	_ = b.Broadcast()
//	sub, _ := b.AddReceiver(func(obj broadcast.Observable) error { ... })
//	defer sub.Cancel()
//
// Dispatch is synchronous: listeners run on the goroutine performing the
// operation, in registration order, and the first listener error is returned
// to the caller.
//
// Property setters are always instrumented class-wide. Per-instance listeners
// on a property are served by a second channel, keyed with the instance
// identifier, which the setter notifies right after the class-wide one.
// Instance identifiers come from Named.Name when set, otherwise from the
// serial assigned by Class.NewObject.
package broadcast
