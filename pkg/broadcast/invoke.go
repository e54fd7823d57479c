package broadcast

// Call runs fn as the body of method attr of obj, notifying listeners before
// or after it when the method is instrumented. fn's results are returned
// unchanged. A listener error aborts: with Before timing fn never runs, with
// After timing fn's result is returned alongside the error. When fn itself
// fails, After listeners are not notified.
func Call[T any](obj Observable, attr string, fn func() (T, error)) (T, error) {
	var zero T
	m, ok, err := methodTarget(obj, attr)
	if err != nil {
		return zero, err
	}
	if !ok {
		return fn()
	}
	ch := m.reg.Lookup(m.key)
	if m.key.Timing == Before {
		if err := ch.Send(obj); err != nil {
			return zero, err
		}
		return fn()
	}
	out, err := fn()
	if err != nil {
		return out, err
	}
	if err := ch.Send(obj); err != nil {
		return out, err
	}
	return out, nil
}

// Do is Call for methods without a result.
func Do(obj Observable, attr string, fn func() error) error {
	_, err := Call(obj, attr, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

func methodTarget(obj Observable, attr string) (marker, bool, error) {
	if obj == nil {
		return marker{}, false, nil
	}
	cls := obj.BroadcastClass()
	if cls == nil {
		return marker{}, false, nil
	}
	a, ok := cls.Attribute(attr)
	if !ok {
		return marker{}, false, configErr("call", cls.String()+"."+attr, "no such attribute")
	}
	if a.Kind != KindMethod {
		return marker{}, false, configErr("call", cls.String()+"."+attr, "not a method")
	}
	id, _ := InstanceID(obj)
	m, ok := cls.methodMarker(id, attr)
	return m, ok, nil
}

// Set runs fn as the setter of property attr of obj. For each installed
// timing it notifies the class-wide channel and then, if it has listeners,
// the channel of this particular instance.
func Set(obj Observable, attr string, fn func() error) error {
	if obj == nil {
		return fn()
	}
	cls := obj.BroadcastClass()
	if cls == nil {
		return fn()
	}
	a, ok := cls.Attribute(attr)
	if !ok {
		return configErr("set", cls.String()+"."+attr, "no such attribute")
	}
	if a.Kind != KindProperty {
		return configErr("set", cls.String()+"."+attr, "not a property")
	}
	if !a.Settable {
		return configErr("set", cls.String()+"."+attr, "read-only property")
	}
	ms := cls.propertyMarkers(attr)
	if len(ms) == 0 {
		return fn()
	}
	if err := notifyProperty(ms, Before, obj); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return notifyProperty(ms, After, obj)
}

func notifyProperty(ms []marker, t Timing, obj Observable) error {
	id, hasID := InstanceID(obj)
	for _, m := range ms {
		if m.key.Timing != t {
			continue
		}
		if err := m.reg.Lookup(m.key).Send(obj); err != nil {
			return err
		}
		if !hasID {
			continue
		}
		if err := m.reg.Lookup(m.key.ForInstance(id)).Send(obj); err != nil {
			return err
		}
	}
	return nil
}
