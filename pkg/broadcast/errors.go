package broadcast

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid holder/attribute/timing combination.
// It is returned at construction time and is not recoverable.
type ConfigurationError struct {
	Op     string
	Target string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("broadcast: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("broadcast: %s %s: %s", e.Op, e.Target, e.Reason)
}

func configErr(op, target, format string, a ...any) error {
	return &ConfigurationError{Op: op, Target: target, Reason: fmt.Sprintf(format, a...)}
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ChannelConflictError signals an attempt to instrument an attribute that is
// already instrumented under a different channel key, or under the same key
// through another registry. Dispatch only reaches the registry an attribute
// was instrumented with.
type ChannelConflictError struct {
	Attr      string
	Existing  ChannelKey
	Requested ChannelKey

	// registry names
	ExistingNamespace  string
	RequestedNamespace string
}

func (e *ChannelConflictError) Error() string {
	if e.Existing == e.Requested {
		return fmt.Sprintf("broadcast: %s already broadcasts on %s in namespace %q, cannot rewire to namespace %q",
			e.Attr, e.Existing, e.ExistingNamespace, e.RequestedNamespace)
	}
	return fmt.Sprintf("broadcast: %s already broadcasts on %s, cannot rewire to %s", e.Attr, e.Existing, e.Requested)
}

// IsChannelConflict reports whether err is (or wraps) a ChannelConflictError.
func IsChannelConflict(err error) bool {
	var ce *ChannelConflictError
	return errors.As(err, &ce)
}
