package broadcast

import (
	"fmt"
	"strings"
)

// Timing selects whether a notification fires before or after the
// instrumented operation takes effect.
type Timing int

const (
	Before Timing = iota + 1
	After
)

// Valid reports whether t is one of the two recognized timings.
func (t Timing) Valid() bool { return t == Before || t == After }

func (t Timing) String() string {
	switch t {
	case Before:
		return "pre"
	case After:
		return "post"
	default:
		return fmt.Sprintf("Timing(%d)", int(t))
	}
}

// ParseTiming accepts pre|before and post|after (case-insensitive).
func ParseTiming(s string) (Timing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pre", "before":
		return Before, nil
	case "post", "after":
		return After, nil
	default:
		return 0, configErr("parse timing", s, "want pre|before|post|after")
	}
}

// Kind distinguishes method attributes from property attributes.
type Kind int

const (
	KindMethod Kind = iota + 1
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
