package broadcast

import "strings"

// setterSuffix marks property keys in the rendered form.
const setterSuffix = ".set"

// ChannelKey identifies a notification channel. Keys are comparable; two
// targets with equal keys share a channel.
type ChannelKey struct {
	Timing   Timing
	Module   string
	Class    string
	Attr     string
	Kind     Kind
	Instance string // empty for class-wide channels
}

// ClassKey drops the instance part.
func (k ChannelKey) ClassKey() ChannelKey {
	k.Instance = ""
	return k
}

// ForInstance returns the key of the per-instance channel derived from k.
func (k ChannelKey) ForInstance(id string) ChannelKey {
	k.Instance = id
	return k
}

// String renders timing:module:Class:attr[.set][(instance)].
func (k ChannelKey) String() string {
	var b strings.Builder
	b.WriteString(k.Timing.String())
	b.WriteByte(':')
	b.WriteString(k.Module)
	b.WriteByte(':')
	b.WriteString(k.Class)
	b.WriteByte(':')
	b.WriteString(k.Attr)
	if k.Kind == KindProperty {
		b.WriteString(setterSuffix)
	}
	if k.Instance != "" {
		b.WriteByte('(')
		b.WriteString(k.Instance)
		b.WriteByte(')')
	}
	return b.String()
}

// ParseChannelKey decomposes a key rendered by ChannelKey.String.
func ParseChannelKey(s string) (ChannelKey, error) {
	var k ChannelKey
	head := s
	if i := strings.IndexByte(s, '('); i >= 0 {
		if !strings.HasSuffix(s, ")") || i == len(s)-2 {
			return k, configErr("parse key", s, "malformed instance part")
		}
		head = s[:i]
		k.Instance = s[i+1 : len(s)-1]
	}
	parts := strings.Split(head, ":")
	if len(parts) != 4 {
		return k, configErr("parse key", s, "want timing:module:class:attr, got %d parts", len(parts))
	}
	t, err := ParseTiming(parts[0])
	if err != nil {
		return k, configErr("parse key", s, "bad timing %q", parts[0])
	}
	k.Timing = t
	k.Module, k.Class = parts[1], parts[2]
	k.Kind = KindMethod
	k.Attr = parts[3]
	if strings.HasSuffix(k.Attr, setterSuffix) {
		k.Kind = KindProperty
		k.Attr = strings.TrimSuffix(k.Attr, setterSuffix)
	}
	if k.Module == "" || k.Class == "" || k.Attr == "" {
		return k, configErr("parse key", s, "empty module, class or attribute")
	}
	return k, nil
}
