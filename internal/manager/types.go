package manager

import "strings"

// Key identifies one model instance: a logical model bound to one entity.
type Key struct {
	Model  string
	Entity string
}

func (k Key) String() string { return k.Model + "#" + k.Entity }

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, bool) {
	m, e, ok := strings.Cut(s, "#")
	if !ok || m == "" {
		return Key{}, false
	}
	return Key{Model: m, Entity: e}, true
}
