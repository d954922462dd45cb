package variant

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Path is an ordered sequence of segment names identifying a leaf in a
// document. Segments are user-supplied keys; this package imposes no
// escaping rules on them.
type Path []string

// ParsePath splits a dotted string into a Path. It is a convenience for
// callers who represent nested keys as "a.b.c"; it is not used internally,
// since real document flattening walks nested Fields directly (see
// flattenObject).
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return strings.Split(s, ".")
}

// String renders p as a dotted string, for logs and debugging.
func (p Path) String() string { return strings.Join(p, ".") }

// Equal reports whether p and other name the same sequence of segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// hash returns a fast, non-cryptographic hash of p's segments, each
// followed by a zero byte (so Path{"a.b"} and Path{"a", "b"} differ), used by
// SubcolumnTree as a lookup fast-path key alongside the trie's own
// structural traversal.
func (p Path) hash() uint64 {
	h := xxhash.New()
	for _, seg := range p {
		_, _ = h.WriteString(seg)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
