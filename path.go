// File: stratum/path.go
package stratum

import (
	"strconv"
	"strings"
)

// Segment is a single step of a Path: either a mapping key or a
// non-negative sequence index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a mapping-key segment.
func Key(key string) Segment {
	return Segment{key: key}
}

// Index returns a sequence-index segment. Negative indices are invalid and
// will never resolve.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment addresses a sequence element.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// MapKey returns the mapping key of a key segment, or "" for an index
// segment.
func (s Segment) MapKey() string {
	if s.isIndex {
		return ""
	}
	return s.key
}

// SeqIndex returns the sequence index of an index segment, or -1 for a key
// segment.
func (s Segment) SeqIndex() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

// String renders the segment the way ParsePath would read it back.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses a sub-value inside a Value tree as an ordered sequence of
// segments. A zero-segment Path denotes the root. Paths are immutable
// addressing descriptors; they carry no reference to any tree.
type Path struct {
	segments []Segment
}

// Root is the zero-segment path addressing a whole tree.
var Root = Path{}

// NewPath builds a path from segments.
func NewPath(segments ...Segment) Path {
	if len(segments) == 0 {
		return Path{}
	}
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	return Path{segments: segs}
}

// ParsePath parses a dotted-segment expression into a Path. Segments made
// up entirely of ASCII digits address sequence indices; every other segment
// is a mapping key ("server.ports.0" resolves the first element of the
// sequence under server.ports). The empty expression denotes the root. An
// empty segment, such as the one produced by two consecutive separators,
// fails with *SyntaxError.
func ParsePath(expr string) (Path, error) {
	if expr == "" {
		return Path{}, nil
	}

	parts := strings.Split(expr, ".")
	segments := make([]Segment, 0, len(parts))
	pos := 0
	for _, part := range parts {
		if part == "" {
			return Path{}, &SyntaxError{Expr: expr, Pos: pos, Reason: "empty segment"}
		}
		if isDigits(part) {
			i, err := strconv.Atoi(part)
			if err != nil {
				return Path{}, &SyntaxError{Expr: expr, Pos: pos, Reason: "index out of range"}
			}
			segments = append(segments, Index(i))
		} else {
			segments = append(segments, Key(part))
		}
		pos += len(part) + 1
	}

	return Path{segments: segments}, nil
}

// MustParsePath is like ParsePath but panics on a malformed expression.
// Intended for fixed path literals.
func MustParsePath(expr string) Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path has zero segments.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []Segment {
	if len(p.segments) == 0 {
		return nil
	}
	segs := make([]Segment, len(p.segments))
	copy(segs, p.segments)
	return segs
}

// Append returns a new path with the given segments added. The receiver is
// unchanged.
func (p Path) Append(segments ...Segment) Path {
	segs := make([]Segment, 0, len(p.segments)+len(segments))
	segs = append(segs, p.segments...)
	segs = append(segs, segments...)
	return Path{segments: segs}
}

// Child returns a new path extended by a mapping-key segment.
func (p Path) Child(key string) Path {
	return p.Append(Key(key))
}

// Elem returns a new path extended by a sequence-index segment.
func (p Path) Elem(i int) Path {
	return p.Append(Index(i))
}

// Equal reports whether two paths have the same segment sequence.
func (p Path) Equal(o Path) bool {
	if len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

// String renders the path in dotted form. The result round-trips through
// ParsePath and serves as the canonical map key for a path, e.g. in
// provenance lookups.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	for i, seg := range p.segments {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
