// File: stratum/value.go
package stratum

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String returns the lowercase name of the kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a format-agnostic configuration datum: a tagged union over null,
// bool, int, float, string, sequence and mapping variants. Sequence and
// mapping variants own their children by value, so a tree is always finite
// and acyclic. Assigning a Value shares underlying storage the way slices
// do; use Clone for an independent tree.
//
// Mapping variants preserve key insertion order and never contain duplicate
// keys: MapSet on an existing key replaces the value in place.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	keys []string
	vals []Value
	idx  map[string]int
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a floating-point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Sequence returns a sequence value holding the given elements in order.
func Sequence(elems ...Value) Value {
	v := Value{kind: KindSequence}
	if len(elems) > 0 {
		v.seq = append(v.seq, elems...)
	}
	return v
}

// Mapping returns an empty mapping value.
func Mapping() Value {
	return Value{kind: KindMapping, idx: make(map[string]int)}
}

// Kind reports the variant tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean payload. The second result is false if the
// value is not a bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer payload. The second result is false if the
// value is not an int.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns the float payload. The second result is false if the
// value is not a float.
func (v Value) AsFloat() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// AsString returns the string payload. The second result is false if the
// value is not a string.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Len returns the element count of a sequence or the key count of a
// mapping, and 0 for every other variant.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Index returns the sequence element at i. The second result is false if
// the value is not a sequence or i is out of range.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return Value{}, false
	}
	return v.seq[i], true
}

// Append adds elements to the end of a sequence. It is a no-op on any
// other variant.
func (v *Value) Append(elems ...Value) {
	if v.kind != KindSequence {
		return
	}
	v.seq = append(v.seq, elems...)
}

// MapGet returns the value stored under key. The second result is false if
// the value is not a mapping or the key is absent.
func (v Value) MapGet(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	pos, ok := v.idx[key]
	if !ok {
		return Value{}, false
	}
	return v.vals[pos], true
}

// MapSet stores val under key. A new key is appended in insertion order; an
// existing key keeps its position and has its value replaced. It is a
// no-op on any other variant.
func (v *Value) MapSet(key string, val Value) {
	if v.kind != KindMapping {
		return
	}
	if v.idx == nil {
		v.idx = make(map[string]int)
	}
	if pos, ok := v.idx[key]; ok {
		v.vals[pos] = val
		return
	}
	v.idx[key] = len(v.keys)
	v.keys = append(v.keys, key)
	v.vals = append(v.vals, val)
}

// MapDelete removes key from a mapping and returns the prior value. The
// order of the remaining keys is preserved. The second result is false if
// the value is not a mapping or the key is absent.
func (v *Value) MapDelete(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	pos, ok := v.idx[key]
	if !ok {
		return Value{}, false
	}
	old := v.vals[pos]
	v.keys = append(v.keys[:pos], v.keys[pos+1:]...)
	v.vals = append(v.vals[:pos], v.vals[pos+1:]...)
	delete(v.idx, key)
	for i := pos; i < len(v.keys); i++ {
		v.idx[v.keys[i]] = i
	}
	return old, true
}

// MapKeys returns the mapping keys in insertion order, or nil for any other
// variant. The returned slice is a copy.
func (v Value) MapKeys() []string {
	if v.kind != KindMapping || len(v.keys) == 0 {
		return nil
	}
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Equal reports structural equality. Two values are equal iff they hold the
// same variant and, recursively, equal children: element-wise and
// order-dependent for sequences, per-key and order-independent for
// mappings. Int and Float are distinct variants and never compare equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for pos, key := range v.keys {
			other, ok := o.MapGet(key)
			if !ok || !v.vals[pos].Equal(other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy that shares no storage with the receiver.
func (v Value) Clone() Value {
	switch v.kind {
	case KindSequence:
		out := Value{kind: KindSequence}
		if len(v.seq) > 0 {
			out.seq = make([]Value, len(v.seq))
			for i := range v.seq {
				out.seq[i] = v.seq[i].Clone()
			}
		}
		return out
	case KindMapping:
		out := Mapping()
		for pos, key := range v.keys {
			out.MapSet(key, v.vals[pos].Clone())
		}
		return out
	default:
		return v
	}
}

// elemRef returns a pointer to the sequence element at i for in-place
// mutation by the accessor.
func (v *Value) elemRef(i int) *Value {
	if v.kind != KindSequence || i < 0 || i >= len(v.seq) {
		return nil
	}
	return &v.seq[i]
}

// entryRef returns a pointer to the mapping value stored under key for
// in-place mutation by the accessor.
func (v *Value) entryRef(key string) *Value {
	if v.kind != KindMapping {
		return nil
	}
	pos, ok := v.idx[key]
	if !ok {
		return nil
	}
	return &v.vals[pos]
}

// ensureEntry returns a pointer to the mapping value under key, inserting a
// null value first if the key is absent.
func (v *Value) ensureEntry(key string) *Value {
	if v.kind != KindMapping {
		return nil
	}
	if _, ok := v.idx[key]; !ok {
		v.MapSet(key, Null())
	}
	return &v.vals[v.idx[key]]
}
