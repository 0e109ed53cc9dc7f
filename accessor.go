// File: stratum/accessor.go
package stratum

// Accessor provides typed, path-addressed get/set/remove operations over a
// Value tree. It wraps any tree, usually a MergedConfig's, but any
// standalone Value works. All side effects are confined to the wrapped
// tree; an accessor never triggers a merge.
//
// Coercion is fixed and narrow: Int widens to Float on request, and nothing
// else crosses variants. There is no stringification fallback.
type Accessor struct {
	root *Value
}

// NewAccessor returns an accessor over the given tree.
func NewAccessor(root *Value) *Accessor {
	return &Accessor{root: root}
}

// Get resolves path and returns a pointer to the value inside the tree. It
// fails with a *PathError wrapping ErrNotFound if any segment cannot be
// resolved: a key segment against a non-mapping, an absent key, an index
// segment against a non-sequence, or an out-of-range index.
func (a *Accessor) Get(path Path) (*Value, error) {
	cur := a.root
	for _, seg := range path.segments {
		var ref *Value
		if seg.isIndex {
			ref = cur.elemRef(seg.index)
		} else {
			ref = cur.entryRef(seg.key)
		}
		if ref == nil {
			return nil, notFoundErr("get", path)
		}
		cur = ref
	}
	return cur, nil
}

// Bool returns the boolean at path. Any other variant is a type mismatch.
func (a *Accessor) Bool(path Path) (bool, error) {
	v, err := a.Get(path)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, mismatchErr("get", path, KindBool, v.Kind())
	}
	return b, nil
}

// Int64 returns the integer at path. Floats are not narrowed.
func (a *Accessor) Int64(path Path) (int64, error) {
	v, err := a.Get(path)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, mismatchErr("get", path, KindInt, v.Kind())
	}
	return i, nil
}

// Float64 returns the float at path. An integer widens to float; this is
// the only cross-variant coercion the accessor performs.
func (a *Accessor) Float64(path Path) (float64, error) {
	v, err := a.Get(path)
	if err != nil {
		return 0, err
	}
	if f, ok := v.AsFloat(); ok {
		return f, nil
	}
	if i, ok := v.AsInt(); ok {
		return float64(i), nil
	}
	return 0, mismatchErr("get", path, KindFloat, v.Kind())
}

// String returns the string at path. No other variant is stringified.
func (a *Accessor) String(path Path) (string, error) {
	v, err := a.Get(path)
	if err != nil {
		return "", err
	}
	s, ok := v.AsString()
	if !ok {
		return "", mismatchErr("get", path, KindString, v.Kind())
	}
	return s, nil
}

// Set writes a clone of value at path. Intermediate mappings and sequences
// are created where the slot is absent or null; an intermediate holding an
// incompatible concrete value is a type mismatch. Descending into a
// sequence, an index equal to the current length appends; a larger index is
// not found. Setting the root path replaces the whole tree.
//
// Set is not atomic: intermediates created while descending stay in the
// tree when a later segment fails.
func (a *Accessor) Set(path Path, value Value) error {
	cur := a.root
	for i, seg := range path.segments {
		last := i == len(path.segments)-1

		if seg.isIndex {
			if cur.IsNull() {
				*cur = Sequence()
			}
			if cur.Kind() != KindSequence {
				return mismatchErr("set", path, KindSequence, cur.Kind())
			}
			n := cur.Len()
			switch {
			case seg.index >= 0 && seg.index < n:
				if last {
					*cur.elemRef(seg.index) = value.Clone()
					return nil
				}
				cur = cur.elemRef(seg.index)
			case seg.index == n:
				if last {
					cur.Append(value.Clone())
					return nil
				}
				cur.Append(Null())
				cur = cur.elemRef(n)
			default:
				return notFoundErr("set", path)
			}
			continue
		}

		if cur.IsNull() {
			*cur = Mapping()
		}
		if cur.Kind() != KindMapping {
			return mismatchErr("set", path, KindMapping, cur.Kind())
		}
		if last {
			cur.MapSet(seg.key, value.Clone())
			return nil
		}
		cur = cur.ensureEntry(seg.key)
	}

	// Zero segments address the root: replace the whole tree.
	*a.root = value.Clone()
	return nil
}

// Remove deletes the value at path and returns it. Removing a mapping key
// preserves the order of the remaining keys; removing a sequence element
// shifts subsequent indices down. The root cannot be removed.
func (a *Accessor) Remove(path Path) (Value, error) {
	if path.IsRoot() {
		return Value{}, notFoundErr("remove", path)
	}

	parent, err := a.Get(NewPath(path.segments[:len(path.segments)-1]...))
	if err != nil {
		return Value{}, notFoundErr("remove", path)
	}

	seg := path.segments[len(path.segments)-1]
	if seg.isIndex {
		if parent.Kind() != KindSequence || seg.index < 0 || seg.index >= parent.Len() {
			return Value{}, notFoundErr("remove", path)
		}
		old := parent.seq[seg.index]
		parent.seq = append(parent.seq[:seg.index], parent.seq[seg.index+1:]...)
		return old, nil
	}

	old, ok := parent.MapDelete(seg.key)
	if !ok {
		return Value{}, notFoundErr("remove", path)
	}
	return old, nil
}
