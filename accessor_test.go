// FILE: stratum/accessor_test.go
package stratum

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTree() Value {
	server := Mapping()
	server.MapSet("host", String("localhost"))
	server.MapSet("port", Int(8080))
	server.MapSet("ratio", Float(0.75))
	server.MapSet("debug", Bool(true))
	server.MapSet("ports", Sequence(Int(80), Int(443)))

	tree := Mapping()
	tree.MapSet("server", server)
	return tree
}

// TestAccessorGet tests path resolution including failure modes
func TestAccessorGet(t *testing.T) {
	tree := testTree()
	acc := NewAccessor(&tree)

	t.Run("RootPath", func(t *testing.T) {
		v, err := acc.Get(Root)
		require.NoError(t, err)
		assert.Equal(t, KindMapping, v.Kind())
	})

	t.Run("NestedKey", func(t *testing.T) {
		v, err := acc.Get(MustParsePath("server.host"))
		require.NoError(t, err)
		assert.True(t, v.Equal(String("localhost")))
	})

	t.Run("SequenceIndex", func(t *testing.T) {
		v, err := acc.Get(MustParsePath("server.ports.1"))
		require.NoError(t, err)
		assert.True(t, v.Equal(Int(443)))
	})

	tests := []struct {
		name string
		path string
	}{
		{"AbsentKey", "server.missing"},
		{"KeyThroughScalar", "server.port.inner"},
		{"IndexOutOfRange", "server.ports.5"},
		{"IndexAgainstMapping", "server.0"},
		{"KeyAgainstSequence", "server.ports.first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := acc.Get(MustParsePath(tt.path))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))

			var pathErr *PathError
			require.True(t, errors.As(err, &pathErr))
			assert.Equal(t, tt.path, pathErr.Path.String())
		})
	}
}

// TestCoercionBoundary tests the fixed, narrow coercion table
func TestCoercionBoundary(t *testing.T) {
	tree := testTree()
	acc := NewAccessor(&tree)

	t.Run("IntWidensToFloat", func(t *testing.T) {
		f, err := acc.Float64(MustParsePath("server.port"))
		require.NoError(t, err)
		assert.Equal(t, 8080.0, f)
	})

	t.Run("FloatStaysFloat", func(t *testing.T) {
		f, err := acc.Float64(MustParsePath("server.ratio"))
		require.NoError(t, err)
		assert.Equal(t, 0.75, f)
	})

	t.Run("ExactMatches", func(t *testing.T) {
		b, err := acc.Bool(MustParsePath("server.debug"))
		require.NoError(t, err)
		assert.True(t, b)

		i, err := acc.Int64(MustParsePath("server.port"))
		require.NoError(t, err)
		assert.Equal(t, int64(8080), i)

		s, err := acc.String(MustParsePath("server.host"))
		require.NoError(t, err)
		assert.Equal(t, "localhost", s)
	})

	rejections := []struct {
		name     string
		get      func() error
		expected Kind
		found    Kind
	}{
		{"IntToBool", func() error { _, err := acc.Bool(MustParsePath("server.port")); return err }, KindBool, KindInt},
		{"FloatToBool", func() error { _, err := acc.Bool(MustParsePath("server.ratio")); return err }, KindBool, KindFloat},
		{"FloatToInt", func() error { _, err := acc.Int64(MustParsePath("server.ratio")); return err }, KindInt, KindFloat},
		{"IntToString", func() error { _, err := acc.String(MustParsePath("server.port")); return err }, KindString, KindInt},
		{"StringToBool", func() error { _, err := acc.Bool(MustParsePath("server.host")); return err }, KindBool, KindString},
		{"StringToFloat", func() error { _, err := acc.Float64(MustParsePath("server.host")); return err }, KindFloat, KindString},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.get()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTypeMismatch))

			var pathErr *PathError
			require.True(t, errors.As(err, &pathErr))
			assert.Equal(t, tt.expected, pathErr.Expected)
			assert.Equal(t, tt.found, pathErr.Found)
		})
	}
}

// TestAccessorSet tests intermediate creation and mismatch detection
func TestAccessorSet(t *testing.T) {
	t.Run("CreatesIntermediateMappings", func(t *testing.T) {
		tree := Mapping()
		acc := NewAccessor(&tree)

		require.NoError(t, acc.Set(MustParsePath("a.b.c"), Int(1)))

		v, err := acc.Get(MustParsePath("a.b.c"))
		require.NoError(t, err)
		assert.True(t, v.Equal(Int(1)))
	})

	t.Run("CreatesThroughNull", func(t *testing.T) {
		tree := Mapping()
		tree.MapSet("a", Null())
		acc := NewAccessor(&tree)

		require.NoError(t, acc.Set(MustParsePath("a.b"), String("x")))

		v, err := acc.Get(MustParsePath("a.b"))
		require.NoError(t, err)
		assert.True(t, v.Equal(String("x")))
	})

	t.Run("CreatesSequenceForIndexSegment", func(t *testing.T) {
		tree := Mapping()
		acc := NewAccessor(&tree)

		require.NoError(t, acc.Set(MustParsePath("list.0"), Int(10)))
		require.NoError(t, acc.Set(MustParsePath("list.1"), Int(20)))

		v, err := acc.Get(MustParsePath("list"))
		require.NoError(t, err)
		assert.True(t, v.Equal(Sequence(Int(10), Int(20))))
	})

	t.Run("AppendAtLength", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		require.NoError(t, acc.Set(MustParsePath("server.ports.2"), Int(8443)))

		v, err := acc.Get(MustParsePath("server.ports"))
		require.NoError(t, err)
		assert.True(t, v.Equal(Sequence(Int(80), Int(443), Int(8443))))
	})

	t.Run("IndexBeyondLength", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		err := acc.Set(MustParsePath("server.ports.5"), Int(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("FailureKeepsCreatedIntermediates", func(t *testing.T) {
		tree := Mapping()
		acc := NewAccessor(&tree)

		err := acc.Set(MustParsePath("x.5"), Int(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))

		// Descent is not rolled back: x was created as an empty sequence
		// before index 5 failed to resolve.
		v, err := acc.Get(MustParsePath("x"))
		require.NoError(t, err)
		assert.True(t, v.Equal(Sequence()))
	})

	t.Run("MismatchOnConcreteIntermediate", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		err := acc.Set(MustParsePath("server.host.inner"), Int(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))

		var pathErr *PathError
		require.True(t, errors.As(err, &pathErr))
		assert.Equal(t, KindMapping, pathErr.Expected)
		assert.Equal(t, KindString, pathErr.Found)
	})

	t.Run("IndexSegmentOnMapping", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		err := acc.Set(MustParsePath("server.0"), Int(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("RootReplacesTree", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		require.NoError(t, acc.Set(Root, Int(7)))
		assert.True(t, tree.Equal(Int(7)))
	})

	t.Run("SetStoresClone", func(t *testing.T) {
		tree := Mapping()
		acc := NewAccessor(&tree)

		src := Sequence(Int(1))
		require.NoError(t, acc.Set(MustParsePath("list"), src))
		src.Append(Int(2))

		v, err := acc.Get(MustParsePath("list"))
		require.NoError(t, err)
		assert.Equal(t, 1, v.Len())
	})
}

// TestSetGetRoundTrip tests that re-setting a value already at a path
// leaves the tree structurally unchanged
func TestSetGetRoundTrip(t *testing.T) {
	tree := testTree()
	before := tree.Clone()
	acc := NewAccessor(&tree)

	for _, expr := range []string{"server.host", "server.ports", "server", "server.ports.0"} {
		path := MustParsePath(expr)
		v, err := acc.Get(path)
		require.NoError(t, err)
		require.NoError(t, acc.Set(path, *v))
	}

	assert.True(t, tree.Equal(before))
}

// TestAccessorRemove tests removal semantics for both container kinds
func TestAccessorRemove(t *testing.T) {
	t.Run("MappingKeyPreservesOrder", func(t *testing.T) {
		tree := Mapping()
		tree.MapSet("a", Int(1))
		tree.MapSet("b", Int(2))
		tree.MapSet("c", Int(3))
		acc := NewAccessor(&tree)

		old, err := acc.Remove(MustParsePath("b"))
		require.NoError(t, err)
		assert.True(t, old.Equal(Int(2)))
		assert.Equal(t, []string{"a", "c"}, tree.MapKeys())
	})

	t.Run("SequenceElementShiftsIndices", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		old, err := acc.Remove(MustParsePath("server.ports.0"))
		require.NoError(t, err)
		assert.True(t, old.Equal(Int(80)))

		v, err := acc.Get(MustParsePath("server.ports.0"))
		require.NoError(t, err)
		assert.True(t, v.Equal(Int(443)))
	})

	t.Run("AbsentPath", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		_, err := acc.Remove(MustParsePath("server.missing"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = acc.Remove(MustParsePath("missing.deeper"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("RootNotRemovable", func(t *testing.T) {
		tree := testTree()
		acc := NewAccessor(&tree)

		_, err := acc.Remove(Root)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
