// File: stratum/merge.go
package stratum

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// FailurePolicy decides how the merger treats a source whose snapshot
// fails. It is a merge-time parameter, not a property of the source.
type FailurePolicy int

const (
	// Strict aborts the whole merge on the first unavailable source.
	Strict FailurePolicy = iota

	// SkipUnavailable logs the failure and treats the layer as an empty
	// mapping. This is the only place an error is ever absorbed.
	SkipUnavailable
)

// Options configures a merge pass.
type Options struct {
	Policy FailurePolicy

	// Logger receives a warning for every layer skipped under
	// SkipUnavailable. Nil disables logging.
	Logger *zerolog.Logger
}

// MergedConfig is the output of a merge pass: one owned tree plus
// provenance metadata mapping each leaf path to the name of the source that
// contributed its final value. It is replaced wholesale by the next merge
// pass, never patched incrementally.
//
// Once produced, concurrent readers may share it; mutation through the
// accessor methods requires exclusive access, enforced by the caller.
type MergedConfig struct {
	tree       Value
	provenance map[string]string
}

// Merge folds the snapshots of the given sources, ordered from lowest to
// highest precedence, into a single tree:
//
//   - mapping into mapping merges deeply, key by key;
//   - an incoming sequence replaces the accumulated sequence wholesale;
//   - in every other case the incoming value replaces the accumulated one.
//
// The fold is a plain left-to-right pass over the explicit source order, so
// the result is deterministic for a fixed list of snapshots.
func Merge(sources []Source, opts Options) (*MergedConfig, error) {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	acc := Mapping()
	prov := make(map[string]string)

	for _, src := range sources {
		snapshot, err := src.Snapshot()
		if err != nil {
			if opts.Policy == SkipUnavailable && errors.Is(err, ErrSourceUnavailable) {
				logger.Warn().Str("source", src.Name()).Err(err).Msg("skipping unavailable configuration source")
				continue
			}
			return nil, &MergeError{Source: src.Name(), Err: err}
		}
		fold(&acc, snapshot, src.Name(), Root, prov)
	}

	return &MergedConfig{tree: acc, provenance: prov}, nil
}

// fold merges the incoming value into the accumulator slot at the given
// path, updating provenance for every leaf the incoming layer touches.
func fold(dst *Value, in Value, source string, at Path, prov map[string]string) {
	if dst.Kind() == KindMapping && in.Kind() == KindMapping {
		for _, key := range in.MapKeys() {
			inVal, _ := in.MapGet(key)
			if ref := dst.entryRef(key); ref != nil {
				fold(ref, inVal, source, at.Child(key), prov)
				continue
			}
			dst.MapSet(key, inVal.Clone())
			recordLeaves(at.Child(key), inVal, source, prov)
		}
		return
	}

	// Sequences replace wholesale, as does any scalar or cross-variant
	// pairing. Provenance below the replaced slot is no longer valid.
	dropProvenance(at, prov)
	*dst = in.Clone()
	recordLeaves(at, in, source, prov)
}

// recordLeaves attributes every leaf of the subtree rooted at path to the
// given source. An empty mapping or sequence is itself a leaf.
func recordLeaves(at Path, v Value, source string, prov map[string]string) {
	switch v.Kind() {
	case KindMapping:
		keys := v.MapKeys()
		if len(keys) == 0 {
			prov[at.String()] = source
			return
		}
		for _, key := range keys {
			child, _ := v.MapGet(key)
			recordLeaves(at.Child(key), child, source, prov)
		}
	case KindSequence:
		if v.Len() == 0 {
			prov[at.String()] = source
			return
		}
		for i := 0; i < v.Len(); i++ {
			elem, _ := v.Index(i)
			recordLeaves(at.Elem(i), elem, source, prov)
		}
	default:
		prov[at.String()] = source
	}
}

// dropProvenance removes provenance entries at and below the given path.
func dropProvenance(at Path, prov map[string]string) {
	if at.IsRoot() {
		for key := range prov {
			delete(prov, key)
		}
		return
	}
	prefix := at.String()
	for key := range prov {
		if key == prefix || strings.HasPrefix(key, prefix+".") {
			delete(prov, key)
		}
	}
}

// Tree returns a deep copy of the merged tree, safe to hand to format
// encoders or to retain past the next merge pass.
func (m *MergedConfig) Tree() Value {
	return m.tree.Clone()
}

// Accessor returns a typed path-based view over the merged tree. Mutations
// through the accessor modify this MergedConfig and never trigger a
// re-merge.
func (m *MergedConfig) Accessor() *Accessor {
	return NewAccessor(&m.tree)
}

// Origin returns the name of the source that contributed the final value at
// the given leaf path. The second result is false if no source set a leaf
// there.
func (m *MergedConfig) Origin(path Path) (string, bool) {
	source, ok := m.provenance[path.String()]
	return source, ok
}

// Provenance returns a copy of the full leaf-path to source-name map.
func (m *MergedConfig) Provenance() map[string]string {
	out := make(map[string]string, len(m.provenance))
	for path, source := range m.provenance {
		out[path] = source
	}
	return out
}

// Get returns the value at path. See Accessor.Get.
func (m *MergedConfig) Get(path Path) (*Value, error) {
	return m.Accessor().Get(path)
}

// Bool returns the boolean at path. See Accessor.Bool.
func (m *MergedConfig) Bool(path Path) (bool, error) {
	return m.Accessor().Bool(path)
}

// Int64 returns the integer at path. See Accessor.Int64.
func (m *MergedConfig) Int64(path Path) (int64, error) {
	return m.Accessor().Int64(path)
}

// Float64 returns the float at path. See Accessor.Float64.
func (m *MergedConfig) Float64(path Path) (float64, error) {
	return m.Accessor().Float64(path)
}

// String returns the string at path. See Accessor.String.
func (m *MergedConfig) String(path Path) (string, error) {
	return m.Accessor().String(path)
}

// Set writes a value at path. See Accessor.Set.
func (m *MergedConfig) Set(path Path, value Value) error {
	return m.Accessor().Set(path, value)
}

// Remove deletes the value at path and returns it. See Accessor.Remove.
func (m *MergedConfig) Remove(path Path) (Value, error) {
	return m.Accessor().Remove(path)
}
