// File: stratum/convert.go
package stratum

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"
)

// FromAny converts the output of a format decoder (map[string]any trees as
// produced by the toml, yaml and json packages) into a Value tree.
// json.Number is mapped to Int when it parses as an integer and to Float
// otherwise; time.Time is carried as an RFC 3339 string. Unsupported types
// are an error, never silently dropped.
func FromAny(in any) (Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v.Clone(), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return uintValue(uint64(v))
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return uintValue(v)
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert number %q: %w", v.String(), err)
		}
		return Float(f), nil
	case time.Time:
		return String(v.Format(time.RFC3339)), nil
	case []any:
		out := Sequence()
		for i, elem := range v {
			ev, err := FromAny(elem)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Append(ev)
		}
		return out, nil
	case map[string]any:
		out := Mapping()
		for _, key := range sortedKeys(v) {
			mv, err := FromAny(v[key])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			out.MapSet(key, mv)
		}
		return out, nil
	}

	// Decoders occasionally produce concrete slice or map types, e.g.
	// []map[string]any for TOML arrays of tables.
	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := Sequence()
		for i := 0; i < rv.Len(); i++ {
			ev, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Append(ev)
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("cannot convert map with %s keys", rv.Type().Key())
		}
		tmp := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			tmp[iter.Key().String()] = iter.Value().Interface()
		}
		return FromAny(tmp)
	}

	return Value{}, fmt.Errorf("cannot convert type %T to a value", in)
}

// uintValue guards the uint64 to int64 conversion against overflow.
func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("unsigned integer %d overflows int64", u)
	}
	return Int(int64(u)), nil
}

// sortedKeys returns map keys in lexical order so FromAny output is
// deterministic across runs.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the value tree back into the plain Go representation
// consumed by format encoders and mapstructure: nil, bool, int64, float64,
// string, []any and map[string]any. Mapping key order is not carried over.
func (v Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindSequence:
		out := make([]any, len(v.seq))
		for i := range v.seq {
			out[i] = v.seq[i].Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.keys))
		for pos, key := range v.keys {
			out[key] = v.vals[pos].Interface()
		}
		return out
	default:
		return nil
	}
}
