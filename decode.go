// File: stratum/decode.go
package stratum

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the subtree under basePath into the target struct or map.
// The target must be a non-nil pointer. Struct fields are matched through
// the "toml" tag; strings decode into time.Duration values and
// comma-separated strings into slices.
func (m *MergedConfig) Scan(basePath string, target any) error {
	path, err := ParsePath(basePath)
	if err != nil {
		return err
	}
	return scanValue(m.Accessor(), path, target)
}

// Scan decodes the subtree at path into the target struct or map. See
// MergedConfig.Scan.
func (a *Accessor) Scan(path Path, target any) error {
	return scanValue(a, path, target)
}

func scanValue(a *Accessor, path Path, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	section, err := a.Get(path)
	if err != nil {
		return err
	}
	if section.Kind() != KindMapping {
		return mismatchErr("scan", path, KindMapping, section.Kind())
	}

	sectionMap, ok := section.Interface().(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("failed to scan section %q into %T: %w", path, target, err)
	}

	return nil
}
