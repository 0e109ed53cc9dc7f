// File: stratum/io.go
package stratum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EncodeTo writes the merged tree to w in the given format ("toml", "yaml"
// or "json"). TOML requires the tree to be a mapping at the top level.
func (m *MergedConfig) EncodeTo(w io.Writer, format string) error {
	switch format {
	case "toml":
		if m.tree.Kind() != KindMapping {
			return fmt.Errorf("cannot encode %s root as TOML", m.tree.Kind())
		}
		if err := toml.NewEncoder(w).Encode(m.tree.Interface()); err != nil {
			return fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(m.tree.Interface()); err != nil {
			return fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m.tree.Interface()); err != nil {
			return fmt.Errorf("failed to marshal config data to JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", format)
	}
}

// WriteFile persists the merged tree to path, choosing the format from the
// file extension. The write is atomic: data goes to a temporary file in the
// same directory which is then renamed over the destination.
func (m *MergedConfig) WriteFile(path string) error {
	format := detectFileFormat(path)
	if format == "" {
		return fmt.Errorf("unable to determine config format for file %q", path)
	}

	var buf bytes.Buffer
	if err := m.EncodeTo(&buf, format); err != nil {
		return err
	}

	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile stages data in a temporary file next to path and renames
// it into place once fully flushed, so readers never observe a partial
// write. The temporary file is removed on any failure.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to stage config data: %w", err)
	}

	// CreateTemp files are 0600; widen to the usual config file mode.
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %q: %w", path, err)
	}
	return nil
}
