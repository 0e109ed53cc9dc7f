// File: stratum/source.go
package stratum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Source is a named, prioritized producer of a Value-tree snapshot. The
// merger calls Snapshot at most once per merge pass and never assumes two
// snapshots from the same source are identical. A source that cannot
// currently produce data returns an error wrapping ErrSourceUnavailable;
// how that is handled is the merge-time failure policy's decision, not the
// source's.
//
// Snapshot is a synchronous call. Producers backed by asynchronous or
// I/O-bound collaborators must resolve to a completed snapshot before the
// merger is invoked.
type Source interface {
	Name() string
	Snapshot() (Value, error)
}

// StaticSource serves a fixed in-memory tree. It is the reference Source
// implementation and the natural carrier for application defaults and
// programmatic overrides.
type StaticSource struct {
	name string
	tree Value
}

// NewStaticSource returns a source serving a clone of tree under the given
// diagnostic name.
func NewStaticSource(name string, tree Value) *StaticSource {
	return &StaticSource{name: name, tree: tree.Clone()}
}

func (s *StaticSource) Name() string {
	return s.name
}

// Snapshot returns an independent copy of the held tree.
func (s *StaticSource) Snapshot() (Value, error) {
	return s.tree.Clone(), nil
}

// FileSource reads a configuration file in TOML, YAML or JSON. The format
// is taken from the Format field if set, otherwise detected from the file
// extension and finally from the content itself. A file that is missing,
// unreadable or unparseable makes the layer unavailable rather than
// poisoning the whole merge.
type FileSource struct {
	name   string
	path   string
	Format string // "toml", "yaml" or "json"; empty means auto-detect
}

// NewFileSource returns a file-backed source for the given path.
func NewFileSource(name, path string) *FileSource {
	return &FileSource{name: name, path: path}
}

func (s *FileSource) Name() string {
	return s.name
}

func (s *FileSource) Snapshot() (Value, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Value{}, fmt.Errorf("%w: read %q: %v", ErrSourceUnavailable, s.path, err)
	}

	format := s.Format
	if format == "" {
		format = detectFileFormat(s.path)
		if format == "" {
			format = detectFormatFromContent(data)
		}
	}

	raw := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Value{}, fmt.Errorf("%w: parse TOML %q: %v", ErrSourceUnavailable, s.path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Value{}, fmt.Errorf("%w: parse YAML %q: %v", ErrSourceUnavailable, s.path, err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&raw); err != nil {
			return Value{}, fmt.Errorf("%w: parse JSON %q: %v", ErrSourceUnavailable, s.path, err)
		}
	default:
		return Value{}, fmt.Errorf("%w: unable to determine config format for %q", ErrSourceUnavailable, s.path)
	}

	tree, err := FromAny(raw)
	if err != nil {
		return Value{}, fmt.Errorf("%w: convert %q: %v", ErrSourceUnavailable, s.path, err)
	}
	return tree, nil
}

// EnvTransformFunc converts a stripped environment variable name to a
// dotted path expression.
type EnvTransformFunc func(name string) string

// EnvSource scans the process environment for variables carrying the given
// prefix and builds a tree from them: with prefix "MYAPP_", the variable
// MYAPP_SERVER_PORT=9090 contributes server.port = 9090. Values are parsed
// into bool, int and float scalars where they read as such, and kept as
// strings otherwise.
type EnvSource struct {
	name   string
	prefix string

	// Transform overrides the default name mapping (lowercase, underscores
	// to dots).
	Transform EnvTransformFunc
}

// NewEnvSource returns an environment-backed source scanning variables with
// the given prefix.
func NewEnvSource(name, prefix string) *EnvSource {
	return &EnvSource{name: name, prefix: prefix}
}

func (s *EnvSource) Name() string {
	return s.name
}

func (s *EnvSource) Snapshot() (Value, error) {
	transform := s.Transform
	if transform == nil {
		transform = defaultEnvTransform
	}

	nested := make(map[string]any)
	for _, kv := range os.Environ() {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 || !strings.HasPrefix(kv[:eq], s.prefix) {
			continue
		}
		name := kv[:eq][len(s.prefix):]
		if name == "" {
			continue
		}
		path := transform(name)
		if !isValidPathExpr(path) {
			continue
		}
		setNestedValue(nested, path, parseScalar(kv[eq+1:]))
	}

	return FromAny(nested)
}

// defaultEnvTransform maps SERVER_PORT to server.port.
func defaultEnvTransform(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "."))
}

// ArgsSource parses command-line arguments of the forms "--key.path=value",
// "--key.path value" and "--booleanflag" into a tree. Non-flag arguments
// are skipped; a malformed key makes the layer unavailable.
type ArgsSource struct {
	name string
	args []string
}

// NewArgsSource returns a source over the given argument list, typically
// os.Args[1:].
func NewArgsSource(name string, args []string) *ArgsSource {
	return &ArgsSource{name: name, args: args}
}

func (s *ArgsSource) Name() string {
	return s.name
}

func (s *ArgsSource) Snapshot() (Value, error) {
	nested, err := parseArgs(s.args)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return FromAny(nested)
}

// parseArgs processes command-line arguments into a nested map structure.
func parseArgs(args []string) (map[string]any, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		// Check for "--key=value" format
		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++ // Consume only this argument
		} else {
			keyPath = argContent
			// A flag followed by another flag or by nothing is boolean
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if !isValidPathExpr(keyPath) {
			return nil, fmt.Errorf("invalid command-line key %q", keyPath)
		}

		setNestedValue(result, keyPath, parseScalar(valueStr))
	}

	return result, nil
}

// parseScalar attempts to parse a string into bool, int64 or float64,
// falling back to the string itself. Only the literal tokens "true" and
// "false" read as booleans; ParseBool would also claim "1", "t" and
// friends, which must stay numeric or textual. Surrounding double quotes
// force a string interpretation.
func parseScalar(s string) any {
	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// setNestedValue sets a value in a nested map using a dot-notation path,
// creating intermediate maps as needed. A non-map intermediate is
// overwritten; within a single source layer the later assignment wins.
func setNestedValue(nested map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := nested

	for i := 0; i < len(segments)-1; i++ {
		segment := segments[i]
		if next, ok := current[segment].(map[string]any); ok {
			current = next
			continue
		}
		newMap := make(map[string]any)
		current[segment] = newMap
		current = newMap
	}

	current[segments[len(segments)-1]] = value
}

// isValidPathExpr checks every segment of a dotted expression against the
// bare-key grammar (ASCII letters, digits, underscores and dashes).
func isValidPathExpr(expr string) bool {
	if expr == "" {
		return false
	}
	for _, segment := range strings.Split(expr, ".") {
		if !isValidKeySegment(segment) {
			return false
		}
	}
	return true
}

// isValidKeySegment checks if a single path segment is a valid bare key.
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !(isLetter || isDigit || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

// detectFileFormat determines format from file extension.
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing.
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// Try YAML (superset of JSON, so check after JSON)
	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	// Try TOML last
	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	return ""
}
