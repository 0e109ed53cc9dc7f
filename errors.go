// File: stratum/errors.go
package stratum

import (
	"errors"
	"fmt"
)

// Sentinel errors for branching with errors.Is. The typed errors below wrap
// these and add the context needed to render a precise diagnostic.
var (
	// ErrNotFound reports that a path segment could not be resolved.
	ErrNotFound = errors.New("value not found")

	// ErrTypeMismatch reports that a value holds a different variant than
	// the operation requires.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrSourceUnavailable reports that a source cannot currently produce a
	// snapshot. Source implementations wrap it; the merger branches on it.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// SyntaxError reports a malformed path expression. It is always surfaced to
// the caller and never recovered locally.
type SyntaxError struct {
	Expr   string // the full expression being parsed
	Pos    int    // byte offset of the offending segment
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid path %q at offset %d: %s", e.Expr, e.Pos, e.Reason)
}

// PathError reports a failed path operation on a Value tree. Err is one of
// the sentinel errors, so callers can branch with errors.Is while the
// struct carries the path and, for mismatches, the expected and found
// kinds.
type PathError struct {
	Op       string // "get", "set" or "remove"
	Path     Path
	Expected Kind // valid when Err is ErrTypeMismatch
	Found    Kind // valid when Err is ErrTypeMismatch
	Err      error
}

func (e *PathError) Error() string {
	if errors.Is(e.Err, ErrTypeMismatch) {
		return fmt.Sprintf("%s %q: %v: expected %s, found %s", e.Op, e.Path, e.Err, e.Expected, e.Found)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func notFoundErr(op string, path Path) error {
	return &PathError{Op: op, Path: path, Err: ErrNotFound}
}

func mismatchErr(op string, path Path, expected, found Kind) error {
	return &PathError{Op: op, Path: path, Expected: expected, Found: found, Err: ErrTypeMismatch}
}

// MergeError reports a merge pass aborted under the Strict failure policy.
// It wraps the failing source's error and names the source.
type MergeError struct {
	Source string
	Err    error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge failed: source %q: %v", e.Source, e.Err)
}

func (e *MergeError) Unwrap() error {
	return e.Err
}
