package bsonskema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/bsonskema/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeNoBranch      = "no_branch"
	CodeDecodeFailed  = "decode_failed"
	CodeInvalidEnum   = "invalid_enum"
	CodeRequired      = "required"
	CodeHookFailed    = "hook_failed"
	CodeEncodeFailed  = "encode_failed"
	CodeUnresolvedRef = "unresolved_ref"
	CodeValidation    = "validation"
	CodeDuplicateKey  = "duplicate_key"
)

// Issue represents a single decode or encode failure.
type Issue struct {
	Path    string // Dotted path from the root value ("" for the root itself).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: expected kinds, offending key, etc.
	Cause   error  // Optional: underlying error.
}

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		path := it.Path
		if path == "" {
			path = "<root>"
		}
		// e.g. no_branch at items.2.price
		fmt.Fprintf(b, "%s at %s", it.Code, path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is sees through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// IsDeterministicFailure reports whether err stems from a deterministic decode
// in which no branch committed.
func IsDeterministicFailure(err error) bool { return HasCode(err, CodeNoBranch) }

// NewIssue builds a single-issue error at the root path with the translated
// message for code.
func NewIssue(code, hint string, cause error) Issues {
	return Issues{{Code: code, Message: i18n.T(code, nil), Hint: hint, Cause: cause}}
}

// ErrUnresolvedRef is the cause of issues raised by references that were never
// assigned a schema.
var ErrUnresolvedRef = errors.New("bsonskema: schema reference used before it was set")

// ConfigError reports a builder that cannot produce a schema, typically because
// a required part was never supplied. It is a programming error: Build returns
// it and MustBuild panics with it.
type ConfigError struct {
	Builder string // e.g. "scalar", "field \"name\"", "object".
	Field   string // The missing or conflicting part.
	Reason  string
}

func (e *ConfigError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "is required"
	}
	return fmt.Sprintf("bsonskema: %s builder: %s %s", e.Builder, e.Field, reason)
}

// IsConfigError reports whether err is (or wraps) a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
