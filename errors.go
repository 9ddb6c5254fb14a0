package unionize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/unionize/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Build-time configuration
	CodeEmptySchema   = "empty_schema"
	CodeInvalidTag    = "invalid_tag"
	CodeReservedTag   = "reserved_tag"
	CodeDuplicateTag  = "duplicate_tag"
	CodeInvalidConfig = "invalid_config"
	CodeMergedOpaque  = "merged_opaque"
	// Payloads
	CodePayloadType   = "payload_type"
	CodePayloadDecode = "payload_decode"
	CodePatchField    = "patch_field"
	// Case sets (match/transform/update construction)
	CodeNilHandler    = "nil_handler"
	CodeUnknownTag    = "unknown_tag"
	CodeDuplicateCase = "duplicate_case"
	CodeNonExhaustive = "non_exhaustive"
	// Dispatch
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeCastMismatch         = "cast_mismatch"
	// Decoding
	CodeDuplicateKey = "duplicate_key"
)

// Issue represents a single contract violation.
type Issue struct {
	Path    string // JSON Pointer (for example: /cases/circle).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, offending type names, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"tag":"x", "want":"int"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. non_exhaustive at /cases/y
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Hint != "" {
			fmt.Fprintf(b, " (%s)", it.Hint)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can see through Issues.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// Has reports whether any issue carries the given code.
func (iss Issues) Has(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
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

// issueAt builds an Issue with a translated message.
func issueAt(path, code, hint string, params map[string]any) Issue {
	data := make(map[string]string, len(params))
	for k, v := range params {
		data[k] = fmt.Sprint(v)
	}
	return Issue{Path: path, Code: code, Message: i18n.T(code, data), Hint: hint, Params: params}
}

// CastError reports that a variant was narrowed to a tag it does not carry.
type CastError struct {
	Actual   string // tag carried by the variant
	Expected string // tag demanded by the caller
}

func (e *CastError) Error() string {
	return fmt.Sprintf("unionize: %s: variant is %q, not %q",
		i18n.T(CodeCastMismatch, map[string]string{"actual": e.Actual, "expected": e.Expected}),
		e.Actual, e.Expected)
}

// Code returns CodeCastMismatch.
func (e *CastError) Code() string { return CodeCastMismatch }

// IsCastError reports whether err is (or wraps) a *CastError.
func IsCastError(err error) bool {
	var ce *CastError
	return errors.As(err, &ce)
}
