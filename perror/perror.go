// Package perror names the error taxonomy exposed at the engine boundary:
// document open, image decode and page rendering all report failures as a
// `Kind` wrapped around the underlying cause, so callers can branch with
// `errors.Is(err, perror.MalformedImage)` instead of string matching.
//
// Grounded on the teacher's plain wrapped-error style (`fmt.Errorf("...: %w", err)`
// throughout reader/file and model/encryption*.go) generalized into a
// closed enum, since the teacher itself never needed to expose a taxonomy
// a caller could switch on (its reader.Read returns a bare error).
package perror

import "fmt"

// Kind is one of the six failure categories the engine exposes at its
// boundary (spec "Error Handling Design").
type Kind int

const (
	// NotFormat: magic bytes don't match any supported container.
	NotFormat Kind = iota
	// MalformedStructure: header, trailer, xref or object syntax violates
	// the format beyond the lenient recovery policy.
	MalformedStructure
	// MalformedImage: a required image marker/segment is missing, a table
	// reference is unbound, or a bitstream truncates mid-symbol.
	MalformedImage
	// UnsupportedFeature: encrypted with an unknown handler, progressive
	// or lossless JPEG, a J2K feature outside Part-1, or an unsupported
	// filter.
	UnsupportedFeature
	// Unauthorized: encryption is present but the supplied password fails
	// both the user and owner checks.
	Unauthorized
	// ResourceLimit: a recursion cap, ref-chain cap, or bounded allocation
	// ceiling was exceeded.
	ResourceLimit
)

func (k Kind) String() string {
	switch k {
	case NotFormat:
		return "not a supported format"
	case MalformedStructure:
		return "malformed structure"
	case MalformedImage:
		return "malformed image"
	case UnsupportedFeature:
		return "unsupported feature"
	case Unauthorized:
		return "unauthorized"
	case ResourceLimit:
		return "resource limit exceeded"
	default:
		return "unknown error"
	}
}

// Error pairs a Kind with the underlying cause and an optional free-form
// context string (which object, which marker, ...).
type Error struct {
	Kind    Kind
	Context string
	Err     error // optional, the wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Context != "" {
			return fmt.Sprintf("%s (%s): %v", e.Kind, e.Context, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s (%s)", e.Kind, e.Context)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether `target` names the same Kind, so callers may write
// errors.Is(err, perror.MalformedImage) directly against a bare Kind value.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Error lets a bare Kind be used on the right-hand side of errors.Is.
func (k Kind) Error() string { return k.String() }

// New builds an *Error with no wrapped cause.
func New(kind Kind, context string) error {
	return &Error{Kind: kind, Context: context}
}

// Wrap builds an *Error around an existing cause; returns nil if err is nil.
func Wrap(kind Kind, context string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Context: context, Err: err}
}
