package scaffold

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a generation failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig is an invalid descriptor, rejected before any file is touched.
	KindConfig
	// KindTemplate is a path with no registered template.
	KindTemplate
	// KindSubstitution is a placeholder left unresolved in rendered output.
	KindSubstitution
	// KindIO is a directory or file operation that failed.
	KindIO
	// KindExternal is a failed call to an outside capability (secret generation).
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "configuration error"
	case KindTemplate:
		return "template error"
	case KindSubstitution:
		return "substitution error"
	case KindIO:
		return "I/O error"
	case KindExternal:
		return "external error"
	default:
		return "error"
	}
}

var (
	ErrEmptyName       = errors.New("name is empty")
	ErrInvalidName     = errors.New("name is not a valid Python identifier")
	ErrNoTemplate      = errors.New("no template registered")
	ErrUnresolvedToken = errors.New("unresolved placeholder")
	ErrPathEscapesRoot = errors.New("path escapes the project root")
	ErrEmptySecret     = errors.New("secret source returned empty output")
)

// Error carries the kind, the operation and the offending path of a failure.
type Error struct {
	Kind        Kind
	Op          string
	Path        string
	Err         error
	Suggestions []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " %q", e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds an *Error whose cause is formatted from the arguments. A %w verb
// keeps the wrapped error reachable through errors.Is.
func Errorf(kind Kind, op, path, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches kind, operation and path to err. A nil err stays nil.
func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
