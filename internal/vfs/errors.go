package vfs

import "fmt"

// Kind classifies a vfs error for HTTP-status mapping and for errors.Is
// comparison, without leaking row ids, owner ids or server paths into the
// diagnostic text (the diagnostic is always safe to show verbatim).
type Kind int

const (
	// KindNotFound covers both "does not exist" and "caller lacks
	// visibility" — deliberately conflated to avoid leaking existence.
	KindNotFound Kind = iota
	KindAlreadyExists
	KindInvalidName
	KindInvalidPath
	KindUnauthorized
	KindConflict
	KindBadArgument
	KindBackendUnavailable
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalidName:
		return "invalid_name"
	case KindInvalidPath:
		return "invalid_path"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindBadArgument:
		return "bad_argument"
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the typed error surfaced by every engine and document-service
// operation. Diagnostic is safe to display verbatim to the caller.
type Error struct {
	Kind       Kind
	Diagnostic string
	cause      error
}

func (e *Error) Error() string {
	if e.Diagnostic == "" {
		return e.Kind.String()
	}
	return e.Diagnostic
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is(err, vfs.NotFound) etc. work without comparing pointers.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Diagnostic: fmt.Sprintf(format, args...)}
}

func wrapErr(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Diagnostic: fmt.Sprintf(format, args...), cause: cause}
}

// Sentinel values usable with errors.Is(err, vfs.NotFound).
var (
	NotFound            = &Error{Kind: KindNotFound, Diagnostic: "not found"}
	AlreadyExists       = &Error{Kind: KindAlreadyExists, Diagnostic: "already exists"}
	InvalidName         = &Error{Kind: KindInvalidName, Diagnostic: "invalid name"}
	InvalidPath         = &Error{Kind: KindInvalidPath, Diagnostic: "invalid path"}
	Unauthorized        = &Error{Kind: KindUnauthorized, Diagnostic: "unauthorized"}
	Conflict            = &Error{Kind: KindConflict, Diagnostic: "conflict"}
	BadArgument         = &Error{Kind: KindBadArgument, Diagnostic: "bad argument"}
	BackendUnavailable  = &Error{Kind: KindBackendUnavailable, Diagnostic: "backend unavailable"}
	Timeout             = &Error{Kind: KindTimeout, Diagnostic: "timeout"}
)
