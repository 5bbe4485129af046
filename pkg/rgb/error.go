package rgb

import "fmt"

// ErrorCode identifies a kind of error surfaced by the client core.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInternal is returned if internal consistency checks fail. In
	// practice this error should never be seen as it would mean there is an
	// error in the client logic.
	ErrInternal ErrorCode = iota

	// ErrTransport is returned when the backend channel is unreachable or a
	// message could not be sent or received.
	ErrTransport

	// ErrProtocol is returned when the backend answers with a reply whose
	// shape does not match the request that was issued.
	ErrProtocol

	// ErrEncoding is returned when a persisted record, a wire message or a
	// transaction template fails to encode or decode.
	ErrEncoding

	// ErrNotFound is returned when an identifier is absent from a store.
	ErrNotFound

	// ErrParse is returned when a text form (allocation, identifier,
	// configuration value) is malformed.
	ErrParse

	// ErrApplication is returned when the backend reports a failure. The
	// description carries the backend message verbatim.
	ErrApplication

	// ErrUnsupported is returned for operations the core does not handle,
	// such as address based invoice destinations.
	ErrUnsupported

	// ErrIO is returned for filesystem failures.
	ErrIO

	// ErrCorruptedFilename is returned when a stash directory contains a
	// record file whose name is not a valid identifier.
	ErrCorruptedFilename

	// numErrorCodes is the maximum error code number used in tests.  This
	// entry MUST be the last entry in the enum.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInternal:          "ErrInternal",
	ErrTransport:         "ErrTransport",
	ErrProtocol:          "ErrProtocol",
	ErrEncoding:          "ErrEncoding",
	ErrNotFound:          "ErrNotFound",
	ErrParse:             "ErrParse",
	ErrApplication:       "ErrApplication",
	ErrUnsupported:       "ErrUnsupported",
	ErrIO:                "ErrIO",
	ErrCorruptedFilename: "ErrCorruptedFilename",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error satisfies the error interface so that an ErrorCode can be used as the
// target of errors.Is.
func (e ErrorCode) Error() string {
	return e.String()
}

// Error identifies an error raised by the client core. It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific
// reason for the error by checking the underlying error code, and can still
// reach the wrapped cause when there is one.
type Error struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the ErrorCode of e.
func (e Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.ErrorCode
}

// NewError creates an Error given a set of arguments.
func NewError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// Errorf creates an Error with a formatted description.
func Errorf(c ErrorCode, format string, args ...any) Error {
	return Error{ErrorCode: c, Description: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error of kind c that wraps err. It returns nil if err
// is nil.
func WrapError(c ErrorCode, err error, desc string) error {
	if err == nil {
		return nil
	}
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is an Error with the
// provided error code, looking through wrapped errors.
func IsErrorCode(err error, c ErrorCode) bool {
	for err != nil {
		if e, ok := err.(Error); ok && e.ErrorCode == c {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
