package ber

import (
	"errors"
	"fmt"
	"io"
)

//go:generate stringer -type=Kind -trimprefix=Kind

// Kind classifies a codec failure.
type Kind uint8

const (
	// KindMalformedTag reports a tag that exceeds the tag width or is cut
	// short by the end of input.
	KindMalformedTag Kind = iota + 1
	// KindMalformedLength reports an indefinite, oversized or truncated
	// length field.
	KindMalformedLength
	// KindTruncated reports a declared length larger than the remaining input.
	KindTruncated
	// KindOverflow reports a length, integer or OID component outside the
	// range of its target type.
	KindOverflow
	// KindInvalidValue reports content that violates the shape of its kind.
	KindInvalidValue
	// KindResourceExhausted reports an allocator failure.
	KindResourceExhausted
	// KindUsage reports a caller contract violation rather than bad input.
	KindUsage
)

// Sentinels matched by errors.Is against any *Error of the same Kind.
var (
	ErrMalformedTag      = errors.New("ber: malformed tag")
	ErrMalformedLength   = errors.New("ber: malformed length")
	ErrTruncated         = errors.New("ber: unexpected end of data")
	ErrOverflow          = errors.New("ber: value overflow")
	ErrInvalidValue      = errors.New("ber: invalid value encoding")
	ErrResourceExhausted = errors.New("ber: allocation failed")
	ErrUsage             = errors.New("ber: usage error")
)

// Detail errors carried in Error.Err.
var (
	// ErrUnexpectedEOF is returned when the decoder encounters truncated data.
	ErrUnexpectedEOF = ErrTruncated

	// ErrIndefiniteLength is returned when an indefinite length is decoded.
	ErrIndefiniteLength = errors.New("ber: indefinite length not supported")

	// ErrTagMismatch is returned when the expected tag does not match the actual tag.
	ErrTagMismatch = errors.New("ber: tag mismatch")

	// ErrNoElements is returned by FirstElement and NextElement when an
	// aggregate has no further members.
	ErrNoElements = errors.New("ber: no more elements")

	// ErrStaleView is returned when a View outlives the cursor state it
	// was taken from.
	ErrStaleView = errors.New("ber: view used after cursor was released")

	// ErrShortBuffer is returned when a caller-supplied destination is too small.
	ErrShortBuffer = io.ErrShortBuffer
)

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedTag:
		return ErrMalformedTag
	case KindMalformedLength:
		return ErrMalformedLength
	case KindTruncated:
		return ErrTruncated
	case KindOverflow:
		return ErrOverflow
	case KindInvalidValue:
		return ErrInvalidValue
	case KindResourceExhausted:
		return ErrResourceExhausted
	case KindUsage:
		return ErrUsage
	}
	return nil
}

// Error provides detailed information about a codec failure.
type Error struct {
	Kind    Kind   // Failure class
	Offset  int    // Byte offset where the error occurred
	Message string // Human-readable error description
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Err != e.Kind.sentinel() {
		return fmt.Sprintf("ber: %s at offset %d: %s: %v", e.Kind, e.Offset, e.Message, e.Err)
	}
	return fmt.Sprintf("ber: %s at offset %d: %s", e.Kind, e.Offset, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's Kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// newError creates a new Error with the given parameters.
func newError(kind Kind, offset int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Offset:  offset,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// TagMismatchError provides detailed information about a tag mismatch.
type TagMismatchError struct {
	Offset   int
	Expected Tag
	Actual   Tag
}

// Error implements the error interface.
func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("ber: tag mismatch at offset %d: expected %s, got %s",
		e.Offset, e.Expected, e.Actual)
}

// Is allows TagMismatchError to match ErrTagMismatch and ErrInvalidValue with errors.Is.
func (e *TagMismatchError) Is(target error) bool {
	return target == ErrTagMismatch || target == ErrInvalidValue
}
