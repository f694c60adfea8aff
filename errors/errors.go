package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned whenever an event is invalid and cannot be
	// handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned whenever a message is invalid and cannot
	// be used (ie. persisted).
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when there is a record already that has the same
	// unique key/index used
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned when application reaches a code path which should not
	// ever be reached if the code was written as expected by the framework
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value fails a not empty assertion
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an object is in invalid state
	ErrState = Register(10, "invalid state")

	// ErrType is returned whenever the type is not what was expected
	ErrType = Register(11, "invalid type")

	// ErrMetadata is returned when an entity or a message carries a missing
	// or unsupported metadata header.
	ErrMetadata = Register(12, "invalid metadata")

	// ErrAmount stands for invalid amount of whatever
	ErrAmount = Register(13, "invalid amount")

	// ErrInput stands for general input problems indication
	ErrInput = Register(14, "invalid input")

	// ErrDatabase is returned when a database operation fails.
	ErrDatabase = Register(15, "database")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrInsufficientFunds is returned when an account does not hold enough
	// funds to complete a transfer.
	ErrInsufficientFunds = Register(17, "insufficient funds")

	// ErrReference is returned when a record reference does not resolve to
	// an entity of the expected kind.
	ErrReference = Register(18, "invalid reference")

	// ErrIteratorDone is returned by an iterator when there are no more
	// values to return.
	ErrIteratorDone = Register(19, "iterator done")

	// ErrNetwork is returned when a remote node cannot be reached or
	// responds with a transport failure.
	ErrNetwork = Register(20, "network")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error. Codes are unique for the lifetime of the
// process and a second registration of the same code panics, so call it
// from package level variable declarations only.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Code 1 is reserved for unregistered, internal errors.
var usedCodes = map[uint32]*Error{1: nil}

// Error is a registered root error. Runtime errors wrap one of them so that
// clients receive a stable code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string    { return e.desc }
func (e Error) ABCICode() uint32 { return e.code }

// New wraps the root error with a description and a stack trace.
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Is reports whether err was created from this root error. A nil receiver
// matches nil errors only, typed nil pointers included.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	return walk(err, func(cause error) bool { return cause == e })
}

// Wrap annotates err. The stack trace is recorded once, at the innermost
// wrap. A nil err yields nil, so a function can end with
// "return errors.Wrap(err, ...)".
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace for %+v and the message otherwise.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", e.Error(), stackTrace(e))
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover must be deferred. It turns a panic into an ErrPanic assigned to
// err.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// walk calls fn for err and then for every cause below it until fn returns
// true. It reports whether fn ever did.
func walk(err error, fn func(error) bool) bool {
	for err != nil {
		if fn(err) {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st errors.StackTrace
	walk(err, func(cause error) bool {
		t, ok := cause.(stackTracer)
		if ok {
			st = t.StackTrace()
		}
		return ok
	})
	return st
}

// isNilErr also catches a typed nil pointer stored in the error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	if val := reflect.ValueOf(err); val.Kind() == reflect.Ptr {
		return val.IsNil()
	}
	return false
}
