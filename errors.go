package ygggo_mongo

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors returned by builders, registries and the factory.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAlreadyRegistered
	KindNotRegistered
	KindAlreadyConnected
	KindInvalidState
	KindNotConnected
	KindConnectFailed
	KindDisconnectFailed
	KindUnsupportedVersion
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAlreadyRegistered:
		return "AlreadyRegistered"
	case KindNotRegistered:
		return "NotRegistered"
	case KindAlreadyConnected:
		return "AlreadyConnected"
	case KindInvalidState:
		return "InvalidState"
	case KindNotConnected:
		return "NotConnected"
	case KindConnectFailed:
		return "ConnectFailed"
	case KindDisconnectFailed:
		return "DisconnectFailed"
	case KindUnsupportedVersion:
		return "UnsupportedVersion"
	default:
		return "Unknown"
	}
}

// Sentinel errors, one per kind. Match them with errors.Is.
var (
	ErrValidation         = &kindError{KindValidation}
	ErrAlreadyRegistered  = &kindError{KindAlreadyRegistered}
	ErrNotRegistered      = &kindError{KindNotRegistered}
	ErrAlreadyConnected   = &kindError{KindAlreadyConnected}
	ErrInvalidState       = &kindError{KindInvalidState}
	ErrNotConnected       = &kindError{KindNotConnected}
	ErrConnectFailed      = &kindError{KindConnectFailed}
	ErrDisconnectFailed   = &kindError{KindDisconnectFailed}
	ErrUnsupportedVersion = &kindError{KindUnsupportedVersion}
)

type kindError struct{ kind ErrorKind }

func (e *kindError) Error() string { return e.kind.String() }

func sentinel(k ErrorKind) error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindAlreadyRegistered:
		return ErrAlreadyRegistered
	case KindNotRegistered:
		return ErrNotRegistered
	case KindAlreadyConnected:
		return ErrAlreadyConnected
	case KindInvalidState:
		return ErrInvalidState
	case KindNotConnected:
		return ErrNotConnected
	case KindConnectFailed:
		return ErrConnectFailed
	case KindDisconnectFailed:
		return ErrDisconnectFailed
	case KindUnsupportedVersion:
		return ErrUnsupportedVersion
	}
	return nil
}

// Error is the concrete error type returned by this package.
// Err holds the underlying driver error for ConnectFailed and DisconnectFailed.
type Error struct {
	Kind  ErrorKind
	Op    string
	Alias string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Alias != "" {
		msg = fmt.Sprintf("alias='%s' %s", e.Alias, msg)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s := sentinel(e.Kind)
	return s != nil && target == s
}

func newError(kind ErrorKind, op, alias, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Alias: alias, Msg: msg, Err: cause}
}

func validationErrorf(op, format string, args ...any) *Error {
	return newError(KindValidation, op, "", fmt.Sprintf(format, args...), nil)
}

// Classify returns the kind of err, or KindUnknown for errors not produced here.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k *kindError
	if errors.As(err, &k) {
		return k.kind
	}
	return KindUnknown
}
