package domain

import "fmt"

// Kind classifies a domain error. errors.Is matches domain errors by Kind.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindTokenFormat
	KindDecryption
	KindAccountNotFound
	KindAccountRoleMissing
	KindInvalidCredentials
	KindInvalidAccountID
	KindLoginThrottled
)

// Severity tells the transport layer what class of failure to report.
type Severity int

const (
	SeverityInvalidRequest Severity = iota + 1
	SeverityUnauthorized
	SeverityForbidden
	SeverityThrottled
	SeverityInternal
)

// Stable error codes exposed to clients.
const (
	CodeAccountNotFound    = 10000000
	CodeDecryptionFailed   = 10000001
	CodeInvalidPassword    = 10000002
	CodeInvalidAccountID   = 10000003
	CodeInvalidToken       = 10000004
	CodeLoginThrottled     = 10000005
	CodeInvalidRequest     = 10000006
	CodeUsernameRequired   = 10000007
	CodePasswordRequired   = 10000008
	CodeAccountRoleMissing = 10000009
)

// Error is the single error type raised by the core.
type Error struct {
	Kind     Kind
	Code     int
	Message  string
	Field    string
	Severity Severity
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Field)
	}
	return e.Message
}

// Is reports whether target is a domain error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation, Code: CodeInvalidRequest,
		Message: "invalid request", Severity: SeverityInvalidRequest}
	ErrTokenFormat = &Error{Kind: KindTokenFormat, Code: CodeInvalidToken,
		Message: "invalid token format", Severity: SeverityUnauthorized}
	ErrDecryption = &Error{Kind: KindDecryption, Code: CodeDecryptionFailed,
		Message: "decryption failed", Severity: SeverityUnauthorized}
	ErrAccountNotFound = &Error{Kind: KindAccountNotFound, Code: CodeAccountNotFound,
		Message: "account not found", Severity: SeverityUnauthorized}
	ErrAccountRoleMissing = &Error{Kind: KindAccountRoleMissing, Code: CodeAccountRoleMissing,
		Message: "missing account role", Severity: SeverityForbidden}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Code: CodeInvalidPassword,
		Message: "invalid password", Severity: SeverityUnauthorized}
	ErrInvalidAccountID = &Error{Kind: KindInvalidAccountID, Code: CodeInvalidAccountID,
		Message: "invalid account id", Severity: SeverityInternal}
	ErrLoginThrottled = &Error{Kind: KindLoginThrottled, Code: CodeLoginThrottled,
		Message: "too many failed login attempts", Severity: SeverityThrottled}
)

// NewValidationError reports a missing or invalid request field.
func NewValidationError(code int, field, message string) *Error {
	return &Error{
		Kind:     KindValidation,
		Code:     code,
		Message:  message,
		Field:    field,
		Severity: SeverityInvalidRequest,
	}
}

// NewTokenFormatError reports a malformed authorization header or token payload.
func NewTokenFormatError(message string) *Error {
	return &Error{
		Kind:     KindTokenFormat,
		Code:     CodeInvalidToken,
		Message:  message,
		Severity: SeverityUnauthorized,
	}
}
