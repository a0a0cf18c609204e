package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a domain error. The HTTP layer is the only place a Kind is
// turned into a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

var (
	// ErrUserNotFound is returned when no account matches an id.
	ErrUserNotFound = New(KindNotFound, "User not found")
	// ErrProductNotFound is returned when no product matches an id.
	ErrProductNotFound = New(KindNotFound, "Product not found")
	// ErrUserAlreadyExists is returned when an email is already registered.
	ErrUserAlreadyExists = New(KindConflict, "User already exists")
	// ErrInvalidCredentials is returned for both unknown email and wrong password.
	ErrInvalidCredentials = New(KindUnauthenticated, "Invalid credentials")
	// ErrInvalidToken is returned when a token has a bad signature or is expired.
	ErrInvalidToken = New(KindUnauthenticated, "Invalid or expired token")
	// ErrNoToken is returned by the request gate when no bearer token was sent.
	ErrNoToken = New(KindUnauthenticated, "Not authorized, no token")
	// ErrTokenFailed is returned by the request gate when the bearer token is rejected.
	ErrTokenFailed = New(KindUnauthenticated, "Not authorized, token failed")
	// ErrNotAdmin is returned when a non-admin reaches an admin-only route.
	ErrNotAdmin = New(KindForbidden, "Not authorized as an admin")
	// ErrInvalidID is returned for malformed resource ids.
	ErrInvalidID = New(KindValidation, "Invalid id")
	// ErrInvalidBody is returned when a request body cannot be decoded.
	ErrInvalidBody = New(KindValidation, "Invalid request body")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors of the same kind and message so sentinels survive wrapping and copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New creates a domain error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a validation error carrying per-field details.
func Validation(message string, details ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// FromValidation converts validator.ValidationErrors into a validation Error.
// Other errors are returned as a plain validation failure.
func FromValidation(err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation(err.Error())
	}
	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{Field: lowerFirst(fe.Field()), Message: describe(fe)})
	}
	return Validation("Validation failed", details...)
}

// KindOf returns the Kind of err, or KindInternal for non-domain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps a Kind to its HTTP status.
func StatusCode(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
