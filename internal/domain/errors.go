package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation  ErrKind = "validation"   // 400
	KindConflict    ErrKind = "conflict"     // 400, the API reports duplicates as bad requests
	KindAuth        ErrKind = "auth"         // 401
	KindNotFound    ErrKind = "not_found"    // 404
	KindRateLimited ErrKind = "rate_limited" // 429
	KindUpstream    ErrKind = "upstream"     // 502
	KindInternal    ErrKind = "internal"     // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code
// - Message: client-facing summary, sent as "message"
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped error; for internal and upstream kinds it is echoed as "error"
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// KindOf returns the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "Invalid request body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, "missing_field", field+" is required"), map[string]string{
		"field": field,
	})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", field+" "+reason), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

func ErrMissingFile() *Error {
	return New(KindValidation, "missing_file", "No File Uploaded")
}

func ErrInvalidFile(reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_file", "Invalid file: "+reason), map[string]string{
		"reason": reason,
	})
}

// ----------------------
// Conflict errors (400)
// ----------------------

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_exists", "User with this email already exists")
}

// ----------------------
// Auth errors (401)
// ----------------------

func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "Invalid credentials")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "Not authorized, no token")
}

func ErrTokenInvalid() *Error {
	return New(KindAuth, "token_invalid", "Not authorized, token failed")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "Not authorized, token failed")
}

// ----------------------
// Not found (404)
// ----------------------

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "User not found")
}

// ----------------------
// Rate limiting (429)
// ----------------------

func ErrRateLimited(route string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "Too many requests"), map[string]string{
		"route": route,
	})
}

// ----------------------
// Upstream (502)
// ----------------------

func ErrImageUploadFailed(cause error) *Error {
	return Wrap(KindUpstream, "image_upload_failed", "Image upload failed", cause)
}

// ----------------------
// Internal (500)
// ----------------------

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "Server error", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "Server error", cause)
}

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInternal, "db_unavailable", "Server error", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "Server error", cause)
}
