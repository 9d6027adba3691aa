package apperror

import "net/http"

// Stable machine-readable error codes surfaced in the response envelope.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeAccessDenied      = "ACCESS_DENIED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeDomainRule        = "DOMAIN_RULE"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeInternal          = "INTERNAL"
)

// FieldViolation describes a single failed input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Status  int              `json:"-"`
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Fields  []FieldViolation `json:"fields,omitempty"`
	Err     error            `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, CodeBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, CodeAccessDenied, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, CodeConflict, message, nil)
}

// InvalidTransition reports an illegal status change request.
func InvalidTransition(message string) *AppError {
	return New(http.StatusBadRequest, CodeInvalidTransition, message, nil)
}

// DomainRule reports a business-rule violation that is not a pure
// transition-table miss (e.g. an admin suspending their own account).
func DomainRule(message string) *AppError {
	return New(http.StatusBadRequest, CodeDomainRule, message, nil)
}

// Validation reports structural input validation failures. All failing
// fields are listed, not just the first one.
func Validation(violations []FieldViolation) *AppError {
	e := New(http.StatusBadRequest, CodeValidationFailed, "Input validation failed", nil)
	e.Fields = violations
	return e
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, CodeInternal, "Internal Server Error", err)
}
