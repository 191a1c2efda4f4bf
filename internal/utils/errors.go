package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeTimeout         Code = "TIMEOUT"
	CodeInternal        Code = "INTERNAL"
)

// FieldError is one invalid field of a create payload.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// AppError is the unified error contract across layers.
type AppError struct {
	Code    Code
	Op      string // operation name, ex: "ProjectService.Create"
	Message string // safe message
	Err     error  // wrapped error
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "error"
	}
}

func (e *AppError) Unwrap() error { return e.Err }

// StatusCode lets the error classifier treat AppError like any HTTP-ish error.
func (e *AppError) StatusCode() int { return codeStatus(e.Code) }

// FieldErrors exposes validation failures in field order.
func (e *AppError) FieldErrors() []FieldError { return e.Fields }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

// Invalid wraps a validator failure into a CodeValidation error carrying field errors.
func Invalid(op, msg string, err error) error {
	return &AppError{Code: CodeValidation, Op: op, Message: msg, Err: err, Fields: FieldErrorsOf(err)}
}

// FieldErrorsOf converts validator.ValidationErrors, keeping the validator's field order.
func FieldErrorsOf(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	pos := map[string]int{}
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
		if i, ok := pos[fe.Field()]; ok {
			out[i].Messages = append(out[i].Messages, msg)
			continue
		}
		pos[fe.Field()] = len(out)
		out = append(out, FieldError{Field: fe.Field(), Messages: []string{msg}})
	}
	return out
}

func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func codeStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return codeStatus(ae.Code)
	}
	// fallback
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Backward-compatible sentinel errors
var (
	ErrNotFound = errors.New("not found")
	ErrOffline  = errors.New("network offline")
)
