package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeClientInput ErrorType = "CLIENT_INPUT_ERROR"
	ErrorTypeGeneration  ErrorType = "GENERATION_ERROR"
	ErrorTypeStorage     ErrorType = "STORAGE_ERROR"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal    ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As chains
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusFor maps any error to an HTTP status code. Errors outside the
// taxonomy are treated as internal errors.
func StatusFor(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// NewClientInputError creates a new client input error (400)
func NewClientInputError(message string, errorCode string) *AppError {
	return &AppError{
		Type:          ErrorTypeClientInput,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
	}
}

// NewGenerationError creates an upstream generation error. The mandatory
// first stage of recipe generation reports 400 per the API contract; the
// detail and nutrition endpoints report 500.
func NewGenerationError(message string, errorCode string, statusCode int, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeGeneration,
		Message:       message,
		StatusCode:    statusCode,
		ErrorCode:     errorCode,
		IsOperational: true,
		Err:           err,
	}
}

// NewStorageError creates a storage error. Callers treat these as
// degradation signals rather than request failures.
func NewStorageError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeStorage,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: true,
		Err:           err,
	}
}

// NewNotFoundError creates a new not found error (404)
func NewNotFoundError(message string, errorCode string) *AppError {
	return &AppError{
		Type:          ErrorTypeNotFound,
		Message:       message,
		StatusCode:    http.StatusNotFound,
		ErrorCode:     errorCode,
		IsOperational: true,
	}
}

// NewInternalError creates a new internal error (500)
func NewInternalError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInternal,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: false,
		Err:           err,
	}
}
