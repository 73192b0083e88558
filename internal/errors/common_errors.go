package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of fatal run error
type Code string

const (
	CodeConfigInvalid      Code = "CONFIG_INVALID"
	CodeWorkbookOpenFailed Code = "WORKBOOK_OPEN_FAILED"
	CodeWorkbookSaveFailed Code = "WORKBOOK_SAVE_FAILED"
	CodeWorkbookInvalid    Code = "WORKBOOK_INVALID"
)

// AppError represents an error that ends the run
type AppError struct {
	Code    Code
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(code Code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(CodeConfigInvalid, message, cause)
}

// NewWorkbookOpenError reports a workbook that could not be opened
func NewWorkbookOpenError(path string, cause error) *AppError {
	return NewAppError(CodeWorkbookOpenFailed, "failed to open workbook", cause).WithContext("path", path)
}

// NewWorkbookSaveError reports a workbook that could not be written
func NewWorkbookSaveError(path string, cause error) *AppError {
	return NewAppError(CodeWorkbookSaveFailed, "failed to save workbook", cause).WithContext("path", path)
}

// NewWorkbookInvalidError reports a workbook that does not have the expected layout
func NewWorkbookInvalidError(message string, cause error) *AppError {
	return NewAppError(CodeWorkbookInvalid, message, cause)
}

// CodeOf returns the code of the first AppError in err's chain, or ""
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
