package utils

import "net/http"

// AppError is the error type services return for expected domain failures.
// Status is the HTTP status the adaptor layer should answer with; Message is
// safe to show to the client as-is.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequest(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

func NewInternal(message string) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Message: message}
}
