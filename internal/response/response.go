package response

import (
	"github.com/gin-gonic/gin"
)

// Error codes shared between the service and handler layers
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"

	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeWorkplaceNotFound = "WORKPLACE_NOT_FOUND"
	ErrCodeSprintNotFound    = "SPRINT_NOT_FOUND"
	ErrCodeIssueNotFound     = "ISSUE_NOT_FOUND"
	ErrCodeCommentNotFound   = "COMMENT_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"

	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInvalidDateRange = "INVALID_DATE_RANGE"
	ErrCodeSprintOverlap    = "SPRINT_OVERLAP"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"

	ErrCodeInternal = "INTERNAL_ERROR"
)

// AppError is the typed error carried from the service layer to the boundary
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// ErrorDetail represents error details in the response envelope
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// SuccessResponse represents a generic success envelope
type SuccessResponse struct {
	Data interface{} `json:"data,omitempty"`
}

// MessageResponse represents a message-only success response
type MessageResponse struct {
	Message string `json:"message"`
}

// SendError writes a JSON error response and stops the handler chain
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// SendSuccess writes a JSON success response
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
