package apperrors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error with an HTTP status and a public
// error code rendered in API responses.
type Error struct {
	Status      int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Err         error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Description, e.Err)
	}
	return e.Description
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(status int, code, description string) *Error {
	return &Error{Status: status, Code: code, Description: description}
}

// Wrap attaches an underlying cause, keeping the public fields.
func (e *Error) Wrap(err error) *Error {
	return &Error{Status: e.Status, Code: e.Code, Description: e.Description, Err: err}
}

// WithDescription returns a copy with a more specific description.
func (e *Error) WithDescription(desc string) *Error {
	return &Error{Status: e.Status, Code: e.Code, Description: desc, Err: e.Err}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "BAD_REQUEST_ERROR", "Bad request")
	ErrUnauthorized   = New(http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND_ERROR", "Not found")
	ErrInternalServer = New(http.StatusInternalServerError, "SERVER_ERROR", "Internal server error")

	ErrInvalidVPA     = New(http.StatusBadRequest, "INVALID_VPA", "VPA format invalid")
	ErrInvalidCard    = New(http.StatusBadRequest, "INVALID_CARD", "Card validation failed")
	ErrExpiredCard    = New(http.StatusBadRequest, "EXPIRED_CARD", "Card expiry date invalid")
	ErrRefundExceeded = New(http.StatusBadRequest, "REFUND_EXCEEDED", "Refund amount exceeds allowed limit")
)

// Respond writes the error as the standard API error body.
func Respond(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = ErrInternalServer.Wrap(err)
	}
	c.JSON(appErr.Status, gin.H{"error": appErr})
}
