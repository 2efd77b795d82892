package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrUnauthorized    = 1003
	ErrForbidden       = 1004
	ErrConflict        = 1005
	ErrTooManyRequests = 1006
	ErrBadRequest      = 1007
	ErrServiceUnavail  = 1008

	// Auth errors (2000-2999)
	ErrAuthInvalidCredentials = 2000
	ErrAuthUserNotFound       = 2001
	ErrAuthEmailExists        = 2002
	ErrAuthInvalidToken       = 2003
	ErrAuthTokenExpired       = 2004
	ErrAuthWeakPassword       = 2005
	ErrAuthInvalidEmail       = 2006

	// User errors (3000-3999)
	ErrUserNotFound       = 3000
	ErrUserInvalidInput   = 3001
	ErrUserSearchLimit    = 3002
	ErrUserExportLimit    = 3003
	ErrUserSavedLeadLimit = 3004
	ErrUserTemplateLimit  = 3005
	ErrUserPlanRequired   = 3006

	// Lead errors (4000-4999)
	ErrLeadNotFound      = 4000
	ErrLeadInvalidInput  = 4001
	ErrLeadInvalidStatus = 4002

	// Search errors (5000-5999)
	ErrSearchNotFound     = 5000
	ErrSearchInvalidInput = 5001

	// Template errors (6000-6999)
	ErrTemplateNotFound     = 6000
	ErrTemplateInvalidInput = 6001
	ErrTemplateSendFailed   = 6002
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	// Common errors
	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrUnauthorized:    {ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	ErrForbidden:       {ErrForbidden, http.StatusForbidden, "Forbidden"},
	ErrConflict:        {ErrConflict, http.StatusConflict, "Resource conflict"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	// Auth errors
	ErrAuthInvalidCredentials: {ErrAuthInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	ErrAuthUserNotFound:       {ErrAuthUserNotFound, http.StatusNotFound, "User not found"},
	ErrAuthEmailExists:        {ErrAuthEmailExists, http.StatusConflict, "Email already exists"},
	ErrAuthInvalidToken:       {ErrAuthInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	ErrAuthTokenExpired:       {ErrAuthTokenExpired, http.StatusUnauthorized, "Token expired"},
	ErrAuthWeakPassword:       {ErrAuthWeakPassword, http.StatusBadRequest, "Password is too weak"},
	ErrAuthInvalidEmail:       {ErrAuthInvalidEmail, http.StatusBadRequest, "Invalid email format"},

	// User errors
	ErrUserNotFound:       {ErrUserNotFound, http.StatusNotFound, "User not found"},
	ErrUserInvalidInput:   {ErrUserInvalidInput, http.StatusBadRequest, "Invalid user input"},
	ErrUserSearchLimit:    {ErrUserSearchLimit, http.StatusForbidden, "Monthly search limit reached"},
	ErrUserExportLimit:    {ErrUserExportLimit, http.StatusForbidden, "Monthly export limit reached"},
	ErrUserSavedLeadLimit: {ErrUserSavedLeadLimit, http.StatusForbidden, "Saved lead limit reached"},
	ErrUserTemplateLimit:  {ErrUserTemplateLimit, http.StatusForbidden, "Email template limit reached"},
	ErrUserPlanRequired:   {ErrUserPlanRequired, http.StatusForbidden, "Feature requires a higher plan"},

	// Lead errors
	ErrLeadNotFound:      {ErrLeadNotFound, http.StatusNotFound, "Lead not found"},
	ErrLeadInvalidInput:  {ErrLeadInvalidInput, http.StatusBadRequest, "Invalid lead input"},
	ErrLeadInvalidStatus: {ErrLeadInvalidStatus, http.StatusBadRequest, "Invalid lead status"},

	// Search errors
	ErrSearchNotFound:     {ErrSearchNotFound, http.StatusNotFound, "Search not found"},
	ErrSearchInvalidInput: {ErrSearchInvalidInput, http.StatusBadRequest, "Invalid search input"},

	// Template errors
	ErrTemplateNotFound:     {ErrTemplateNotFound, http.StatusNotFound, "Email template not found"},
	ErrTemplateInvalidInput: {ErrTemplateInvalidInput, http.StatusBadRequest, "Invalid template input"},
	ErrTemplateSendFailed:   {ErrTemplateSendFailed, http.StatusBadGateway, "Failed to send email"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsSuccess checks if the code represents success
func IsSuccess(code int) bool {
	return code == Success
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
