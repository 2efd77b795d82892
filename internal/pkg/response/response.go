package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/leadpilot/leadpilot-backend/internal/pkg/errors"
)

// Response is the unified JSON envelope for all API responses
type Response struct {
	Code    int         `json:"code"`              // business code, 0 means success
	Message string      `json:"message,omitempty"` // human-readable message
	Data    interface{} `json:"data"`              // payload, {} when empty
}

func write(c *gin.Context, httpStatus, code int, message string, data interface{}) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(httpStatus, Response{Code: code, Message: message, Data: data})
}

// Success writes a 200 response
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, apperrors.Success, "", data)
}

// SuccessWithMessage writes a 200 response with a message
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, apperrors.Success, message, data)
}

// Created writes a 201 response
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, apperrors.Success, "", data)
}

// Error writes an error response with the given HTTP status
func Error(c *gin.Context, httpStatus int, message string) {
	write(c, httpStatus, httpStatus, message, nil)
}

// BadRequest writes a 400 error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 error
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// HandleError maps an AppError (or any error) to a JSON error response
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	code := apperrors.ExtractCode(err)
	write(c, apperrors.GetHTTPStatus(code), code,
		apperrors.FormatError(code, apperrors.GetDetails(err)), nil)
}
