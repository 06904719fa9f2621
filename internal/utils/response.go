package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the JSON body every endpoint writes: the HTTP status
// echoed in the body, a human-readable message, and either a data
// payload or an error string, never both.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success writes a 200 envelope with the given payload.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created writes a 201 envelope for a newly persisted resource.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error writes an error envelope with the given status code.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, Envelope{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
	})
}

// Shorthands for the error statuses the handlers actually use.

func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

func Unauthorized(c *gin.Context, errorMessage string) {
	Error(c, http.StatusUnauthorized, errorMessage)
}

func Forbidden(c *gin.Context, errorMessage string) {
	Error(c, http.StatusForbidden, errorMessage)
}

func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}
