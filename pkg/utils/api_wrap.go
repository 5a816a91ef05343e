package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

func respondErrorData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

// HandleServiceError maps the service error taxonomy onto HTTP statuses.
// Validation, auth, not-found, conflict and insufficient-funds errors are
// terminal and surfaced verbatim; everything unexpected collapses to a 500.
func HandleServiceError(c *gin.Context, err error) {
	var insufficient *InsufficientFundsError

	switch {
	case errors.As(err, &insufficient):
		respondErrorData(c, http.StatusPaymentRequired, insufficient.Error(), gin.H{
			"current_balance": insufficient.CurrentBalance,
			"required":        insufficient.Required,
		})
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAuth):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrIntegrity):
		RespondError(c, http.StatusBadRequest, ErrIntegrity.Error())
	case errors.Is(err, ErrUpstream):
		log.Printf("Gateway error: %v", err)
		RespondError(c, http.StatusBadGateway, ErrUpstream.Error())
	case errors.Is(err, ErrDatabase):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
