package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/planner"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps service and planner errors onto HTTP responses.
// Client errors carry the wrapped message; server errors are logged and masked.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, planner.ErrInvalidRequest):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, planner.ErrNoCandidates):
		RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPlaceNotFound):
		RespondError(c, http.StatusNotFound, "Place not found")
	case errors.Is(err, ErrItineraryNotFound):
		RespondError(c, http.StatusNotFound, "Itinerary not found")
	case errors.Is(err, ErrPreferenceMissing):
		RespondError(c, http.StatusNotFound, "No preferences stored for this session")
	case errors.Is(err, ErrTooManyRequests):
		RespondError(c, http.StatusTooManyRequests, "Too many requests, slow down")
	case errors.Is(err, planner.ErrUpstreamUnavailable):
		log.Printf("[%s] Upstream unavailable: %v", c.GetString("trace_id"), err)
		RespondError(c, http.StatusServiceUnavailable, "Place search is temporarily unavailable, please retry")
	case errors.Is(err, planner.ErrValidation):
		log.Printf("[%s] Itinerary validation failure: %v", c.GetString("trace_id"), err)
		RespondError(c, http.StatusInternalServerError, "Could not build a consistent itinerary")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("[%s] Database error: %v", c.GetString("trace_id"), err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("[%s] Unknown error: %v", c.GetString("trace_id"), err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
