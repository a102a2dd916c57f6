package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/clientbase/internal/customer/domain"
	"gorm.io/gorm"
)

type errorResponse struct {
	Message string `json:"message"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware maps errors collected during the request to a
// JSON {message} response. Validation and not-found failures share one
// client-error status; everything else is an internal error.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, message := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Message: message})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, customerdomain.ErrInvalidName):
		return http.StatusBadRequest, "name is required"
	case errors.Is(err, customerdomain.ErrInvalidEmail):
		return http.StatusBadRequest, "email is required"
	case errors.Is(err, customerdomain.ErrInvalidID):
		return http.StatusBadRequest, "invalid customer id"
	case errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusBadRequest, "customer not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}