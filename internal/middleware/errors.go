package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockdash/internal/domain/dto"
)

// AbortWithError stops the chain and writes the standard error body.
// err may be nil; it is also attached to the context for the request log.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}

// ErrorHandler turns errors pushed with c.Error into a JSON response when the
// handler did not write one itself. An error that is a dto.ErrorResponse keeps
// its message; anything else becomes a 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	var resp dto.ErrorResponse
	if errors.As(err, &resp) {
		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		c.AbortWithStatusJSON(status, resp)
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", err))
}
