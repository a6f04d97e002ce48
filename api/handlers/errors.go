package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-session/completion"
	"chat-session/dto"
	"chat-session/logger"
	"chat-session/services"
)

const (
	errSessionNotFound = "session_not_found"
	errQuotaExceeded   = "completion_quota_exceeded"
	errInternal        = "internal_error"
)

// writeError maps service errors to HTTP responses. Gateway failures are logged
// and surfaced as 500 without their message.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: errSessionNotFound})
	case errors.Is(err, completion.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, dto.ErrorResponseDTO{Error: errQuotaExceeded})
	default:
		_ = c.Error(err)
		logger.ErrorWithFields("request failed", logger.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: errInternal})
	}
}

func writeBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
}
