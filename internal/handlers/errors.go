package handlers

import (
	"errors"

	"kalban_greenbag/internal/apperror"

	"github.com/gin-gonic/gin"
)

// respondError writes err as {code, message, fallback} with the matching HTTP status.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Internal(err)
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{
		"code":     appErr.Code,
		"message":  appErr.Message,
		"fallback": appErr.Fallback,
	})
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, apperror.Validation("Invalid request format: "+err.Error()))
}
