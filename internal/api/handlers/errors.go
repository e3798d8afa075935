package handlers

import (
	"errors"

	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the HTTP taxonomy. Messages are the
// services' localized strings, not technical detail.
func respondError(c *gin.Context, err error) {
	var conflict *services.ConflictError
	switch {
	case errors.As(err, &conflict):
		c.JSON(409, gin.H{"error": conflict.Message})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(401, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPendingApproval),
		errors.Is(err, services.ErrAdminInactive),
		errors.Is(err, services.ErrForbidden):
		c.JSON(403, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	default:
		c.JSON(500, gin.H{"error": "Une erreur interne est survenue"})
	}
}
