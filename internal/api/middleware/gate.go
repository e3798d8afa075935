package middleware

import (
	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
)

// BlocklistGate rejects any request from a blocked, non-trusted source
// address before route logic runs. The rejection itself is audited.
func BlocklistGate(guard *services.BruteForceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if guard.IsTrusted(ip) {
			c.Next()
			return
		}
		if guard.IsBlocked(ip) {
			guard.RecordHit(ip, c.Request.URL.Path)
			c.JSON(403, gin.H{"error": "Votre adresse IP est bloquée"})
			c.Abort()
			return
		}
		c.Next()
	}
}
