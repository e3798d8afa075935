package middleware

import (
	"fmt"
	"strings"
	"time"

	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
)

// slowThreshold is how long a request may run before a SLOW_REQUEST entry
// is appended.
var slowThreshold = 1500 * time.Millisecond

// auditReadPath is excluded from observation so the sink does not audit its
// own reads.
const auditReadPath = "/audit_logs"

// RequestObserver times every request and records slow responses and server
// errors in the audit log.
func RequestObserver(audit *services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, auditReadPath) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		if elapsed >= slowThreshold {
			audit.Append(services.AuditEntry{
				Action:     services.ActionSlowRequest,
				TargetType: "http",
				TargetID:   c.Request.URL.Path,
				Message:    fmt.Sprintf("%s %s a pris %dms", c.Request.Method, c.Request.URL.Path, elapsed.Milliseconds()),
				IPAddress:  c.ClientIP(),
			})
		}
		if c.Writer.Status() >= 500 {
			audit.Append(services.AuditEntry{
				Action:     services.ActionServerError,
				TargetType: "http",
				TargetID:   c.Request.URL.Path,
				Message:    fmt.Sprintf("%s %s a répondu %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status()),
				IPAddress:  c.ClientIP(),
			})
		}
	}
}
