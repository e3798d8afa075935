package handlers

import (
	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
)

// BlockedIPHandler serves the explicit unblock operation.
type BlockedIPHandler struct {
	guard   *services.BruteForceService
	authCtx *services.AuthContextService
}

func NewBlockedIPHandler(guard *services.BruteForceService, authCtx *services.AuthContextService) *BlockedIPHandler {
	return &BlockedIPHandler{guard: guard, authCtx: authCtx}
}

// Unblock handles DELETE /blocked_ips/:id. The block row goes away, the
// unblock is audited and super-admins are notified; the failure history in
// the audit log stays.
func (h *BlockedIPHandler) Unblock(c *gin.Context) {
	ctx, _ := h.authCtx.Snapshot()

	blocked, err := h.guard.Unblock(c.Param("id"), ctx.UserID, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Adresse IP débloquée", "blocked_ip": blocked})
}
