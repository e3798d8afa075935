package handlers

import (
	"gestloc/internal/metrics"
	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthContextHandler serves the primary context API.
type AuthContextHandler struct {
	authCtx *services.AuthContextService
	metrics *metrics.Metrics
}

func NewAuthContextHandler(authCtx *services.AuthContextService, m *metrics.Metrics) *AuthContextHandler {
	return &AuthContextHandler{authCtx: authCtx, metrics: m}
}

// Get handles GET /authContext. The holder is re-validated on every read.
func (h *AuthContextHandler) Get(c *gin.Context) {
	ctx, user, err := h.authCtx.Current()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"user_id":       ctx.UserID,
		"impersonation": ctx.Impersonation,
		"updated_at":    ctx.UpdatedAt,
		"user": services.Principal{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
			Status:   user.Status,
		},
	})
}

// Login handles POST /authContext/login
func (h *AuthContextHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.identifier() == "" || req.Password == "" {
		c.JSON(400, gin.H{"error": "Identifiant et mot de passe requis"})
		return
	}

	principal, err := h.authCtx.Login(req.identifier(), req.Password, c.ClientIP())
	if err != nil {
		h.metrics.LoginAttempts.WithLabelValues(loginStatus(err)).Inc()
		respondError(c, err)
		return
	}

	h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(200, gin.H{"user": principal})
}

// Logout handles POST /authContext/logout
func (h *AuthContextHandler) Logout(c *gin.Context) {
	h.authCtx.Logout(c.ClientIP())
	c.JSON(200, gin.H{"message": "Déconnecté"})
}

type ImpersonateRequest struct {
	AdminID   string `json:"admin_id" binding:"required"`
	AdminName string `json:"admin_name" binding:"required"`
	UserID    string `json:"user_id"`
}

// Impersonate handles POST /authContext/impersonate
func (h *AuthContextHandler) Impersonate(c *gin.Context) {
	var req ImpersonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "admin_id et admin_name requis"})
		return
	}

	if err := h.authCtx.Impersonate(req.AdminID, req.AdminName, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Impersonation activée"})
}

// ClearImpersonation handles POST /authContext/clear-impersonation
func (h *AuthContextHandler) ClearImpersonation(c *gin.Context) {
	if err := h.authCtx.ClearImpersonation(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, gin.H{"message": "Impersonation désactivée"})
}
