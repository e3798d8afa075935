package handlers

import (
	"errors"

	"gestloc/internal/metrics"
	"gestloc/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves the legacy single-slot session endpoints and the
// pending-request credential check.
type AuthHandler struct {
	sessions *services.SessionService
	authCtx  *services.AuthContextService
	metrics  *metrics.Metrics
}

func NewAuthHandler(sessions *services.SessionService, authCtx *services.AuthContextService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{sessions: sessions, authCtx: authCtx, metrics: m}
}

type LoginRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (r *LoginRequest) identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Phone
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.identifier() == "" || req.Password == "" {
		c.JSON(400, gin.H{"error": "Identifiant et mot de passe requis"})
		return
	}

	session, principal, err := h.sessions.Login(req.identifier(), req.Password, c.ClientIP())
	if err != nil {
		h.metrics.LoginAttempts.WithLabelValues(loginStatus(err)).Inc()
		respondError(c, err)
		return
	}

	h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(200, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       principal,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout()
	c.JSON(200, gin.H{"message": "Déconnecté"})
}

// GetSession handles GET /auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	sess, user := h.sessions.Current()
	if sess == nil {
		c.JSON(401, gin.H{"error": "Aucune session active"})
		return
	}
	c.JSON(200, gin.H{
		"user_id":    sess.UserID,
		"token":      sess.Token,
		"expires_at": sess.ExpiresAt,
		"user":       user,
	})
}

// PendingCheck handles POST /auth/pending-check
func (h *AuthHandler) PendingCheck(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.identifier() == "" || req.Password == "" {
		c.JSON(400, gin.H{"error": "Identifiant et mot de passe requis"})
		return
	}

	pending := h.authCtx.PendingCheck(req.identifier(), req.Password)
	c.JSON(200, gin.H{"pending": pending})
}

func loginStatus(err error) string {
	switch {
	case errors.Is(err, services.ErrPendingApproval):
		return "pending"
	case errors.Is(err, services.ErrAdminInactive):
		return "rejected"
	default:
		return "failed"
	}
}
