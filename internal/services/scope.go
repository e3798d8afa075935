package services

import (
	"gestloc/internal/models"
)

// ScopeService resolves a caller's effective data scope through the
// admin-client join.
type ScopeService struct{}

func NewScopeService() *ScopeService {
	return &ScopeService{}
}

// EffectiveAdminID returns the admin id whose client set bounds the caller:
// an impersonating super-admin projects onto the impersonated admin, a
// plain admin onto itself. "" means unscoped (sees everything).
func (s *ScopeService) EffectiveAdminID(ctx AuthContext, user *models.User) string {
	if user == nil {
		return ""
	}
	if user.Role == models.RoleSuperAdmin && ctx.Impersonation != nil {
		return ctx.Impersonation.AdminID
	}
	if user.Role == models.RoleAdmin {
		return user.ID
	}
	return ""
}

// VisibleClientIDs returns the set of client ids joined to the admin via
// admin_clients.
func (s *ScopeService) VisibleClientIDs(adminID string) map[string]bool {
	visible := make(map[string]bool)
	var links []models.AdminClientLink
	models.DB.Where("admin_id = ?", adminID).Find(&links)
	for _, l := range links {
		visible[l.ClientID] = true
	}
	return visible
}
