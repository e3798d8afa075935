package services

import (
	"errors"
	"fmt"

	"gestloc/internal/models"

	"gorm.io/gorm"
)

// AdminRequestService manages the lifecycle of pending admin requests,
// which are user rows with role ADMIN and status EN_ATTENTE.
type AdminRequestService struct {
	audit *AuditService
	views *ViewService
}

func NewAdminRequestService(audit *AuditService, views *ViewService) *AdminRequestService {
	return &AdminRequestService{audit: audit, views: views}
}

// UpdateStatus transitions a pending request. Approval (EN_ATTENTE → ACTIF)
// creates the admin row if absent and audits the transition.
func (s *AdminRequestService) UpdateStatus(id, newStatus, actorID, ip string) (PendingRequestView, error) {
	var user models.User
	if err := models.DB.Where("id = ? AND role = ?", id, models.RoleAdmin).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PendingRequestView{}, ErrNotFound
		}
		return PendingRequestView{}, err
	}

	oldStatus := user.Status
	user.Status = newStatus
	if err := models.DB.Save(&user).Error; err != nil {
		return PendingRequestView{}, err
	}

	if newStatus == models.StatusActif {
		var admin models.Admin
		err := models.DB.First(&admin, "id = ?", user.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			admin = models.Admin{
				ID:       user.ID,
				Username: user.Username,
				Email:    user.Email,
				Status:   models.StatusActif,
			}
			if err := models.DB.Create(&admin).Error; err != nil {
				return PendingRequestView{}, err
			}
		} else if err != nil {
			return PendingRequestView{}, err
		}
	}

	s.audit.Append(AuditEntry{
		ActorID:    actorID,
		Action:     ActionAdminRequestStatus,
		TargetType: "admin_requests",
		TargetID:   user.ID,
		Message:    fmt.Sprintf("Statut de la demande: %s → %s", oldStatus, newStatus),
		IPAddress:  ip,
	})

	return s.views.buildPendingView(user), nil
}

// Delete rejects a pending request by removing the user row.
func (s *AdminRequestService) Delete(id string) error {
	var user models.User
	err := models.DB.
		Where("id = ? AND role = ? AND status = ?", id, models.RoleAdmin, models.StatusEnAttente).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return models.DB.Delete(&user).Error
}
