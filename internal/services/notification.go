package services

import (
	"log"
	"time"

	"gestloc/internal/models"

	"github.com/google/uuid"
)

const (
	NotificationSecurityAlert = "SECURITY_ALERT"
)

type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifySuperAdmins fans a notification out to every SUPER_ADMIN user.
// Best effort: failures are logged, never surfaced.
func (s *NotificationService) NotifySuperAdmins(ntype, message string) {
	var superAdmins []models.User
	if err := models.DB.Where("role = ?", models.RoleSuperAdmin).Find(&superAdmins).Error; err != nil {
		log.Printf("notification: failed to list super admins: %v", err)
		return
	}

	for _, sa := range superAdmins {
		n := models.Notification{
			ID:        uuid.NewString(),
			UserID:    sa.ID,
			Type:      ntype,
			Message:   message,
			CreatedAt: time.Now(),
		}
		if err := models.DB.Create(&n).Error; err != nil {
			log.Printf("notification: failed to notify user %s: %v", sa.ID, err)
		}
	}
}
