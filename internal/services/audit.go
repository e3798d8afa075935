package services

import (
	"log"
	"time"

	"gestloc/internal/metrics"
	"gestloc/internal/models"

	"github.com/google/uuid"
)

// Audit actions
const (
	ActionLogin              = "LOGIN"
	ActionLogout             = "LOGOUT"
	ActionFailedLogin        = "FAILED_LOGIN"
	ActionIPBlocked          = "IP_BLOCKED"
	ActionIPUnblocked        = "IP_UNBLOCKED"
	ActionBlockedIPHit       = "BLOCKED_IP_HIT"
	ActionSlowRequest        = "SLOW_REQUEST"
	ActionServerError        = "SERVER_ERROR"
	ActionAdminRequestStatus = "ADMIN_REQUEST_STATUS"
)

type AuditEntry struct {
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
	Message    string
	IPAddress  string
}

// AuditService is the append-only audit sink. Appends are best effort and
// never fail the caller.
type AuditService struct {
	metrics *metrics.Metrics
}

func NewAuditService(m *metrics.Metrics) *AuditService {
	return &AuditService{metrics: m}
}

func (s *AuditService) Append(e AuditEntry) {
	row := models.AuditLog{
		ID:         uuid.NewString(),
		Actor:      e.ActorID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Message:    e.Message,
		IPAddress:  e.IPAddress,
		CreatedAt:  time.Now(),
	}
	if err := models.DB.Create(&row).Error; err != nil {
		log.Printf("audit: failed to append %s entry: %v", e.Action, err)
		return
	}
	if s.metrics != nil {
		s.metrics.AuditEvents.WithLabelValues(e.Action).Inc()
	}
}

// CountSince returns the number of entries for an action and exact source
// address inside the window starting at since.
func (s *AuditService) CountSince(action, ip string, since time.Time) int64 {
	var count int64
	models.DB.Model(&models.AuditLog{}).
		Where("action = ? AND ip_address = ? AND created_at >= ?", action, ip, since).
		Count(&count)
	return count
}
