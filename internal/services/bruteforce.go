package services

import (
	"errors"
	"fmt"
	"time"

	"gestloc/internal/config"
	"gestloc/internal/metrics"
	"gestloc/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BruteForceService derives its state on demand from FAILED_LOGIN audit
// entries inside a sliding window, plus the blocked_ips table.
type BruteForceService struct {
	cfg     *config.Config
	audit   *AuditService
	notify  *NotificationService
	metrics *metrics.Metrics
}

func NewBruteForceService(cfg *config.Config, audit *AuditService, notify *NotificationService, m *metrics.Metrics) *BruteForceService {
	return &BruteForceService{cfg: cfg, audit: audit, notify: notify, metrics: m}
}

// IsTrusted reports whether the address belongs to the loopback allow-set.
// Trusted addresses are exempt from counting and from blocking.
func (s *BruteForceService) IsTrusted(ip string) bool {
	for _, trusted := range s.cfg.Security.BruteForce.TrustedIPs {
		if ip == trusted {
			return true
		}
	}
	return false
}

// IsBlocked reports whether a blocked_ips row exists for the address.
func (s *BruteForceService) IsBlocked(ip string) bool {
	var count int64
	models.DB.Model(&models.BlockedIP{}).Where("ip = ?", ip).Count(&count)
	return count > 0
}

// RecordFailure appends a FAILED_LOGIN entry for the address and blocks it
// once the failure count inside the window exceeds the threshold.
func (s *BruteForceService) RecordFailure(ip string) {
	if s.IsTrusted(ip) {
		return
	}

	s.audit.Append(AuditEntry{
		Action:     ActionFailedLogin,
		TargetType: "auth",
		Message:    "Tentative de connexion échouée",
		IPAddress:  ip,
	})

	window := time.Duration(s.cfg.Security.BruteForce.WindowMinutes) * time.Minute
	count := s.audit.CountSince(ActionFailedLogin, ip, time.Now().Add(-window))
	if count <= int64(s.cfg.Security.BruteForce.MaxFailures) {
		return
	}
	if s.IsBlocked(ip) {
		return
	}

	blocked := models.BlockedIP{
		ID:        uuid.NewString(),
		IP:        ip,
		Reason:    fmt.Sprintf("Blocage automatique: %d tentatives de connexion échouées en moins de %d minutes", count, s.cfg.Security.BruteForce.WindowMinutes),
		CreatedAt: time.Now(),
	}
	if err := models.DB.Create(&blocked).Error; err != nil {
		return
	}
	if s.metrics != nil {
		s.metrics.BlockedIPs.Inc()
	}

	s.audit.Append(AuditEntry{
		Action:     ActionIPBlocked,
		TargetType: "blocked_ips",
		TargetID:   blocked.ID,
		Message:    blocked.Reason,
		IPAddress:  ip,
	})
	s.notify.NotifySuperAdmins(NotificationSecurityAlert,
		fmt.Sprintf("L'adresse IP %s a été bloquée automatiquement (%d échecs de connexion)", ip, count))
}

// RecordHit audits a request rejected at the gate because its source
// address is blocked.
func (s *BruteForceService) RecordHit(ip, path string) {
	s.audit.Append(AuditEntry{
		Action:     ActionBlockedIPHit,
		TargetType: "blocked_ips",
		Message:    fmt.Sprintf("Requête rejetée depuis une adresse bloquée: %s", path),
		IPAddress:  ip,
	})
}

// Unblock removes the blocked_ips row by id. The failure history in the
// audit log is untouched.
func (s *BruteForceService) Unblock(id, actorID, actorIP string) (*models.BlockedIP, error) {
	var blocked models.BlockedIP
	if err := models.DB.First(&blocked, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := models.DB.Delete(&blocked).Error; err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.BlockedIPs.Dec()
	}

	s.audit.Append(AuditEntry{
		ActorID:    actorID,
		Action:     ActionIPUnblocked,
		TargetType: "blocked_ips",
		TargetID:   blocked.ID,
		Message:    fmt.Sprintf("Adresse IP %s débloquée", blocked.IP),
		IPAddress:  actorIP,
	})
	s.notify.NotifySuperAdmins(NotificationSecurityAlert,
		fmt.Sprintf("L'adresse IP %s a été débloquée", blocked.IP))

	return &blocked, nil
}
