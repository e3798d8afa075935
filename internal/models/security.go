package models

import (
	"time"
)

type Notification struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index"`
	Type      string    `json:"type" gorm:"type:varchar(50)"` // SECURITY_ALERT, INFO
	Message   string    `json:"message" gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLog is append-only: rows are never updated or deleted by this
// subsystem.
type AuditLog struct {
	ID         string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Actor      string    `json:"actor" gorm:"type:varchar(36);index"`
	Action     string    `json:"action" gorm:"type:varchar(50);index;not null"`
	TargetType string    `json:"target_type" gorm:"type:varchar(100)"`
	TargetID   string    `json:"target_id" gorm:"type:varchar(255)"`
	Message    string    `json:"message" gorm:"type:text"`
	IPAddress  string    `json:"ip_address" gorm:"type:varchar(45);index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// BlockedIP: the presence of a row for an address is the sole authority for
// the block decision.
type BlockedIP struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	IP        string    `json:"ip" gorm:"type:varchar(45);index;not null"`
	Reason    string    `json:"reason" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlockedIP) TableName() string {
	return "blocked_ips"
}
