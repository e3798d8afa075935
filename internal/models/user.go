package models

import (
	"time"
)

// User roles
const (
	RoleClient     = "CLIENT"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Account statuses
const (
	StatusActif      = "ACTIF"
	StatusSuspendu   = "SUSPENDU"
	StatusBlackliste = "BLACKLISTE"
	StatusArchive    = "ARCHIVE"
	StatusEnAttente  = "EN_ATTENTE"
)

type User struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Name         string    `json:"name" gorm:"type:varchar(255)"`
	Email        string    `json:"email" gorm:"type:varchar(255);index"`
	Phone        string    `json:"phone" gorm:"type:varchar(50);index"`
	Role         string    `json:"role" gorm:"type:varchar(50);default:'CLIENT'"` // CLIENT, ADMIN, SUPER_ADMIN
	Status       string    `json:"status" gorm:"type:varchar(50);default:'ACTIF'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Admin exists only once a pending admin request has been approved. Its ID is
// the ID of the underlying User row.
type Admin struct {
	ID           string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Username     string     `json:"username" gorm:"type:varchar(255);index"`
	Email        string     `json:"email" gorm:"type:varchar(255);index"`
	EntrepriseID string     `json:"entreprise_id" gorm:"type:varchar(255)"` // legacy free text, cross-checked against entreprises
	Status       string     `json:"status" gorm:"type:varchar(50);default:'ACTIF'"`
	Paid         bool       `json:"paid" gorm:"default:false"`
	PaidAt       *time.Time `json:"paid_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AdminClientLink is the many-to-many join that defines which clients an
// admin may see.
type AdminClientLink struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	AdminID   string    `json:"admin_id" gorm:"type:varchar(36);index;not null"`
	ClientID  string    `json:"client_id" gorm:"type:varchar(36);index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdminClientLink) TableName() string {
	return "admin_clients"
}

type Session struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Token     string    `json:"token" gorm:"type:varchar(500);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}
