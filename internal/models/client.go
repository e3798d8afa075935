package models

import (
	"time"
)

// Client represents a rental-portfolio client managed by an admin.
type Client struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	AdminID   string    `json:"admin_id" gorm:"type:varchar(36);index"` // denormalized convenience, admin_clients is authoritative
	FirstName string    `json:"first_name" gorm:"type:varchar(255)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(255)"`
	Phone     string    `json:"phone" gorm:"type:varchar(50);index"`
	Email     string    `json:"email" gorm:"type:varchar(255);index"`
	CNI       string    `json:"cni" gorm:"type:varchar(100)"`
	Status    string    `json:"status" gorm:"type:varchar(50);default:'ACTIF'"`
	Rentals   []Rental  `json:"rentals,omitempty" gorm:"foreignKey:ClientID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rental is a property rented out by a client.
type Rental struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ClientID  string    `json:"client_id" gorm:"type:varchar(36);index;not null"`
	Label     string    `json:"label" gorm:"type:varchar(255)"`
	Address   string    `json:"address" gorm:"type:varchar(255)"`
	Rent      float64   `json:"rent" gorm:"default:0"`
	Status    string    `json:"status" gorm:"type:varchar(50);default:'ACTIF'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Entreprise struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);index;not null"`
	AdminID   string    `json:"admin_id" gorm:"type:varchar(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
