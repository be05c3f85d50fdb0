package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SupplierStatus enum constants
const (
	SupplierStatusActive   = "actif"
	SupplierStatusPending  = "en_attente"
	SupplierStatusInactive = "inactif"
)

// Supplier represents a goods supplier with its contact and address details
type Supplier struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Contact   string         `gorm:"type:varchar(255)" json:"contact"`
	Email     string         `gorm:"type:varchar(255)" json:"email"`
	Phone     string         `gorm:"type:varchar(50)" json:"phone"`
	Landline  string         `gorm:"type:varchar(50)" json:"landline"`
	Website   string         `gorm:"type:varchar(255)" json:"website"`
	Address   string         `gorm:"type:text" json:"address"`
	Country   string         `gorm:"type:varchar(100)" json:"country"`
	City      string         `gorm:"type:varchar(100)" json:"city"`
	PostalBox string         `gorm:"type:varchar(50)" json:"postal_box"`
	Status    string         `gorm:"type:varchar(20);not null;default:'en_attente';index" json:"status"` // actif, en_attente, inactif
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
