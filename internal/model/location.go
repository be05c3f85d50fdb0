package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LocationStatus enum constants
const (
	LocationStatusActive   = "actif"
	LocationStatusInactive = "inactif"
)

// Warehouse represents a storage depot
type Warehouse struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Location  string         `gorm:"type:varchar(255)" json:"location"`
	Surface   int            `gorm:"type:int;default:0" json:"surface"` // m²
	Capacity  int            `gorm:"type:int;not null" json:"capacity"` // units
	Occupied  int            `gorm:"type:int;default:0" json:"occupied"`
	Manager   string         `gorm:"type:varchar(255)" json:"manager"`
	Status    string         `gorm:"type:varchar(20);not null;default:'actif'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// POSLocation represents a point-of-sale retail site (PDV), distinct from a warehouse
type POSLocation struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	Address   string         `gorm:"type:text" json:"address"`
	Capacity  int            `gorm:"type:int;not null" json:"capacity"`
	Occupied  int            `gorm:"type:int;default:0" json:"occupied"`
	Manager   string         `gorm:"type:varchar(255)" json:"manager"`
	Status    string         `gorm:"type:varchar(20);not null;default:'actif'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
