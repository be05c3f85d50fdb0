package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a retail or wholesale customer referenced by orders and preorders
type Client struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientCode  string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"client_code"`
	CompanyName string         `gorm:"type:varchar(255)" json:"company_name"`
	ContactName string         `gorm:"type:varchar(255)" json:"contact_name"`
	Email       string         `gorm:"type:varchar(255)" json:"email"`
	Phone       string         `gorm:"type:varchar(50)" json:"phone"`
	Address     string         `gorm:"type:text" json:"address"`
	City        string         `gorm:"type:varchar(100)" json:"city"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
