package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleSeller  = "seller"
)

// InternalUser represents an operator account. The row ID doubles as the
// authentication identity, so the credential and the profile are created in a
// single transaction and can never drift apart.
type InternalUser struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName           string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName            string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone               string         `gorm:"type:varchar(50)" json:"phone"`
	Address             string         `gorm:"type:text" json:"address"`
	PhotoURL            string         `gorm:"type:text" json:"photo_url"`
	Role                string         `gorm:"type:varchar(50);not null" json:"role"` // admin, manager, seller
	IsActive            bool           `gorm:"default:true" json:"is_active"`
	ForcePasswordChange bool           `gorm:"default:false" json:"force_password_change"`
	Password            string         `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User      InternalUser `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
