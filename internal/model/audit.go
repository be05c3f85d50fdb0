package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateUser     = "CREATE_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionCreateSupplier = "CREATE_SUPPLIER"
	ActionUpdateSupplier = "UPDATE_SUPPLIER"
	ActionDeleteSupplier = "DELETE_SUPPLIER"
	ActionCheckout       = "POS_CHECKOUT"
	ActionUpdateOrder    = "POS_UPDATE_ORDER"
	ActionRecordPayment  = "RECORD_PAYMENT"
	ActionCreateTransfer = "CREATE_TRANSFER"
	ActionReceiveStock   = "RECEIVE_STOCK"
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID    `gorm:"type:uuid;index" json:"user_id"` // nullable for unauthenticated/system actions
	User       *InternalUser `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string        `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string        `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string        `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string        `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time     `gorm:"index" json:"created_at"`
}
