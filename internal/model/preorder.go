package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PreorderStatus enum constants
const (
	PreorderStatusPending   = "pending"
	PreorderStatusPartial   = "partial"
	PreorderStatusPaid      = "paid"
	PreorderStatusDelivered = "delivered"
	PreorderStatusCanceled  = "canceled"
)

// Preorder is an advance sale invoiced before the goods are available
type Preorder struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PreorderCode    string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"preorder_code"`
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Client          *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	DiscountTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount_total"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"remaining_amount"`
	Status          string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // pending, partial, paid, delivered, canceled
	Notes           string          `gorm:"type:text" json:"notes"`
	Items           []PreorderItem  `gorm:"foreignKey:PreorderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PreorderItem is a product line within a preorder. The product relation is
// resolved by a separate batch lookup, not a join — see PreorderService.
type PreorderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PreorderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"preorder_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity   int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Discount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
}
