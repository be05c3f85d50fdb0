package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enum constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// DeliveryStatus enum constants
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusAwaiting  = "awaiting"
	DeliveryStatusPartial   = "partial"
	DeliveryStatusDelivered = "delivered"
)

// PaymentMethod enum constants
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCheck        = "check"
	PaymentMethodMobileMoney  = "mobile_money"
)

// Order is a sale produced by POS checkout. It doubles as the invoice:
// paid_amount + remaining_amount == total_amount at all times, and
// payment_status is "paid" exactly when remaining_amount is zero. Both are
// only ever updated inside a transaction that holds the row lock.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderCode       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_code"`
	ClientID        *uuid.UUID      `gorm:"type:uuid;index" json:"client_id"`
	Client          *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	POSLocationID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"pos_location_id"`
	POSLocation     *POSLocation    `gorm:"foreignKey:POSLocationID" json:"pos_location,omitempty"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	DiscountTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount_total"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"remaining_amount"`
	PaymentStatus   string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`   // pending, partial, paid
	DeliveryStatus  string          `gorm:"type:varchar(20);not null;default:'awaiting';index" json:"delivery_status"` // pending, awaiting, partial, delivered
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payments        []OrderPayment  `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is a cart line persisted against an order
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	Discount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"discount"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price"`
	Delivered  bool            `gorm:"default:false" json:"delivered"`
	DeliveredQ int             `gorm:"type:int;default:0;column:delivered_quantity" json:"delivered_quantity"`
}

// OrderPayment records one payment received against an order/invoice
type OrderPayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Method    string          `gorm:"type:varchar(20);not null" json:"method"` // cash, bank_transfer, check, mobile_money
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedBy *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}
