package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item. Prices are stored as decimal — GNF
// amounts are large integers and float arithmetic drifts on them.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Reference string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Category  string          `gorm:"type:varchar(100);index" json:"category"`
	ImageURL  string          `gorm:"type:text" json:"image_url"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"price"`
	MinStock  int             `gorm:"type:int;default:0" json:"min_stock"` // alert threshold
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
