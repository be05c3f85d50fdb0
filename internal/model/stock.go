package model

import (
	"time"

	"github.com/google/uuid"
)

// LocationKind enum constants — a stock row belongs to either a warehouse or a PDV
const (
	LocationKindWarehouse = "WAREHOUSE"
	LocationKindPOS       = "POS"
)

// LocationStock tracks the quantity of a product held at one location.
// One row per (product, location) pair; all mutations go through guarded
// UPDATEs so a sale and a transfer cannot both consume the same units.
type LocationStock struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_product_location,unique" json:"product_id"`
	Product      *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	LocationKind string    `gorm:"type:varchar(20);not null;index:idx_stock_product_location,unique" json:"location_kind"` // WAREHOUSE, POS
	LocationID   uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_product_location,unique" json:"location_id"`
	Quantity     int       `gorm:"type:int;not null;default:0" json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
