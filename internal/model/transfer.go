package model

import (
	"time"

	"github.com/google/uuid"
)

// TransferType enum constants
const (
	TransferDepotToPOS   = "depot_to_pos"
	TransferPOSToDepot   = "pos_to_depot"
	TransferDepotToDepot = "depot_to_depot"
)

// TransferStatus enum constants
const (
	TransferStatusCompleted = "completed"
	TransferStatusCanceled  = "canceled"
)

// StockTransfer moves goods between a depot and a PDV (or depot to depot).
// Source and destination are stored as (kind, id) pairs so the same row shape
// covers all three transfer types.
type StockTransfer struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransferCode    string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"transfer_code"`
	Type            string         `gorm:"type:varchar(20);not null" json:"type"` // depot_to_pos, pos_to_depot, depot_to_depot
	SourceKind      string         `gorm:"type:varchar(20);not null" json:"source_kind"`
	SourceID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"source_id"`
	DestinationKind string         `gorm:"type:varchar(20);not null" json:"destination_kind"`
	DestinationID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"destination_id"`
	Status          string         `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid" json:"created_by"`
	Items           []TransferItem `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TransferItem is a single product line within a transfer
type TransferItem struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransferID uuid.UUID `gorm:"type:uuid;not null;index" json:"transfer_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int       `gorm:"type:int;not null" json:"quantity"`
}
