package database

import (
	"log"

	"salespoint/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.InternalUser{},
		&model.RefreshToken{},
		&model.Supplier{},
		&model.Client{},
		&model.Product{},
		&model.Warehouse{},
		&model.POSLocation{},
		&model.LocationStock{},
		&model.StockTransfer{},
		&model.TransferItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderPayment{},
		&model.Preorder{},
		&model.PreorderItem{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
