package repository

import (
	"context"
	"errors"
	"time"

	"salespoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned when a guarded decrement would drive a
// stock quantity negative.
var ErrInsufficientStock = errors.New("insufficient stock")

type StockRepository interface {
	Find(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID) (*model.LocationStock, error)
	ListForLocation(ctx context.Context, kind string, locationID uuid.UUID, page, limit int) ([]model.LocationStock, int64, error)
	Add(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID, qty int) error
	Deduct(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID, qty int) error
	ListBelowMinimum(ctx context.Context) ([]model.LocationStock, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Find(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID) (*model.LocationStock, error) {
	var stock model.LocationStock
	err := GetDB(ctx, r.db).
		First(&stock, "product_id = ? AND location_kind = ? AND location_id = ?", productID, kind, locationID).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) ListForLocation(ctx context.Context, kind string, locationID uuid.UUID, page, limit int) ([]model.LocationStock, int64, error) {
	var stocks []model.LocationStock
	var total int64

	query := GetDB(ctx, r.db).Model(&model.LocationStock{}).
		Where("location_kind = ? AND location_id = ?", kind, locationID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Product").Order("updated_at desc").Offset(offset).Limit(limit).Find(&stocks).Error; err != nil {
		return nil, 0, err
	}
	return stocks, total, nil
}

// Add upserts a stock row, incrementing the quantity server-side so two
// concurrent receipts cannot lose an update.
func (r *stockRepository) Add(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID, qty int) error {
	stock := model.LocationStock{
		ProductID:    productID,
		LocationKind: kind,
		LocationID:   locationID,
		Quantity:     qty,
	}
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "location_kind"}, {Name: "location_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("location_stocks.quantity + EXCLUDED.quantity"),
			"updated_at": time.Now(),
		}),
	}).Create(&stock).Error
}

// Deduct decrements quantity only if enough units remain. The quantity check
// sits in the UPDATE itself; zero affected rows means the guard failed.
func (r *stockRepository) Deduct(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID, qty int) error {
	result := GetDB(ctx, r.db).Model(&model.LocationStock{}).
		Where("product_id = ? AND location_kind = ? AND location_id = ? AND quantity >= ?", productID, kind, locationID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ListBelowMinimum returns stock rows whose quantity is under the product's
// alert threshold (for the low-stock dashboard widget).
func (r *stockRepository) ListBelowMinimum(ctx context.Context) ([]model.LocationStock, error) {
	var stocks []model.LocationStock
	err := GetDB(ctx, r.db).
		Joins("JOIN products ON products.id = location_stocks.product_id").
		Where("location_stocks.quantity < products.min_stock").
		Preload("Product").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}
