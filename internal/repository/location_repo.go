package repository

import (
	"context"

	"salespoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *model.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context, page, limit int) ([]model.Warehouse, int64, error)
	Update(ctx context.Context, warehouse *model.Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustOccupied(ctx context.Context, id uuid.UUID, delta int) error
}

type POSLocationRepository interface {
	Create(ctx context.Context, location *model.POSLocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.POSLocation, error)
	List(ctx context.Context, page, limit int) ([]model.POSLocation, int64, error)
	Update(ctx context.Context, location *model.POSLocation) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustOccupied(ctx context.Context, id uuid.UUID, delta int) error
}

type warehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) Create(ctx context.Context, warehouse *model.Warehouse) error {
	return GetDB(ctx, r.db).Create(warehouse).Error
}

func (r *warehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	if err := GetDB(ctx, r.db).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) List(ctx context.Context, page, limit int) ([]model.Warehouse, int64, error) {
	var warehouses []model.Warehouse
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Warehouse{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&warehouses).Error; err != nil {
		return nil, 0, err
	}
	return warehouses, total, nil
}

func (r *warehouseRepository) Update(ctx context.Context, warehouse *model.Warehouse) error {
	return GetDB(ctx, r.db).Save(warehouse).Error
}

func (r *warehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Warehouse{}, "id = ?", id).Error
}

// AdjustOccupied applies a server-side increment so concurrent transfers do
// not clobber each other's counter updates.
func (r *warehouseRepository) AdjustOccupied(ctx context.Context, id uuid.UUID, delta int) error {
	return GetDB(ctx, r.db).Model(&model.Warehouse{}).
		Where("id = ?", id).
		Update("occupied", gorm.Expr("GREATEST(occupied + ?, 0)", delta)).Error
}

type posLocationRepository struct {
	db *gorm.DB
}

func NewPOSLocationRepository(db *gorm.DB) POSLocationRepository {
	return &posLocationRepository{db: db}
}

func (r *posLocationRepository) Create(ctx context.Context, location *model.POSLocation) error {
	return GetDB(ctx, r.db).Create(location).Error
}

func (r *posLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.POSLocation, error) {
	var location model.POSLocation
	if err := GetDB(ctx, r.db).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *posLocationRepository) List(ctx context.Context, page, limit int) ([]model.POSLocation, int64, error) {
	var locations []model.POSLocation
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.POSLocation{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&locations).Error; err != nil {
		return nil, 0, err
	}
	return locations, total, nil
}

func (r *posLocationRepository) Update(ctx context.Context, location *model.POSLocation) error {
	return GetDB(ctx, r.db).Save(location).Error
}

func (r *posLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.POSLocation{}, "id = ?", id).Error
}

func (r *posLocationRepository) AdjustOccupied(ctx context.Context, id uuid.UUID, delta int) error {
	return GetDB(ctx, r.db).Model(&model.POSLocation{}).
		Where("id = ?", id).
		Update("occupied", gorm.Expr("GREATEST(occupied + ?, 0)", delta)).Error
}
