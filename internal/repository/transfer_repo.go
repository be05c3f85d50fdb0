package repository

import (
	"context"

	"salespoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransferRepository interface {
	Create(ctx context.Context, transfer *model.StockTransfer) error
	CreateItem(ctx context.Context, item *model.TransferItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockTransfer, error)
	List(ctx context.Context, transferType string, page, limit int) ([]model.StockTransfer, int64, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, transfer *model.StockTransfer) error {
	return GetDB(ctx, r.db).Create(transfer).Error
}

func (r *transferRepository) CreateItem(ctx context.Context, item *model.TransferItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *transferRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.StockTransfer, error) {
	var transfer model.StockTransfer
	if err := GetDB(ctx, r.db).Preload("Items.Product").First(&transfer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &transfer, nil
}

func (r *transferRepository) List(ctx context.Context, transferType string, page, limit int) ([]model.StockTransfer, int64, error) {
	var transfers []model.StockTransfer
	var total int64

	query := GetDB(ctx, r.db).Model(&model.StockTransfer{})
	if transferType != "" {
		query = query.Where("type = ?", transferType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Preload("Items.Product").Order("created_at desc").Offset(offset).Limit(limit).Find(&transfers).Error; err != nil {
		return nil, 0, err
	}
	return transfers, total, nil
}

func (r *transferRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.StockTransfer{}).Where("transfer_code LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
