package repository

import (
	"context"

	"salespoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreorderListFilter controls listing order and scope. SortColumn is one of
// created_at, total_amount, client; anything else falls back to created_at.
type PreorderListFilter struct {
	UnpaidOnly bool
	SortColumn string
	SortDesc   bool
	Page       int
	Limit      int
}

type PreorderRepository interface {
	Create(ctx context.Context, preorder *model.Preorder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Preorder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Preorder, error)
	List(ctx context.Context, filter PreorderListFilter) ([]model.Preorder, int64, error)
	Update(ctx context.Context, preorder *model.Preorder) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type preorderRepository struct {
	db *gorm.DB
}

func NewPreorderRepository(db *gorm.DB) PreorderRepository {
	return &preorderRepository{db: db}
}

func (r *preorderRepository) Create(ctx context.Context, preorder *model.Preorder) error {
	return GetDB(ctx, r.db).Create(preorder).Error
}

func (r *preorderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Preorder, error) {
	var preorder model.Preorder
	if err := GetDB(ctx, r.db).Preload("Client").Preload("Items").First(&preorder, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &preorder, nil
}

func (r *preorderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Preorder, error) {
	var preorder model.Preorder
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&preorder, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &preorder, nil
}

func (r *preorderRepository) List(ctx context.Context, filter PreorderListFilter) ([]model.Preorder, int64, error) {
	var preorders []model.Preorder
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Preorder{})
	if filter.UnpaidOnly {
		query = query.Where("status IN ?", []string{model.PreorderStatusPending, model.PreorderStatusPartial})
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "asc"
	if filter.SortDesc {
		direction = "desc"
	}

	switch filter.SortColumn {
	case "client":
		// Sorting on the joined client name; the line-item products are still
		// resolved separately by the service.
		query = query.
			Joins("LEFT JOIN clients ON clients.id = preorders.client_id").
			Order("clients.company_name " + direction)
	case "total_amount":
		query = query.Order("total_amount " + direction)
	default:
		query = query.Order("preorders.created_at " + direction)
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.
		Preload("Client").
		Preload("Items").
		Offset(offset).Limit(filter.Limit).
		Find(&preorders).Error
	if err != nil {
		return nil, 0, err
	}
	return preorders, total, nil
}

func (r *preorderRepository) Update(ctx context.Context, preorder *model.Preorder) error {
	return GetDB(ctx, r.db).Save(preorder).Error
}

func (r *preorderRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Preorder{}).Where("preorder_code LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
