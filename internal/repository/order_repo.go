package repository

import (
	"context"

	"salespoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderListFilter narrows the order/invoice listing
type OrderListFilter struct {
	PaymentStatus  string // pending, partial, paid or empty for all
	DeliveryStatus string // pending, awaiting, partial, delivered or empty for all
	OrderCode      string // partial match
	POSLocationID  *uuid.UUID
	Page           int
	Limit          int
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItem(ctx context.Context, item *model.OrderItem) error
	DeleteItems(ctx context.Context, orderID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdate locks the order row for the duration of the enclosing
	// transaction. Payment reconciliation must go through it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error)
	Update(ctx context.Context, order *model.Order) error
	CountByPrefix(ctx context.Context, prefix string) (int64, error)

	CreatePayment(ctx context.Context, payment *model.OrderPayment) error
	ListPayments(ctx context.Context, orderID uuid.UUID) ([]model.OrderPayment, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *orderRepository) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.OrderItem{}, "order_id = ?", orderID).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := GetDB(ctx, r.db).
		Preload("Client").
		Preload("POSLocation").
		Preload("Items.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderListFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Order{})
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.DeliveryStatus != "" {
		query = query.Where("delivery_status = ?", filter.DeliveryStatus)
	}
	if filter.OrderCode != "" {
		query = query.Where("order_code ILIKE ?", "%"+filter.OrderCode+"%")
	}
	if filter.POSLocationID != nil {
		query = query.Where("pos_location_id = ?", *filter.POSLocationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.
		Preload("Client").
		Preload("Items").
		Order("created_at desc").
		Offset(offset).Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Save(order).Error
}

func (r *orderRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Order{}).Where("order_code LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) CreatePayment(ctx context.Context, payment *model.OrderPayment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *orderRepository) ListPayments(ctx context.Context, orderID uuid.UUID) ([]model.OrderPayment, error) {
	var payments []model.OrderPayment
	if err := GetDB(ctx, r.db).Where("order_id = ?", orderID).Order("created_at asc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
