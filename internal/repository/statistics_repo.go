package repository

import (
	"context"
	"fmt"
	"time"

	"salespoint/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesTotals carries the aggregate figures for one date range
type SalesTotals struct {
	TotalSales decimal.Decimal
	TotalPaid  decimal.Decimal
	OrderCount int64
}

type StatisticsRepository interface {
	GetSalesTotals(ctx context.Context, start, end time.Time) (*SalesTotals, error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error)
	GetDailySales(ctx context.Context, start, end time.Time) ([]model.DailySales, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) GetSalesTotals(ctx context.Context, start, end time.Time) (*SalesTotals, error) {
	var result struct {
		TotalSales decimal.Decimal
		TotalPaid  decimal.Decimal
		OrderCount int64
	}
	err := r.db.WithContext(ctx).Table("orders").
		Select("COALESCE(SUM(total_amount), 0) as total_sales, COALESCE(SUM(paid_amount), 0) as total_paid, COUNT(*) as order_count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sales totals: %w", err)
	}
	return &SalesTotals{
		TotalSales: result.TotalSales,
		TotalPaid:  result.TotalPaid,
		OrderCount: result.OrderCount,
	}, nil
}

func (r *statisticsRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error) {
	var rankings []model.ProductRanking
	if err := r.db.WithContext(ctx).Table("order_items").
		Select("products.id as product_id, products.name as product_name, products.reference as product_reference, SUM(order_items.quantity) as total_quantity, SUM(order_items.total_price) as total_value").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at <= ?", start, end).
		Group("products.id, products.name, products.reference").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rankings, nil
}

func (r *statisticsRepository) GetDailySales(ctx context.Context, start, end time.Time) ([]model.DailySales, error) {
	var series []model.DailySales
	if err := r.db.WithContext(ctx).Table("orders").
		Select("DATE_TRUNC('day', created_at) as day, COUNT(*) as order_count, COALESCE(SUM(total_amount), 0) as total, COALESCE(SUM(paid_amount), 0) as paid").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("DATE_TRUNC('day', created_at)").
		Order("day ASC").
		Scan(&series).Error; err != nil {
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	return series, nil
}
