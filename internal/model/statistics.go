package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRanking is one row of the top-selling products board
type ProductRanking struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	ProductReference string          `json:"product_reference"`
	TotalQuantity    int64           `json:"total_quantity"`
	TotalValue       decimal.Decimal `json:"total_value"`
}

// DailySales is one point of the per-day sales series
type DailySales struct {
	Day        time.Time       `json:"day"`
	OrderCount int64           `json:"order_count"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
}

// StatisticsResponse aggregates dashboard metrics over a date range
type StatisticsResponse struct {
	TimeRangeStartDate time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time        `json:"time_range_end_date"`
	TotalSales         decimal.Decimal  `json:"total_sales"`
	TotalPaid          decimal.Decimal  `json:"total_paid"`
	TotalOutstanding   decimal.Decimal  `json:"total_outstanding"`
	OrderCount         int64            `json:"order_count"`
	TopProducts        []ProductRanking `json:"top_products"`
	DailySales         []DailySales     `json:"daily_sales"`
}
