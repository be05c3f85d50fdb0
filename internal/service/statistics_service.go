package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salespoint/internal/model"
	"salespoint/internal/repository"
)

const topProductsLimit = 5

type StatisticsService interface {
	GetStatistics(ctx context.Context, startDate, endDate time.Time) (*model.StatisticsResponse, error)
}

type statisticsService struct {
	statsRepo repository.StatisticsRepository
}

func NewStatisticsService(statsRepo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{statsRepo: statsRepo}
}

// GetStatistics aggregates sales figures over a date range for the dashboard
func (s *statisticsService) GetStatistics(ctx context.Context, startDate, endDate time.Time) (*model.StatisticsResponse, error) {
	if endDate.Before(startDate) {
		return nil, errors.New("end date must not precede start date")
	}

	response := &model.StatisticsResponse{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}

	totals, err := s.statsRepo.GetSalesTotals(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales totals: %w", err)
	}
	response.TotalSales = totals.TotalSales
	response.TotalPaid = totals.TotalPaid
	response.TotalOutstanding = totals.TotalSales.Sub(totals.TotalPaid)
	response.OrderCount = totals.OrderCount

	topProducts, err := s.statsRepo.GetTopProducts(ctx, startDate, endDate, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top products: %w", err)
	}
	response.TopProducts = topProducts

	dailySales, err := s.statsRepo.GetDailySales(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily sales: %w", err)
	}
	response.DailySales = dailySales

	return response, nil
}
