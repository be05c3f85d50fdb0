package service

import (
	"context"
	"errors"
	"fmt"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateWarehouseRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Surface  int    `json:"surface" binding:"omitempty,gte=0"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	Manager  string `json:"manager"`
	Status   string `json:"status" binding:"omitempty,oneof=actif inactif"`
}

type UpdateWarehouseRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Surface  *int    `json:"surface" binding:"omitempty,gte=0"`
	Capacity *int    `json:"capacity" binding:"omitempty,gt=0"`
	Manager  *string `json:"manager"`
	Status   *string `json:"status" binding:"omitempty,oneof=actif inactif"`
}

type WarehouseResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Surface       int     `json:"surface"`
	Capacity      int     `json:"capacity"`
	Occupied      int     `json:"occupied"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Manager       string  `json:"manager"`
	Status        string  `json:"status"`
}

type CreatePOSLocationRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	Manager  string `json:"manager"`
	Status   string `json:"status" binding:"omitempty,oneof=actif inactif"`
}

type UpdatePOSLocationRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Capacity *int    `json:"capacity" binding:"omitempty,gt=0"`
	Manager  *string `json:"manager"`
	Status   *string `json:"status" binding:"omitempty,oneof=actif inactif"`
}

type POSLocationResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Capacity      int     `json:"capacity"`
	Occupied      int     `json:"occupied"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Manager       string  `json:"manager"`
	Status        string  `json:"status"`
}

// --- Interface ---

type LocationService interface {
	CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error)
	GetWarehouseByID(ctx context.Context, id string) (*WarehouseResponse, error)
	ListWarehouses(ctx context.Context, page, limit int) ([]WarehouseResponse, int64, error)
	UpdateWarehouse(ctx context.Context, id string, req UpdateWarehouseRequest) (*WarehouseResponse, error)
	DeleteWarehouse(ctx context.Context, id string) error

	CreatePOSLocation(ctx context.Context, req CreatePOSLocationRequest) (*POSLocationResponse, error)
	GetPOSLocationByID(ctx context.Context, id string) (*POSLocationResponse, error)
	ListPOSLocations(ctx context.Context, page, limit int) ([]POSLocationResponse, int64, error)
	UpdatePOSLocation(ctx context.Context, id string, req UpdatePOSLocationRequest) (*POSLocationResponse, error)
	DeletePOSLocation(ctx context.Context, id string) error
}

type locationService struct {
	warehouseRepo repository.WarehouseRepository
	posRepo       repository.POSLocationRepository
}

func NewLocationService(warehouseRepo repository.WarehouseRepository, posRepo repository.POSLocationRepository) LocationService {
	return &locationService{warehouseRepo: warehouseRepo, posRepo: posRepo}
}

// occupancyRate is computed server-side so every client renders the same figure
func occupancyRate(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(occupied) / float64(capacity) * 100
}

// --- Warehouses ---

func (s *locationService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	status := req.Status
	if status == "" {
		status = model.LocationStatusActive
	}
	warehouse := &model.Warehouse{
		Name:     req.Name,
		Location: req.Location,
		Surface:  req.Surface,
		Capacity: req.Capacity,
		Manager:  req.Manager,
		Status:   status,
	}
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to create warehouse: %w", err)
	}
	return toWarehouseResponse(warehouse), nil
}

func (s *locationService) GetWarehouseByID(ctx context.Context, id string) (*WarehouseResponse, error) {
	warehouseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid warehouse id: %w", err)
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, errors.New("warehouse not found")
	}
	return toWarehouseResponse(warehouse), nil
}

func (s *locationService) ListWarehouses(ctx context.Context, page, limit int) ([]WarehouseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	warehouses, total, err := s.warehouseRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch warehouses: %w", err)
	}
	result := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		result = append(result, *toWarehouseResponse(&warehouses[i]))
	}
	return result, total, nil
}

func (s *locationService) UpdateWarehouse(ctx context.Context, id string, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouseID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid warehouse id: %w", err)
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, errors.New("warehouse not found")
	}

	applyString(&warehouse.Name, req.Name)
	applyString(&warehouse.Location, req.Location)
	applyString(&warehouse.Manager, req.Manager)
	applyString(&warehouse.Status, req.Status)
	if req.Surface != nil {
		warehouse.Surface = *req.Surface
	}
	if req.Capacity != nil {
		if *req.Capacity < warehouse.Occupied {
			return nil, errors.New("capacity cannot be lower than current occupancy")
		}
		warehouse.Capacity = *req.Capacity
	}

	if err := s.warehouseRepo.Update(ctx, warehouse); err != nil {
		return nil, fmt.Errorf("failed to update warehouse: %w", err)
	}
	return toWarehouseResponse(warehouse), nil
}

func (s *locationService) DeleteWarehouse(ctx context.Context, id string) error {
	warehouseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid warehouse id: %w", err)
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return errors.New("warehouse not found")
	}
	if warehouse.Occupied > 0 {
		return errors.New("cannot delete a warehouse that still holds stock")
	}
	if err := s.warehouseRepo.Delete(ctx, warehouseID); err != nil {
		return fmt.Errorf("failed to delete warehouse: %w", err)
	}
	return nil
}

// --- POS locations ---

func (s *locationService) CreatePOSLocation(ctx context.Context, req CreatePOSLocationRequest) (*POSLocationResponse, error) {
	status := req.Status
	if status == "" {
		status = model.LocationStatusActive
	}
	location := &model.POSLocation{
		Name:     req.Name,
		Address:  req.Address,
		Capacity: req.Capacity,
		Manager:  req.Manager,
		Status:   status,
	}
	if err := s.posRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create point of sale: %w", err)
	}
	return toPOSLocationResponse(location), nil
}

func (s *locationService) GetPOSLocationByID(ctx context.Context, id string) (*POSLocationResponse, error) {
	locationID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid point of sale id: %w", err)
	}
	location, err := s.posRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, errors.New("point of sale not found")
	}
	return toPOSLocationResponse(location), nil
}

func (s *locationService) ListPOSLocations(ctx context.Context, page, limit int) ([]POSLocationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	locations, total, err := s.posRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch points of sale: %w", err)
	}
	result := make([]POSLocationResponse, 0, len(locations))
	for i := range locations {
		result = append(result, *toPOSLocationResponse(&locations[i]))
	}
	return result, total, nil
}

func (s *locationService) UpdatePOSLocation(ctx context.Context, id string, req UpdatePOSLocationRequest) (*POSLocationResponse, error) {
	locationID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid point of sale id: %w", err)
	}
	location, err := s.posRepo.FindByID(ctx, locationID)
	if err != nil {
		return nil, errors.New("point of sale not found")
	}

	applyString(&location.Name, req.Name)
	applyString(&location.Address, req.Address)
	applyString(&location.Manager, req.Manager)
	applyString(&location.Status, req.Status)
	if req.Capacity != nil {
		if *req.Capacity < location.Occupied {
			return nil, errors.New("capacity cannot be lower than current occupancy")
		}
		location.Capacity = *req.Capacity
	}

	if err := s.posRepo.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to update point of sale: %w", err)
	}
	return toPOSLocationResponse(location), nil
}

func (s *locationService) DeletePOSLocation(ctx context.Context, id string) error {
	locationID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid point of sale id: %w", err)
	}
	location, err := s.posRepo.FindByID(ctx, locationID)
	if err != nil {
		return errors.New("point of sale not found")
	}
	if location.Occupied > 0 {
		return errors.New("cannot delete a point of sale that still holds stock")
	}
	if err := s.posRepo.Delete(ctx, locationID); err != nil {
		return fmt.Errorf("failed to delete point of sale: %w", err)
	}
	return nil
}

// --- Mapping ---

func toWarehouseResponse(warehouse *model.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:            warehouse.ID.String(),
		Name:          warehouse.Name,
		Location:      warehouse.Location,
		Surface:       warehouse.Surface,
		Capacity:      warehouse.Capacity,
		Occupied:      warehouse.Occupied,
		OccupancyRate: occupancyRate(warehouse.Occupied, warehouse.Capacity),
		Manager:       warehouse.Manager,
		Status:        warehouse.Status,
	}
}

func toPOSLocationResponse(location *model.POSLocation) *POSLocationResponse {
	return &POSLocationResponse{
		ID:            location.ID.String(),
		Name:          location.Name,
		Address:       location.Address,
		Capacity:      location.Capacity,
		Occupied:      location.Occupied,
		OccupancyRate: occupancyRate(location.Occupied, location.Capacity),
		Manager:       location.Manager,
		Status:        location.Status,
	}
}
