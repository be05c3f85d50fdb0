package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salespoint/internal/model"
	"salespoint/internal/repository"
	ws "salespoint/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type TransferItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CreateTransferRequest struct {
	Type          string                `json:"type" binding:"required,oneof=depot_to_pos pos_to_depot depot_to_depot"`
	SourceID      string                `json:"source_id" binding:"required"`
	DestinationID string                `json:"destination_id" binding:"required"`
	Items         []TransferItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes         string                `json:"notes"`
}

type TransferItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type TransferResponse struct {
	ID              string                 `json:"id"`
	TransferCode    string                 `json:"transfer_code"`
	Type            string                 `json:"type"`
	SourceKind      string                 `json:"source_kind"`
	SourceID        string                 `json:"source_id"`
	DestinationKind string                 `json:"destination_kind"`
	DestinationID   string                 `json:"destination_id"`
	Status          string                 `json:"status"`
	Notes           string                 `json:"notes"`
	Items           []TransferItemResponse `json:"items"`
	CreatedAt       string                 `json:"created_at"`
}

// --- Interface ---

type TransferService interface {
	// CreateTransfer moves stock between locations in one transaction:
	// source decrement (guarded), destination increment, occupancy counters,
	// audit entry. A failed step rolls back everything.
	CreateTransfer(ctx context.Context, userID string, req CreateTransferRequest) (*TransferResponse, error)
	GetTransfer(ctx context.Context, id string) (*TransferResponse, error)
	ListTransfers(ctx context.Context, transferType string, page, limit int) ([]TransferResponse, int64, error)
}

type transferService struct {
	transferRepo  repository.TransferRepository
	stockRepo     repository.StockRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	posRepo       repository.POSLocationRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewTransferService(
	transferRepo repository.TransferRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	posRepo repository.POSLocationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) TransferService {
	return &transferService{
		transferRepo:  transferRepo,
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		posRepo:       posRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// transferKinds maps a transfer type to its (source, destination) location kinds
func transferKinds(transferType string) (sourceKind, destKind string, err error) {
	switch transferType {
	case model.TransferDepotToPOS:
		return model.LocationKindWarehouse, model.LocationKindPOS, nil
	case model.TransferPOSToDepot:
		return model.LocationKindPOS, model.LocationKindWarehouse, nil
	case model.TransferDepotToDepot:
		return model.LocationKindWarehouse, model.LocationKindWarehouse, nil
	default:
		return "", "", fmt.Errorf("unknown transfer type: %s", transferType)
	}
}

// --- Implementation ---

func (s *transferService) CreateTransfer(ctx context.Context, userID string, req CreateTransferRequest) (*TransferResponse, error) {
	sourceKind, destKind, err := transferKinds(req.Type)
	if err != nil {
		return nil, err
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		return nil, fmt.Errorf("invalid source_id: %w", err)
	}
	destID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("invalid destination_id: %w", err)
	}
	if sourceKind == destKind && sourceID == destID {
		return nil, errors.New("source and destination must differ")
	}

	if err := s.checkLocation(ctx, sourceKind, sourceID); err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, destKind, destID); err != nil {
		return nil, err
	}

	var uid *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		uid = &parsed
	}

	var transfer *model.StockTransfer
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.generateTransferCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate transfer code: %w", codeErr)
		}

		transfer = &model.StockTransfer{
			TransferCode:    code,
			Type:            req.Type,
			SourceKind:      sourceKind,
			SourceID:        sourceID,
			DestinationKind: destKind,
			DestinationID:   destID,
			Status:          model.TransferStatusCompleted,
			Notes:           req.Notes,
			CreatedBy:       uid,
		}
		if createErr := s.transferRepo.Create(txCtx, transfer); createErr != nil {
			return fmt.Errorf("failed to create transfer: %w", createErr)
		}

		totalUnits := 0
		for _, itemReq := range req.Items {
			pid, parseErr := uuid.Parse(itemReq.ProductID)
			if parseErr != nil {
				return fmt.Errorf("invalid product_id: %w", parseErr)
			}
			product, findErr := s.productRepo.FindByID(txCtx, pid)
			if findErr != nil {
				return fmt.Errorf("product not found: %s", itemReq.ProductID)
			}

			item := &model.TransferItem{
				TransferID: transfer.ID,
				ProductID:  pid,
				Quantity:   itemReq.Quantity,
			}
			if itemErr := s.transferRepo.CreateItem(txCtx, item); itemErr != nil {
				return fmt.Errorf("failed to create transfer item: %w", itemErr)
			}

			if stockErr := s.stockRepo.Deduct(txCtx, pid, sourceKind, sourceID, itemReq.Quantity); stockErr != nil {
				if errors.Is(stockErr, repository.ErrInsufficientStock) {
					return fmt.Errorf("stock insuffisant pour %s", product.Name)
				}
				return fmt.Errorf("failed to deduct source stock: %w", stockErr)
			}
			if stockErr := s.stockRepo.Add(txCtx, pid, destKind, destID, itemReq.Quantity); stockErr != nil {
				return fmt.Errorf("failed to add destination stock: %w", stockErr)
			}

			totalUnits += itemReq.Quantity
		}

		if occErr := s.adjustOccupied(txCtx, sourceKind, sourceID, -totalUnits); occErr != nil {
			return occErr
		}
		if occErr := s.adjustOccupied(txCtx, destKind, destID, totalUnits); occErr != nil {
			return occErr
		}

		details, _ := json.Marshal(map[string]interface{}{
			"transfer_code": transfer.TransferCode,
			"type":          req.Type,
			"total_units":   totalUnits,
			"line_count":    len(req.Items),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionCreateTransfer,
			EntityID:   transfer.ID.String(),
			EntityName: transfer.TransferCode,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(ws.EventStockUpdated, sourceKind, sourceID)
	s.broadcast(ws.EventStockUpdated, destKind, destID)
	s.broadcast(ws.EventOccupancyUpdated, sourceKind, sourceID)
	s.broadcast(ws.EventOccupancyUpdated, destKind, destID)

	reloaded, err := s.transferRepo.FindByID(ctx, transfer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload transfer: %w", err)
	}
	return toTransferResponse(reloaded), nil
}

func (s *transferService) GetTransfer(ctx context.Context, id string) (*TransferResponse, error) {
	transferID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transfer id: %w", err)
	}
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, errors.New("transfer not found")
	}
	return toTransferResponse(transfer), nil
}

func (s *transferService) ListTransfers(ctx context.Context, transferType string, page, limit int) ([]TransferResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	transfers, total, err := s.transferRepo.List(ctx, transferType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transfers: %w", err)
	}

	result := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		result = append(result, *toTransferResponse(&transfers[i]))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *transferService) checkLocation(ctx context.Context, kind string, id uuid.UUID) error {
	switch kind {
	case model.LocationKindWarehouse:
		if _, err := s.warehouseRepo.FindByID(ctx, id); err != nil {
			return errors.New("warehouse not found")
		}
	case model.LocationKindPOS:
		if _, err := s.posRepo.FindByID(ctx, id); err != nil {
			return errors.New("point of sale not found")
		}
	}
	return nil
}

func (s *transferService) adjustOccupied(ctx context.Context, kind string, id uuid.UUID, delta int) error {
	var err error
	switch kind {
	case model.LocationKindWarehouse:
		err = s.warehouseRepo.AdjustOccupied(ctx, id, delta)
	case model.LocationKindPOS:
		err = s.posRepo.AdjustOccupied(ctx, id, delta)
	}
	if err != nil {
		return fmt.Errorf("failed to adjust occupancy: %w", err)
	}
	return nil
}

func (s *transferService) generateTransferCode(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "TRF-" + today + "-"

	count, err := s.transferRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *transferService) broadcast(event, kind string, id uuid.UUID) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(ws.Event{
		Event: event,
		Data: map[string]interface{}{
			"location_kind": kind,
			"location_id":   id.String(),
		},
	})
	s.hub.Broadcast <- payload
}

// --- Mapping ---

func toTransferResponse(transfer *model.StockTransfer) *TransferResponse {
	resp := &TransferResponse{
		ID:              transfer.ID.String(),
		TransferCode:    transfer.TransferCode,
		Type:            transfer.Type,
		SourceKind:      transfer.SourceKind,
		SourceID:        transfer.SourceID.String(),
		DestinationKind: transfer.DestinationKind,
		DestinationID:   transfer.DestinationID.String(),
		Status:          transfer.Status,
		Notes:           transfer.Notes,
		CreatedAt:       transfer.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range transfer.Items {
		itemResp := TransferItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			itemResp.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}
