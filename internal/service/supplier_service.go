package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateSupplierRequest struct {
	Name      string `json:"name" binding:"required"`
	Contact   string `json:"contact"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone"`
	Landline  string `json:"landline"`
	Website   string `json:"website"`
	Address   string `json:"address"`
	Country   string `json:"country"`
	City      string `json:"city"`
	PostalBox string `json:"postal_box"`
	Status    string `json:"status" binding:"omitempty,oneof=actif en_attente inactif"`
}

type UpdateSupplierRequest struct {
	Name      *string `json:"name"`
	Contact   *string `json:"contact"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
	Landline  *string `json:"landline"`
	Website   *string `json:"website"`
	Address   *string `json:"address"`
	Country   *string `json:"country"`
	City      *string `json:"city"`
	PostalBox *string `json:"postal_box"`
	Status    *string `json:"status" binding:"omitempty,oneof=actif en_attente inactif"`
}

// SupplierStatusCounts feeds the summary cards above the supplier table
type SupplierStatusCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Pending  int64 `json:"pending"`
	Inactive int64 `json:"inactive"`
}

// --- Interface ---

type SupplierService interface {
	CreateSupplier(ctx context.Context, actorID string, req CreateSupplierRequest) (*model.Supplier, error)
	GetSupplierByID(ctx context.Context, id string) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, filter repository.SupplierListFilter) ([]model.Supplier, int64, error)
	CountByStatus(ctx context.Context) (*SupplierStatusCounts, error)
	UpdateSupplier(ctx context.Context, actorID, id string, req UpdateSupplierRequest) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, actorID, id string) error
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewSupplierService(supplierRepo repository.SupplierRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) SupplierService {
	return &supplierService{supplierRepo: supplierRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func (s *supplierService) CreateSupplier(ctx context.Context, actorID string, req CreateSupplierRequest) (*model.Supplier, error) {
	status := req.Status
	if status == "" {
		// new suppliers await validation before becoming orderable
		status = model.SupplierStatusPending
	}

	supplier := &model.Supplier{
		Name:      req.Name,
		Contact:   req.Contact,
		Email:     req.Email,
		Phone:     req.Phone,
		Landline:  req.Landline,
		Website:   req.Website,
		Address:   req.Address,
		Country:   req.Country,
		City:      req.City,
		PostalBox: req.PostalBox,
		Status:    status,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.supplierRepo.Create(txCtx, supplier); createErr != nil {
			return fmt.Errorf("failed to create supplier: %w", createErr)
		}
		return s.audit(txCtx, actorID, model.ActionCreateSupplier, supplier.ID.String(), supplier.Name, map[string]interface{}{
			"status": supplier.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) GetSupplierByID(ctx context.Context, id string) (*model.Supplier, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier id: %w", err)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, filter repository.SupplierListFilter) ([]model.Supplier, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.supplierRepo.List(ctx, filter)
}

func (s *supplierService) CountByStatus(ctx context.Context) (*SupplierStatusCounts, error) {
	byStatus, err := s.supplierRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}
	counts := &SupplierStatusCounts{
		Active:   byStatus[model.SupplierStatusActive],
		Pending:  byStatus[model.SupplierStatusPending],
		Inactive: byStatus[model.SupplierStatusInactive],
	}
	for _, n := range byStatus {
		counts.Total += n
	}
	return counts, nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, actorID, id string, req UpdateSupplierRequest) (*model.Supplier, error) {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid supplier id: %w", err)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, errors.New("supplier not found")
	}

	applyString(&supplier.Name, req.Name)
	applyString(&supplier.Contact, req.Contact)
	applyString(&supplier.Email, req.Email)
	applyString(&supplier.Phone, req.Phone)
	applyString(&supplier.Landline, req.Landline)
	applyString(&supplier.Website, req.Website)
	applyString(&supplier.Address, req.Address)
	applyString(&supplier.Country, req.Country)
	applyString(&supplier.City, req.City)
	applyString(&supplier.PostalBox, req.PostalBox)
	applyString(&supplier.Status, req.Status)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.supplierRepo.Update(txCtx, supplier); updateErr != nil {
			return fmt.Errorf("failed to update supplier: %w", updateErr)
		}
		return s.audit(txCtx, actorID, model.ActionUpdateSupplier, supplier.ID.String(), supplier.Name, map[string]interface{}{
			"status": supplier.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, actorID, id string) error {
	supplierID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid supplier id: %w", err)
	}
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return errors.New("supplier not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.supplierRepo.Delete(txCtx, supplierID); deleteErr != nil {
			return fmt.Errorf("failed to delete supplier: %w", deleteErr)
		}
		return s.audit(txCtx, actorID, model.ActionDeleteSupplier, supplier.ID.String(), supplier.Name, nil)
	})
}

func (s *supplierService) audit(ctx context.Context, actorID, action, entityID, entityName string, details map[string]interface{}) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		uid = &parsed
	}
	payload := ""
	if details != nil {
		raw, _ := json.Marshal(details)
		payload = string(raw)
	}
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// applyString copies an optional request field onto the model when present
func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
