package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateClientRequest struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
}

type UpdateClientRequest struct {
	CompanyName *string `json:"company_name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*model.Client, error)
	GetClientByID(ctx context.Context, id string) (*model.Client, error)
	ListClients(ctx context.Context, search string, page, limit int) ([]model.Client, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*model.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	txManager  repository.TransactionManager
}

func NewClientService(clientRepo repository.ClientRepository, txManager repository.TransactionManager) ClientService {
	return &clientService{clientRepo: clientRepo, txManager: txManager}
}

// --- Implementation ---

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*model.Client, error) {
	client := &model.Client{
		CompanyName: req.CompanyName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
	}

	// code generation and insert share a transaction so two concurrent
	// creations cannot claim the same sequence number
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.generateClientCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate client code: %w", codeErr)
		}
		client.ClientCode = code
		if createErr := s.clientRepo.Create(txCtx, client); createErr != nil {
			return fmt.Errorf("failed to create client: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*model.Client, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, errors.New("client not found")
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, search string, page, limit int) ([]model.Client, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.clientRepo.List(ctx, search, page, limit)
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (*model.Client, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid client id: %w", err)
	}
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, errors.New("client not found")
	}

	applyString(&client.CompanyName, req.CompanyName)
	applyString(&client.ContactName, req.ContactName)
	applyString(&client.Email, req.Email)
	applyString(&client.Phone, req.Phone)
	applyString(&client.Address, req.Address)
	applyString(&client.City, req.City)

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return errors.New("client not found")
	}
	if err := s.clientRepo.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

func (s *clientService) generateClientCode(ctx context.Context) (string, error) {
	prefix := "CLI-" + time.Now().Format("2006") + "-"
	count, err := s.clientRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
