package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"salespoint/internal/model"
	"salespoint/internal/repository"
	ws "salespoint/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateProductRequest struct {
	Reference string `json:"reference" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url"`
	Price     string `json:"price" binding:"required"`
	MinStock  int    `json:"min_stock" binding:"omitempty,gte=0"`
}

type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	ImageURL *string `json:"image_url"`
	Price    *string `json:"price"`
	MinStock *int    `json:"min_stock" binding:"omitempty,gte=0"`
}

type ProductResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	ImageURL  string `json:"image_url"`
	Price     string `json:"price"`
	MinStock  int    `json:"min_stock"`
}

type StockLineResponse struct {
	ProductID   string `json:"product_id"`
	Reference   string `json:"reference"`
	ProductName string `json:"product_name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	MinStock    int    `json:"min_stock"`
	LowStock    bool   `json:"low_stock"`
}

type ReceiveStockRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	WarehouseID string `json:"warehouse_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

// --- Interface ---

type CatalogService interface {
	CreateProduct(ctx context.Context, actorID string, req CreateProductRequest) (*ProductResponse, error)
	GetProductByID(ctx context.Context, id string) (*ProductResponse, error)
	ListProducts(ctx context.Context, search, category string, page, limit int) ([]ProductResponse, int64, error)
	UpdateProduct(ctx context.Context, actorID, id string, req UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, actorID, id string) error

	// ListStock returns the stock rows held at one location, joined with
	// product details for display.
	ListStock(ctx context.Context, kind, locationID string, page, limit int) ([]StockLineResponse, int64, error)
	ListLowStock(ctx context.Context) ([]StockLineResponse, error)
	// ReceiveStock books an inbound supply into a warehouse and bumps its
	// occupancy counter.
	ReceiveStock(ctx context.Context, actorID string, req ReceiveStockRequest) error
}

type catalogService struct {
	productRepo   repository.ProductRepository
	stockRepo     repository.StockRepository
	warehouseRepo repository.WarehouseRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	warehouseRepo repository.WarehouseRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		stockRepo:     stockRepo,
		warehouseRepo: warehouseRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		hub:           hub,
	}
}

// --- Products ---

func (s *catalogService) CreateProduct(ctx context.Context, actorID string, req CreateProductRequest) (*ProductResponse, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, errors.New("invalid price")
	}

	if _, err := s.productRepo.FindByReference(ctx, req.Reference); err == nil {
		return nil, errors.New("un produit avec cette référence existe déjà")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check reference: %w", err)
	}

	product := &model.Product{
		Reference: req.Reference,
		Name:      req.Name,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
		Price:     price,
		MinStock:  req.MinStock,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.productRepo.Create(txCtx, product); createErr != nil {
			return fmt.Errorf("failed to create product: %w", createErr)
		}
		return s.auditProduct(txCtx, actorID, model.ActionCreateProduct, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *catalogService) GetProductByID(ctx context.Context, id string) (*ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.New("product not found")
	}
	return toProductResponse(product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, search, category string, page, limit int) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	products, total, err := s.productRepo.List(ctx, search, category, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	result := make([]ProductResponse, 0, len(products))
	for i := range products {
		result = append(result, *toProductResponse(&products[i]))
	}
	return result, total, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actorID, id string, req UpdateProductRequest) (*ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, errors.New("product not found")
	}

	applyString(&product.Name, req.Name)
	applyString(&product.Category, req.Category)
	applyString(&product.ImageURL, req.ImageURL)
	if req.Price != nil {
		price, parseErr := decimal.NewFromString(*req.Price)
		if parseErr != nil || price.IsNegative() {
			return nil, errors.New("invalid price")
		}
		product.Price = price
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.productRepo.Update(txCtx, product); updateErr != nil {
			return fmt.Errorf("failed to update product: %w", updateErr)
		}
		return s.auditProduct(txCtx, actorID, model.ActionUpdateProduct, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, actorID, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return errors.New("product not found")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if deleteErr := s.productRepo.Delete(txCtx, productID); deleteErr != nil {
			return fmt.Errorf("failed to delete product: %w", deleteErr)
		}
		return s.auditProduct(txCtx, actorID, model.ActionDeleteProduct, product)
	})
}

// --- Stock ---

func (s *catalogService) ListStock(ctx context.Context, kind, locationID string, page, limit int) ([]StockLineResponse, int64, error) {
	if kind != model.LocationKindWarehouse && kind != model.LocationKindPOS {
		return nil, 0, errors.New("invalid location kind")
	}
	locID, err := uuid.Parse(locationID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid location id: %w", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	stocks, total, err := s.stockRepo.ListForLocation(ctx, kind, locID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stock: %w", err)
	}
	return toStockLines(stocks), total, nil
}

func (s *catalogService) ListLowStock(ctx context.Context) ([]StockLineResponse, error) {
	stocks, err := s.stockRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock: %w", err)
	}
	return toStockLines(stocks), nil
}

func (s *catalogService) ReceiveStock(ctx context.Context, actorID string, req ReceiveStockRequest) error {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product_id: %w", err)
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return fmt.Errorf("invalid warehouse_id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return errors.New("product not found")
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return errors.New("warehouse not found")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if addErr := s.stockRepo.Add(txCtx, productID, model.LocationKindWarehouse, warehouseID, req.Quantity); addErr != nil {
			return fmt.Errorf("failed to add stock: %w", addErr)
		}
		if occErr := s.warehouseRepo.AdjustOccupied(txCtx, warehouseID, req.Quantity); occErr != nil {
			return fmt.Errorf("failed to adjust occupancy: %w", occErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"warehouse_id": warehouseID.String(),
			"quantity":     req.Quantity,
		})
		var uid *uuid.UUID
		if parsed, parseErr := uuid.Parse(actorID); parseErr == nil {
			uid = &parsed
		}
		entry := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionReceiveStock,
			EntityID:   product.ID.String(),
			EntityName: product.Name,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, entry); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		for _, event := range []string{ws.EventStockUpdated, ws.EventOccupancyUpdated} {
			payload, _ := json.Marshal(ws.Event{
				Event: event,
				Data: map[string]interface{}{
					"location_kind": model.LocationKindWarehouse,
					"location_id":   warehouseID.String(),
				},
			})
			s.hub.Broadcast <- payload
		}
	}
	return nil
}

// --- Helpers ---

func (s *catalogService) auditProduct(ctx context.Context, actorID, action string, product *model.Product) error {
	var uid *uuid.UUID
	if parsed, err := uuid.Parse(actorID); err == nil {
		uid = &parsed
	}
	details, _ := json.Marshal(map[string]interface{}{
		"reference": product.Reference,
	})
	entry := &model.AuditLog{
		UserID:     uid,
		Action:     action,
		EntityID:   product.ID.String(),
		EntityName: product.Name,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func toProductResponse(product *model.Product) *ProductResponse {
	return &ProductResponse{
		ID:        product.ID.String(),
		Reference: product.Reference,
		Name:      product.Name,
		Category:  product.Category,
		ImageURL:  product.ImageURL,
		Price:     product.Price.StringFixed(2),
		MinStock:  product.MinStock,
	}
}

func toStockLines(stocks []model.LocationStock) []StockLineResponse {
	lines := make([]StockLineResponse, 0, len(stocks))
	for _, stock := range stocks {
		line := StockLineResponse{
			ProductID: stock.ProductID.String(),
			Quantity:  stock.Quantity,
		}
		if stock.Product != nil {
			line.Reference = stock.Product.Reference
			line.ProductName = stock.Product.Name
			line.Category = stock.Product.Category
			line.Price = stock.Product.Price.StringFixed(2)
			line.MinStock = stock.Product.MinStock
			line.LowStock = stock.Quantity < stock.Product.MinStock
		}
		lines = append(lines, line)
	}
	return lines
}
