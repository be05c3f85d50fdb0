package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// unknownProductName labels line items whose product reference no longer
// resolves, instead of failing the whole listing.
const unknownProductName = "Produit inconnu"

// --- DTOs ---

type CreatePreorderRequest struct {
	ClientID string            `json:"client_id" binding:"required"`
	Items    []CartItemRequest `json:"items" binding:"required,min=1,dive"`
	Amount   string            `json:"amount"` // advance payment, defaults to 0
	Notes    string            `json:"notes"`
}

type PreorderItemResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Discount     string `json:"discount"`
	TotalPrice   string `json:"total_price"`
}

type PreorderResponse struct {
	ID              string                 `json:"id"`
	PreorderCode    string                 `json:"preorder_code"`
	ClientID        string                 `json:"client_id"`
	ClientName      string                 `json:"client_name"`
	Subtotal        string                 `json:"subtotal"`
	DiscountTotal   string                 `json:"discount_total"`
	TotalAmount     string                 `json:"total_amount"`
	PaidAmount      string                 `json:"paid_amount"`
	RemainingAmount string                 `json:"remaining_amount"`
	Status          string                 `json:"status"`
	Notes           string                 `json:"notes"`
	Items           []PreorderItemResponse `json:"items"`
	CreatedAt       string                 `json:"created_at"`
}

// --- Interface ---

type PreorderService interface {
	CreatePreorder(ctx context.Context, req CreatePreorderRequest) (*PreorderResponse, error)
	GetPreorder(ctx context.Context, id string) (*PreorderResponse, error)
	// ListPreorders performs the two-phase fetch: the primary listing with
	// nested line items, then one batch product lookup merged in-process.
	ListPreorders(ctx context.Context, filter repository.PreorderListFilter) ([]PreorderResponse, int64, error)
	// RecordPayment applies a payment to a preorder balance under the row
	// lock, same contract as invoice reconciliation.
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (*PreorderResponse, error)
}

type preorderService struct {
	preorderRepo repository.PreorderRepository
	productRepo  repository.ProductRepository
	clientRepo   repository.ClientRepository
	txManager    repository.TransactionManager
}

func NewPreorderService(
	preorderRepo repository.PreorderRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	txManager repository.TransactionManager,
) PreorderService {
	return &preorderService{
		preorderRepo: preorderRepo,
		productRepo:  productRepo,
		clientRepo:   clientRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *preorderService) CreatePreorder(ctx context.Context, req CreatePreorderRequest) (*PreorderResponse, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid client_id: %w", err)
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, errors.New("client not found")
	}

	lines, err := parseCart(req.Items)
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	if req.Amount != "" {
		amount, err = decimal.NewFromString(req.Amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		if amount.IsNegative() {
			return nil, errors.New("amount cannot be negative")
		}
	}

	subtotal, discountTotal, total := computeTotals(lines)
	if amount.GreaterThan(total) {
		amount = total
	}

	var preorder *model.Preorder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.generatePreorderCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate preorder code: %w", codeErr)
		}

		preorder = &model.Preorder{
			PreorderCode:    code,
			ClientID:        clientID,
			Subtotal:        subtotal,
			DiscountTotal:   discountTotal,
			TotalAmount:     total,
			PaidAmount:      amount,
			RemainingAmount: total.Sub(amount),
			Status:          derivePaymentStatus(amount, total),
			Notes:           req.Notes,
		}
		for _, line := range lines {
			preorder.Items = append(preorder.Items, model.PreorderItem{
				ProductID:  line.productID,
				Quantity:   line.quantity,
				UnitPrice:  line.unitPrice,
				Discount:   line.discount,
				TotalPrice: line.total,
			})
		}
		if createErr := s.preorderRepo.Create(txCtx, preorder); createErr != nil {
			return fmt.Errorf("failed to create preorder: %w", createErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.preorderRepo.FindByID(ctx, preorder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload preorder: %w", err)
	}

	enriched, err := s.enrich(ctx, []model.Preorder{*reloaded})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

func (s *preorderService) GetPreorder(ctx context.Context, id string) (*PreorderResponse, error) {
	preorderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid preorder id: %w", err)
	}
	preorder, err := s.preorderRepo.FindByID(ctx, preorderID)
	if err != nil {
		return nil, errors.New("preorder not found")
	}

	enriched, err := s.enrich(ctx, []model.Preorder{*preorder})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

func (s *preorderService) ListPreorders(ctx context.Context, filter repository.PreorderListFilter) ([]PreorderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	preorders, total, err := s.preorderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch preorders: %w", err)
	}

	enriched, err := s.enrich(ctx, preorders)
	if err != nil {
		return nil, 0, err
	}
	return enriched, total, nil
}

func (s *preorderService) RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (*PreorderResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("veuillez entrer un montant valide")
	}

	preorderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid preorder id: %w", err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		preorder, findErr := s.preorderRepo.FindByIDForUpdate(txCtx, preorderID)
		if findErr != nil {
			return errors.New("preorder not found")
		}

		// Re-check under the lock: the balance the caller saw may be stale.
		if amount.GreaterThan(preorder.RemainingAmount) {
			return ErrAmountExceedsBalance
		}

		preorder.PaidAmount = preorder.PaidAmount.Add(amount)
		preorder.RemainingAmount = preorder.RemainingAmount.Sub(amount)
		if preorder.RemainingAmount.IsZero() {
			preorder.Status = model.PreorderStatusPaid
		} else {
			preorder.Status = model.PreorderStatusPartial
		}

		if updateErr := s.preorderRepo.Update(txCtx, preorder); updateErr != nil {
			return fmt.Errorf("failed to update preorder balance: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reloaded, err := s.preorderRepo.FindByID(ctx, preorderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload preorder: %w", err)
	}
	enriched, err := s.enrich(ctx, []model.Preorder{*reloaded})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// enrich attaches product details to preorder line items. The backing store
// holds items and products in separate tables with no eager join path, so a
// single batched lookup resolves every referenced product, and lines whose
// product vanished fall back to a placeholder.
func (s *preorderService) enrich(ctx context.Context, preorders []model.Preorder) ([]PreorderResponse, error) {
	idSet := make(map[uuid.UUID]struct{})
	for _, preorder := range preorders {
		for _, item := range preorder.Items {
			idSet[item.ProductID] = struct{}{}
		}
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	result := make([]PreorderResponse, 0, len(preorders))
	for i := range preorders {
		result = append(result, *toPreorderResponse(&preorders[i], byID))
	}
	return result, nil
}

func (s *preorderService) generatePreorderCode(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "PRE-" + today + "-"

	count, err := s.preorderRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toPreorderResponse(preorder *model.Preorder, products map[uuid.UUID]*model.Product) *PreorderResponse {
	resp := &PreorderResponse{
		ID:              preorder.ID.String(),
		PreorderCode:    preorder.PreorderCode,
		ClientID:        preorder.ClientID.String(),
		Subtotal:        preorder.Subtotal.StringFixed(2),
		DiscountTotal:   preorder.DiscountTotal.StringFixed(2),
		TotalAmount:     preorder.TotalAmount.StringFixed(2),
		PaidAmount:      preorder.PaidAmount.StringFixed(2),
		RemainingAmount: preorder.RemainingAmount.StringFixed(2),
		Status:          preorder.Status,
		Notes:           preorder.Notes,
		CreatedAt:       preorder.CreatedAt.Format(time.RFC3339),
	}
	if preorder.Client != nil {
		resp.ClientName = preorder.Client.CompanyName
		if resp.ClientName == "" {
			resp.ClientName = preorder.Client.ContactName
		}
	}

	resp.Items = make([]PreorderItemResponse, 0, len(preorder.Items))
	for _, item := range preorder.Items {
		itemResp := PreorderItemResponse{
			ID:          item.ID.String(),
			ProductID:   item.ProductID.String(),
			ProductName: unknownProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Discount:    item.Discount.StringFixed(2),
			TotalPrice:  item.TotalPrice.StringFixed(2),
		}
		if product, ok := products[item.ProductID]; ok {
			itemResp.ProductName = product.Name
			itemResp.ProductImage = product.ImageURL
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}
