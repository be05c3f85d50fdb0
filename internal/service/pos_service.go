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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice string `json:"unit_price" binding:"required"`
	Discount  string `json:"discount"` // per-line discount amount, defaults to 0
}

type DeliveredItemRequest struct {
	Delivered bool `json:"delivered"`
	Quantity  int  `json:"quantity"`
}

type CheckoutRequest struct {
	ClientID           string                          `json:"client_id"`
	POSLocationID      string                          `json:"pos_location_id" binding:"required"`
	Items              []CartItemRequest               `json:"items" binding:"required,min=1,dive"`
	Amount             string                          `json:"amount" binding:"required"` // initial payment, "0" allowed
	Method             string                          `json:"method" binding:"required,oneof=cash bank_transfer check mobile_money"`
	Notes              string                          `json:"notes"`
	Delivered          bool                            `json:"delivered"`
	PartiallyDelivered bool                            `json:"partially_delivered"`
	DeliveredItems     map[string]DeliveredItemRequest `json:"delivered_items"` // product_id -> delivery detail
	EditOrderID        string                          `json:"edit_order_id"`   // non-empty reruns checkout against an existing order
}

type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Discount    string `json:"discount"`
	TotalPrice  string `json:"total_price"`
	Delivered   bool   `json:"delivered"`
	DeliveredQ  int    `json:"delivered_quantity"`
}

type PaymentResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	Amount    string `json:"amount"`
	Method    string `json:"method"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	OrderCode       string              `json:"order_code"`
	ClientID        *string             `json:"client_id"`
	ClientName      string              `json:"client_name"`
	POSLocationID   string              `json:"pos_location_id"`
	POSLocationName string              `json:"pos_location_name"`
	Subtotal        string              `json:"subtotal"`
	DiscountTotal   string              `json:"discount_total"`
	TotalAmount     string              `json:"total_amount"`
	PaidAmount      string              `json:"paid_amount"`
	RemainingAmount string              `json:"remaining_amount"`
	PaymentStatus   string              `json:"payment_status"`
	DeliveryStatus  string              `json:"delivery_status"`
	Notes           string              `json:"notes"`
	Items           []OrderItemResponse `json:"items"`
	Payments        []PaymentResponse   `json:"payments,omitempty"`
	CreatedAt       string              `json:"created_at"`
}

// --- Interface ---

type POSService interface {
	// Checkout persists the order, its lines, the initial payment, and the
	// stock deductions in one transaction, then returns the invoice view.
	Checkout(ctx context.Context, userID string, req CheckoutRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, id string) (*OrderResponse, error)
	ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]OrderResponse, int64, error)
}

type posService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	clientRepo  repository.ClientRepository
	posRepo     repository.POSLocationRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
}

func NewPOSService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	clientRepo repository.ClientRepository,
	posRepo repository.POSLocationRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) POSService {
	return &posService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		clientRepo:  clientRepo,
		posRepo:     posRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		hub:         hub,
	}
}

// --- Pure derivations ---

// deriveDeliveryStatus classifies the delivery flags at submission time.
// "delivered" wins over "partial"; neither flag means the order awaits delivery.
func deriveDeliveryStatus(delivered, partiallyDelivered bool) string {
	if delivered {
		return model.DeliveryStatusDelivered
	}
	if partiallyDelivered {
		return model.DeliveryStatusPartial
	}
	return model.DeliveryStatusAwaiting
}

// derivePaymentStatus is a pure function of (amount, total):
// zero → pending, at least the total → paid, anything between → partial.
func derivePaymentStatus(amount, total decimal.Decimal) string {
	if amount.LessThanOrEqual(decimal.Zero) {
		return model.PaymentStatusPending
	}
	if amount.GreaterThanOrEqual(total) {
		return model.PaymentStatusPaid
	}
	return model.PaymentStatusPartial
}

type cartLine struct {
	productID uuid.UUID
	quantity  int
	unitPrice decimal.Decimal
	discount  decimal.Decimal
	total     decimal.Decimal
}

// computeTotals sums the parsed cart: subtotal before discounts, the discount
// total, and the grand total.
func computeTotals(lines []cartLine) (subtotal, discountTotal, total decimal.Decimal) {
	subtotal = decimal.Zero
	discountTotal = decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity))))
		discountTotal = discountTotal.Add(l.discount)
	}
	total = subtotal.Sub(discountTotal)
	return subtotal, discountTotal, total
}

func parseCart(items []CartItemRequest) ([]cartLine, error) {
	lines := make([]cartLine, 0, len(items))
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid unit_price: %w", err)
		}
		discount := decimal.Zero
		if item.Discount != "" {
			discount, err = decimal.NewFromString(item.Discount)
			if err != nil {
				return nil, fmt.Errorf("invalid discount: %w", err)
			}
		}
		if discount.IsNegative() {
			return nil, errors.New("discount cannot be negative")
		}
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Sub(discount)
		if lineTotal.IsNegative() {
			return nil, errors.New("discount cannot exceed line amount")
		}
		lines = append(lines, cartLine{
			productID: pid,
			quantity:  item.Quantity,
			unitPrice: unitPrice,
			discount:  discount,
			total:     lineTotal,
		})
	}
	return lines, nil
}

// --- Implementation ---

func (s *posService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*OrderResponse, error) {
	lines, err := parseCart(req.Items)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return nil, errors.New("amount cannot be negative")
	}

	posID, err := uuid.Parse(req.POSLocationID)
	if err != nil {
		return nil, fmt.Errorf("invalid pos_location_id: %w", err)
	}
	if _, err := s.posRepo.FindByID(ctx, posID); err != nil {
		return nil, errors.New("point of sale not found")
	}

	var clientID *uuid.UUID
	if req.ClientID != "" {
		parsed, parseErr := uuid.Parse(req.ClientID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid client_id: %w", parseErr)
		}
		if _, err := s.clientRepo.FindByID(ctx, parsed); err != nil {
			return nil, errors.New("client not found")
		}
		clientID = &parsed
	}

	subtotal, discountTotal, total := computeTotals(lines)
	deliveryStatus := deriveDeliveryStatus(req.Delivered, req.PartiallyDelivered)
	paymentStatus := derivePaymentStatus(amount, total)

	// Overpayment at the register is change handed back, not credit: the
	// recorded paid amount never exceeds the order total.
	paid := amount
	if paid.GreaterThan(total) {
		paid = total
	}
	remaining := total.Sub(paid)

	var uid *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		uid = &parsed
	}

	var order *model.Order
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.EditOrderID != "" {
			order, err = s.reopenOrder(txCtx, req.EditOrderID, posID)
			if err != nil {
				return err
			}
		} else {
			code, codeErr := s.generateOrderCode(txCtx)
			if codeErr != nil {
				return fmt.Errorf("failed to generate order code: %w", codeErr)
			}
			order = &model.Order{OrderCode: code}
			order.POSLocationID = posID
		}

		order.ClientID = clientID
		order.Subtotal = subtotal
		order.DiscountTotal = discountTotal
		order.TotalAmount = total
		order.PaidAmount = paid
		order.RemainingAmount = remaining
		order.PaymentStatus = paymentStatus
		order.DeliveryStatus = deliveryStatus
		order.Notes = req.Notes
		order.CreatedBy = uid

		if req.EditOrderID != "" {
			if updateErr := s.orderRepo.Update(txCtx, order); updateErr != nil {
				return fmt.Errorf("failed to update order: %w", updateErr)
			}
		} else if createErr := s.orderRepo.Create(txCtx, order); createErr != nil {
			return fmt.Errorf("failed to create order: %w", createErr)
		}

		totalUnits := 0
		for _, line := range lines {
			product, findErr := s.productRepo.FindByID(txCtx, line.productID)
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product not found: %s", line.productID)
				}
				return fmt.Errorf("failed to find product: %w", findErr)
			}

			item := &model.OrderItem{
				OrderID:    order.ID,
				ProductID:  line.productID,
				Quantity:   line.quantity,
				UnitPrice:  line.unitPrice,
				Discount:   line.discount,
				TotalPrice: line.total,
			}
			if detail, ok := req.DeliveredItems[line.productID.String()]; ok {
				item.Delivered = detail.Delivered
				item.DeliveredQ = detail.Quantity
			}
			if itemErr := s.orderRepo.CreateItem(txCtx, item); itemErr != nil {
				return fmt.Errorf("failed to create order item: %w", itemErr)
			}

			if stockErr := s.stockRepo.Deduct(txCtx, line.productID, model.LocationKindPOS, posID, line.quantity); stockErr != nil {
				if errors.Is(stockErr, repository.ErrInsufficientStock) {
					return fmt.Errorf("stock insuffisant pour %s", product.Name)
				}
				return fmt.Errorf("failed to deduct stock: %w", stockErr)
			}

			totalUnits += line.quantity
		}

		// Sold units leave the PDV, so its occupancy counter drains with them.
		if occErr := s.posRepo.AdjustOccupied(txCtx, posID, -totalUnits); occErr != nil {
			return fmt.Errorf("failed to adjust occupancy: %w", occErr)
		}

		if amount.GreaterThan(decimal.Zero) {
			payment := &model.OrderPayment{
				OrderID:   order.ID,
				Amount:    amount,
				Method:    req.Method,
				Notes:     req.Notes,
				CreatedBy: uid,
			}
			if payErr := s.orderRepo.CreatePayment(txCtx, payment); payErr != nil {
				return fmt.Errorf("failed to record payment: %w", payErr)
			}
		}

		action := model.ActionCheckout
		if req.EditOrderID != "" {
			action = model.ActionUpdateOrder
		}
		details, _ := json.Marshal(map[string]interface{}{
			"order_code":      order.OrderCode,
			"total":           total.StringFixed(2),
			"paid":            paid.StringFixed(2),
			"payment_status":  paymentStatus,
			"delivery_status": deliveryStatus,
			"line_count":      len(lines),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     action,
			EntityID:   order.ID.String(),
			EntityName: order.OrderCode,
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

	// Stock changed at this PDV; connected dashboards refresh off these events
	// instead of polling.
	s.broadcastEvent(ws.EventStockUpdated, model.LocationKindPOS, posID)
	s.broadcastEvent(ws.EventOccupancyUpdated, model.LocationKindPOS, posID)

	reloaded, err := s.orderRepo.FindByIDWithDetails(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return toOrderResponse(reloaded), nil
}

// reopenOrder loads an order being edited and returns its previous line items
// to stock (and to the PDV occupancy counter), so the new cart starts from a
// clean slate.
func (s *posService) reopenOrder(ctx context.Context, editOrderID string, posID uuid.UUID) (*model.Order, error) {
	orderID, err := uuid.Parse(editOrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid edit_order_id: %w", err)
	}

	order, err := s.orderRepo.FindByIDWithDetails(ctx, orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}

	restockedUnits := 0
	for _, item := range order.Items {
		if restockErr := s.stockRepo.Add(ctx, item.ProductID, model.LocationKindPOS, order.POSLocationID, item.Quantity); restockErr != nil {
			return nil, fmt.Errorf("failed to restock previous items: %w", restockErr)
		}
		restockedUnits += item.Quantity
	}
	if restockedUnits > 0 {
		if occErr := s.posRepo.AdjustOccupied(ctx, order.POSLocationID, restockedUnits); occErr != nil {
			return nil, fmt.Errorf("failed to adjust occupancy: %w", occErr)
		}
	}
	if err := s.orderRepo.DeleteItems(ctx, orderID); err != nil {
		return nil, fmt.Errorf("failed to clear previous items: %w", err)
	}

	order.Items = nil
	order.Payments = nil
	order.POSLocationID = posID
	return order, nil
}

func (s *posService) GetOrder(ctx context.Context, id string) (*OrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", err)
	}
	order, err := s.orderRepo.FindByIDWithDetails(ctx, orderID)
	if err != nil {
		return nil, errors.New("order not found")
	}
	return toOrderResponse(order), nil
}

func (s *posService) ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, *toOrderResponse(&orders[i]))
	}
	return result, total, nil
}

func (s *posService) generateOrderCode(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "VTE-" + today + "-"

	count, err := s.orderRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *posService) broadcastEvent(event, kind string, locationID uuid.UUID) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(ws.Event{
		Event: event,
		Data: map[string]interface{}{
			"location_kind": kind,
			"location_id":   locationID.String(),
		},
	})
	s.hub.Broadcast <- payload
}

// --- Mapping ---

func toOrderResponse(order *model.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:              order.ID.String(),
		OrderCode:       order.OrderCode,
		POSLocationID:   order.POSLocationID.String(),
		Subtotal:        order.Subtotal.StringFixed(2),
		DiscountTotal:   order.DiscountTotal.StringFixed(2),
		TotalAmount:     order.TotalAmount.StringFixed(2),
		PaidAmount:      order.PaidAmount.StringFixed(2),
		RemainingAmount: order.RemainingAmount.StringFixed(2),
		PaymentStatus:   order.PaymentStatus,
		DeliveryStatus:  order.DeliveryStatus,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
	}

	if order.ClientID != nil {
		id := order.ClientID.String()
		resp.ClientID = &id
	}
	if order.Client != nil {
		resp.ClientName = order.Client.CompanyName
		if resp.ClientName == "" {
			resp.ClientName = order.Client.ContactName
		}
	}
	if order.POSLocation != nil {
		resp.POSLocationName = order.POSLocation.Name
	}

	resp.Items = make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		itemResp := OrderItemResponse{
			ID:         item.ID.String(),
			ProductID:  item.ProductID.String(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			Discount:   item.Discount.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
			Delivered:  item.Delivered,
			DeliveredQ: item.DeliveredQ,
		}
		if item.Product != nil {
			itemResp.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, itemResp)
	}

	for _, payment := range order.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:        payment.ID.String(),
			OrderID:   payment.OrderID.String(),
			Amount:    payment.Amount.StringFixed(2),
			Method:    payment.Method,
			Notes:     payment.Notes,
			CreatedAt: payment.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp
}
