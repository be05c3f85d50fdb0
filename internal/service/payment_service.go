package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAmountExceedsBalance is returned when a payment would overpay the
// invoice. It is checked before any write and re-checked under the row lock.
var ErrAmountExceedsBalance = errors.New("le montant ne peut pas dépasser le solde restant")

// --- DTOs ---

type RecordPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required,oneof=cash bank_transfer check mobile_money"`
	Notes  string `json:"notes"`
}

// --- Interface ---

type PaymentService interface {
	// RecordPayment applies a payment to an invoice. The whole
	// read-validate-write sequence runs inside one transaction with the
	// invoice row locked, so two concurrent payments serialize: the second
	// sees the updated balance and is rejected if it would overpay.
	RecordPayment(ctx context.Context, userID, orderID string, req RecordPaymentRequest) (*OrderResponse, error)
	ListPayments(ctx context.Context, orderID string) ([]PaymentResponse, error)
}

type paymentService struct {
	orderRepo repository.OrderRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewPaymentService(orderRepo repository.OrderRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) PaymentService {
	return &paymentService{orderRepo: orderRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

func (s *paymentService) RecordPayment(ctx context.Context, userID, orderID string, req RecordPaymentRequest) (*OrderResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("veuillez entrer un montant valide")
	}

	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", err)
	}

	var uid *uuid.UUID
	if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
		uid = &parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, findErr := s.orderRepo.FindByIDForUpdate(txCtx, id)
		if findErr != nil {
			return errors.New("invoice not found")
		}

		// Re-check under the lock: the balance the caller saw may be stale.
		if amount.GreaterThan(order.RemainingAmount) {
			return ErrAmountExceedsBalance
		}

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

		order.PaidAmount = order.PaidAmount.Add(amount)
		order.RemainingAmount = order.RemainingAmount.Sub(amount)
		if order.RemainingAmount.IsZero() {
			order.PaymentStatus = model.PaymentStatusPaid
		} else {
			order.PaymentStatus = model.PaymentStatusPartial
		}

		if updateErr := s.orderRepo.Update(txCtx, order); updateErr != nil {
			return fmt.Errorf("failed to update invoice balance: %w", updateErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"amount":    amount.StringFixed(2),
			"method":    req.Method,
			"paid":      order.PaidAmount.StringFixed(2),
			"remaining": order.RemainingAmount.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     uid,
			Action:     model.ActionRecordPayment,
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

	reloaded, err := s.orderRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toOrderResponse(reloaded), nil
}

func (s *paymentService) ListPayments(ctx context.Context, orderID string) ([]PaymentResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id: %w", err)
	}

	payments, err := s.orderRepo.ListPayments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		result = append(result, PaymentResponse{
			ID:        payment.ID.String(),
			OrderID:   payment.OrderID.String(),
			Amount:    payment.Amount.StringFixed(2),
			Method:    payment.Method,
			Notes:     payment.Notes,
			CreatedAt: payment.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}
