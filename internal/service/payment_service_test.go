package service

import (
	"context"
	"testing"

	"salespoint/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture() (*mockOrderRepo, *mockAuditRepo, PaymentService) {
	orderRepo := new(mockOrderRepo)
	auditRepo := new(mockAuditRepo)
	svc := NewPaymentService(orderRepo, auditRepo, passthroughTxManager{})
	return orderRepo, auditRepo, svc
}

func TestRecordPaymentSettlesInvoice(t *testing.T) {
	orderRepo, auditRepo, svc := newPaymentFixture()
	orderID := uuid.New()

	orderRepo.On("FindByIDForUpdate", mock.Anything, orderID).Return(&model.Order{
		ID:              orderID,
		OrderCode:       "VTE-20260830-00012",
		TotalAmount:     decimal.NewFromInt(100000),
		PaidAmount:      decimal.NewFromInt(40000),
		RemainingAmount: decimal.NewFromInt(60000),
		PaymentStatus:   model.PaymentStatusPartial,
	}, nil)
	orderRepo.On("CreatePayment", mock.Anything, mock.AnythingOfType("*model.OrderPayment")).Return(nil)
	orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)
	orderRepo.On("FindByIDWithDetails", mock.Anything, orderID).Return(&model.Order{
		ID:              orderID,
		OrderCode:       "VTE-20260830-00012",
		TotalAmount:     decimal.NewFromInt(100000),
		PaidAmount:      decimal.NewFromInt(100000),
		RemainingAmount: decimal.Zero,
		PaymentStatus:   model.PaymentStatusPaid,
	}, nil)

	resp, err := svc.RecordPayment(context.Background(), uuid.NewString(), orderID.String(), RecordPaymentRequest{
		Amount: "60000",
		Method: model.PaymentMethodBankTransfer,
	})

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, resp.PaymentStatus)
	assert.Equal(t, "0.00", resp.RemainingAmount)

	var updated *model.Order
	for _, call := range orderRepo.Calls {
		if call.Method == "Update" {
			updated = call.Arguments.Get(1).(*model.Order)
		}
	}
	require.NotNil(t, updated)
	assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(100000)))
	assert.True(t, updated.RemainingAmount.IsZero())
	assert.Equal(t, model.PaymentStatusPaid, updated.PaymentStatus)
}

func TestRecordPaymentPartialKeepsPartialStatus(t *testing.T) {
	orderRepo, auditRepo, svc := newPaymentFixture()
	orderID := uuid.New()

	orderRepo.On("FindByIDForUpdate", mock.Anything, orderID).Return(&model.Order{
		ID:              orderID,
		TotalAmount:     decimal.NewFromInt(100000),
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.NewFromInt(100000),
		PaymentStatus:   model.PaymentStatusPending,
	}, nil)
	orderRepo.On("CreatePayment", mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
	auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)
	orderRepo.On("FindByIDWithDetails", mock.Anything, orderID).Return(&model.Order{ID: orderID}, nil)

	_, err := svc.RecordPayment(context.Background(), uuid.NewString(), orderID.String(), RecordPaymentRequest{
		Amount: "25000",
		Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	var updated *model.Order
	for _, call := range orderRepo.Calls {
		if call.Method == "Update" {
			updated = call.Arguments.Get(1).(*model.Order)
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, model.PaymentStatusPartial, updated.PaymentStatus)
	assert.True(t, updated.RemainingAmount.Equal(decimal.NewFromInt(75000)))
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	orderRepo, auditRepo, svc := newPaymentFixture()
	orderID := uuid.New()

	orderRepo.On("FindByIDForUpdate", mock.Anything, orderID).Return(&model.Order{
		ID:              orderID,
		TotalAmount:     decimal.NewFromInt(100000),
		PaidAmount:      decimal.NewFromInt(70000),
		RemainingAmount: decimal.NewFromInt(30000),
		PaymentStatus:   model.PaymentStatusPartial,
	}, nil)

	_, err := svc.RecordPayment(context.Background(), uuid.NewString(), orderID.String(), RecordPaymentRequest{
		Amount: "30001",
		Method: model.PaymentMethodCash,
	})

	assert.ErrorIs(t, err, ErrAmountExceedsBalance)
	orderRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	auditRepo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	orderRepo, _, svc := newPaymentFixture()

	for _, amount := range []string{"0", "-100"} {
		_, err := svc.RecordPayment(context.Background(), uuid.NewString(), uuid.NewString(), RecordPaymentRequest{
			Amount: amount,
			Method: model.PaymentMethodCash,
		})
		assert.EqualError(t, err, "veuillez entrer un montant valide", "amount %s", amount)
	}
	orderRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestRecordPaymentRejectsMalformedAmount(t *testing.T) {
	_, _, svc := newPaymentFixture()

	_, err := svc.RecordPayment(context.Background(), uuid.NewString(), uuid.NewString(), RecordPaymentRequest{
		Amount: "abc",
		Method: model.PaymentMethodCash,
	})
	assert.ErrorContains(t, err, "invalid amount")
}
