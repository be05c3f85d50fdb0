package service

import (
	"context"
	"testing"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeriveDeliveryStatus(t *testing.T) {
	assert.Equal(t, model.DeliveryStatusDelivered, deriveDeliveryStatus(true, false))
	// delivered wins when both flags are set
	assert.Equal(t, model.DeliveryStatusDelivered, deriveDeliveryStatus(true, true))
	assert.Equal(t, model.DeliveryStatusPartial, deriveDeliveryStatus(false, true))
	assert.Equal(t, model.DeliveryStatusAwaiting, deriveDeliveryStatus(false, false))
}

func TestDerivePaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(100000)

	assert.Equal(t, model.PaymentStatusPending, derivePaymentStatus(decimal.Zero, total))
	assert.Equal(t, model.PaymentStatusPartial, derivePaymentStatus(decimal.NewFromInt(40000), total))
	assert.Equal(t, model.PaymentStatusPaid, derivePaymentStatus(total, total))
	assert.Equal(t, model.PaymentStatusPaid, derivePaymentStatus(decimal.NewFromInt(150000), total))

	// a free order with no payment stays pending, not paid
	assert.Equal(t, model.PaymentStatusPending, derivePaymentStatus(decimal.Zero, decimal.Zero))
}

func TestComputeTotals(t *testing.T) {
	lines := []cartLine{
		{quantity: 2, unitPrice: decimal.NewFromInt(25000), discount: decimal.NewFromInt(5000)},
		{quantity: 1, unitPrice: decimal.NewFromInt(60000), discount: decimal.Zero},
	}

	subtotal, discountTotal, total := computeTotals(lines)

	assert.True(t, subtotal.Equal(decimal.NewFromInt(110000)), "subtotal: %s", subtotal)
	assert.True(t, discountTotal.Equal(decimal.NewFromInt(5000)), "discount: %s", discountTotal)
	assert.True(t, total.Equal(decimal.NewFromInt(105000)), "total: %s", total)
}

func TestParseCart(t *testing.T) {
	pid := uuid.New()

	t.Run("valid cart with discount", func(t *testing.T) {
		lines, err := parseCart([]CartItemRequest{
			{ProductID: pid.String(), Quantity: 3, UnitPrice: "15000", Discount: "2000"},
		})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, pid, lines[0].productID)
		assert.True(t, lines[0].total.Equal(decimal.NewFromInt(43000)))
	})

	t.Run("empty discount defaults to zero", func(t *testing.T) {
		lines, err := parseCart([]CartItemRequest{
			{ProductID: pid.String(), Quantity: 1, UnitPrice: "9500"},
		})
		require.NoError(t, err)
		assert.True(t, lines[0].discount.IsZero())
	})

	t.Run("negative discount rejected", func(t *testing.T) {
		_, err := parseCart([]CartItemRequest{
			{ProductID: pid.String(), Quantity: 1, UnitPrice: "10000", Discount: "-500"},
		})
		assert.EqualError(t, err, "discount cannot be negative")
	})

	t.Run("discount above line amount rejected", func(t *testing.T) {
		_, err := parseCart([]CartItemRequest{
			{ProductID: pid.String(), Quantity: 1, UnitPrice: "10000", Discount: "10001"},
		})
		assert.EqualError(t, err, "discount cannot exceed line amount")
	})

	t.Run("malformed product id rejected", func(t *testing.T) {
		_, err := parseCart([]CartItemRequest{
			{ProductID: "not-a-uuid", Quantity: 1, UnitPrice: "10000"},
		})
		assert.ErrorContains(t, err, "invalid product_id")
	})

	t.Run("malformed unit price rejected", func(t *testing.T) {
		_, err := parseCart([]CartItemRequest{
			{ProductID: pid.String(), Quantity: 1, UnitPrice: "abc"},
		})
		assert.ErrorContains(t, err, "invalid unit_price")
	})
}

type checkoutFixture struct {
	orderRepo   *mockOrderRepo
	productRepo *mockProductRepo
	stockRepo   *mockStockRepo
	clientRepo  *mockClientRepo
	posRepo     *mockPOSLocationRepo
	auditRepo   *mockAuditRepo
	svc         POSService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orderRepo:   new(mockOrderRepo),
		productRepo: new(mockProductRepo),
		stockRepo:   new(mockStockRepo),
		clientRepo:  new(mockClientRepo),
		posRepo:     new(mockPOSLocationRepo),
		auditRepo:   new(mockAuditRepo),
	}
	f.svc = NewPOSService(f.orderRepo, f.productRepo, f.stockRepo, f.clientRepo, f.posRepo, f.auditRepo, passthroughTxManager{}, nil)
	return f
}

func TestCheckoutPartialPayment(t *testing.T) {
	f := newCheckoutFixture()
	posID := uuid.New()
	productID := uuid.New()
	userID := uuid.New()
	orderID := uuid.New()

	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID, Name: "PDV Madina"}, nil)
	f.posRepo.On("AdjustOccupied", mock.Anything, posID, -4).Return(nil)
	f.orderRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(7), nil)
	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Order).ID = orderID
	}).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID, Name: "Riz 50kg"}, nil)
	f.orderRepo.On("CreateItem", mock.Anything, mock.AnythingOfType("*model.OrderItem")).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, productID, model.LocationKindPOS, posID, 4).Return(nil)
	f.orderRepo.On("CreatePayment", mock.Anything, mock.AnythingOfType("*model.OrderPayment")).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.AnythingOfType("*model.AuditLog")).Return(nil)

	f.orderRepo.On("FindByIDWithDetails", mock.Anything, orderID).Return(&model.Order{
		ID:              orderID,
		OrderCode:       "VTE-20260830-00008",
		POSLocationID:   posID,
		Subtotal:        decimal.NewFromInt(100000),
		TotalAmount:     decimal.NewFromInt(100000),
		PaidAmount:      decimal.NewFromInt(40000),
		RemainingAmount: decimal.NewFromInt(60000),
		PaymentStatus:   model.PaymentStatusPartial,
		DeliveryStatus:  model.DeliveryStatusDelivered,
	}, nil)

	resp, err := f.svc.Checkout(context.Background(), userID.String(), CheckoutRequest{
		POSLocationID: posID.String(),
		Items: []CartItemRequest{
			{ProductID: productID.String(), Quantity: 4, UnitPrice: "25000"},
		},
		Amount:    "40000",
		Method:    model.PaymentMethodCash,
		Delivered: true,
	})

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPartial, resp.PaymentStatus)
	assert.Equal(t, "60000.00", resp.RemainingAmount)
	assert.Equal(t, "40000.00", resp.PaidAmount)

	created := f.orderRepo.Calls[1].Arguments.Get(1).(*model.Order)
	assert.Equal(t, model.PaymentStatusPartial, created.PaymentStatus)
	assert.True(t, created.RemainingAmount.Equal(decimal.NewFromInt(60000)))

	payment := findPaymentCall(t, f.orderRepo)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, model.PaymentMethodCash, payment.Method)

	// the sold units leave the PDV occupancy counter inside the same transaction
	f.posRepo.AssertCalled(t, "AdjustOccupied", mock.Anything, posID, -4)
}

func TestCheckoutOverpaymentClampedToTotal(t *testing.T) {
	f := newCheckoutFixture()
	posID := uuid.New()
	productID := uuid.New()
	orderID := uuid.New()

	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID}, nil)
	f.posRepo.On("AdjustOccupied", mock.Anything, posID, -1).Return(nil)
	f.orderRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Order).ID = orderID
	}).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID, Name: "Sucre"}, nil)
	f.orderRepo.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, productID, model.LocationKindPOS, posID, 1).Return(nil)
	f.orderRepo.On("CreatePayment", mock.Anything, mock.Anything).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("FindByIDWithDetails", mock.Anything, orderID).Return(&model.Order{ID: orderID, POSLocationID: posID}, nil)

	// customer hands over 30000 for a 20000 order; change is given back
	_, err := f.svc.Checkout(context.Background(), uuid.NewString(), CheckoutRequest{
		POSLocationID: posID.String(),
		Items: []CartItemRequest{
			{ProductID: productID.String(), Quantity: 1, UnitPrice: "20000"},
		},
		Amount: "30000",
		Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	created := f.orderRepo.Calls[1].Arguments.Get(1).(*model.Order)
	assert.True(t, created.PaidAmount.Equal(decimal.NewFromInt(20000)), "paid clamped to total, got %s", created.PaidAmount)
	assert.True(t, created.RemainingAmount.IsZero())
	assert.Equal(t, model.PaymentStatusPaid, created.PaymentStatus)
}

func TestCheckoutInsufficientStockAborts(t *testing.T) {
	f := newCheckoutFixture()
	posID := uuid.New()
	productID := uuid.New()

	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID}, nil)
	f.orderRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.orderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID, Name: "Huile 5L"}, nil)
	f.orderRepo.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, productID, model.LocationKindPOS, posID, 10).Return(repository.ErrInsufficientStock)

	_, err := f.svc.Checkout(context.Background(), uuid.NewString(), CheckoutRequest{
		POSLocationID: posID.String(),
		Items: []CartItemRequest{
			{ProductID: productID.String(), Quantity: 10, UnitPrice: "45000"},
		},
		Amount: "0",
		Method: model.PaymentMethodCash,
	})

	require.Error(t, err)
	assert.EqualError(t, err, "stock insuffisant pour Huile 5L")
	f.orderRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	f.posRepo.AssertNotCalled(t, "AdjustOccupied", mock.Anything, mock.Anything, mock.Anything)
	f.auditRepo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestCheckoutZeroAmountSkipsPaymentRow(t *testing.T) {
	f := newCheckoutFixture()
	posID := uuid.New()
	productID := uuid.New()
	orderID := uuid.New()

	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID}, nil)
	f.posRepo.On("AdjustOccupied", mock.Anything, posID, -2).Return(nil)
	f.orderRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Order).ID = orderID
	}).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID, Name: "Farine"}, nil)
	f.orderRepo.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, productID, model.LocationKindPOS, posID, 2).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("FindByIDWithDetails", mock.Anything, orderID).Return(&model.Order{ID: orderID, POSLocationID: posID}, nil)

	_, err := f.svc.Checkout(context.Background(), uuid.NewString(), CheckoutRequest{
		POSLocationID: posID.String(),
		Items: []CartItemRequest{
			{ProductID: productID.String(), Quantity: 2, UnitPrice: "12000"},
		},
		Amount: "0",
		Method: model.PaymentMethodCash,
	})

	require.NoError(t, err)
	f.orderRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestCheckoutEditReturnsPreviousUnitsToOccupancy(t *testing.T) {
	f := newCheckoutFixture()
	posID := uuid.New()
	oldProductID := uuid.New()
	newProductID := uuid.New()
	orderID := uuid.New()

	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID}, nil)
	f.orderRepo.On("FindByIDWithDetails", mock.Anything, orderID).Return(&model.Order{
		ID:            orderID,
		OrderCode:     "VTE-20260830-00001",
		POSLocationID: posID,
		Items: []model.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: oldProductID, Quantity: 6},
		},
	}, nil)
	f.stockRepo.On("Add", mock.Anything, oldProductID, model.LocationKindPOS, posID, 6).Return(nil)
	f.posRepo.On("AdjustOccupied", mock.Anything, posID, 6).Return(nil)
	f.orderRepo.On("DeleteItems", mock.Anything, orderID).Return(nil)
	f.orderRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, newProductID).Return(&model.Product{ID: newProductID, Name: "Pâtes"}, nil)
	f.orderRepo.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, newProductID, model.LocationKindPOS, posID, 2).Return(nil)
	f.posRepo.On("AdjustOccupied", mock.Anything, posID, -2).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Checkout(context.Background(), uuid.NewString(), CheckoutRequest{
		POSLocationID: posID.String(),
		Items: []CartItemRequest{
			{ProductID: newProductID.String(), Quantity: 2, UnitPrice: "8000"},
		},
		Amount:      "0",
		Method:      model.PaymentMethodCash,
		EditOrderID: orderID.String(),
	})

	require.NoError(t, err)
	// the old cart's units come back before the new cart drains again
	f.posRepo.AssertCalled(t, "AdjustOccupied", mock.Anything, posID, 6)
	f.posRepo.AssertCalled(t, "AdjustOccupied", mock.Anything, posID, -2)
	f.stockRepo.AssertCalled(t, "Add", mock.Anything, oldProductID, model.LocationKindPOS, posID, 6)
}

func TestCheckoutUnknownPOSLocation(t *testing.T) {
	f := newCheckoutFixture()
	posID := uuid.New()

	f.posRepo.On("FindByID", mock.Anything, posID).Return(nil, assert.AnError)

	_, err := f.svc.Checkout(context.Background(), uuid.NewString(), CheckoutRequest{
		POSLocationID: posID.String(),
		Items: []CartItemRequest{
			{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: "5000"},
		},
		Amount: "0",
		Method: model.PaymentMethodCash,
	})

	assert.EqualError(t, err, "point of sale not found")
	f.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func findPaymentCall(t *testing.T, repo *mockOrderRepo) *model.OrderPayment {
	t.Helper()
	for _, call := range repo.Calls {
		if call.Method == "CreatePayment" {
			return call.Arguments.Get(1).(*model.OrderPayment)
		}
	}
	t.Fatal("no CreatePayment call recorded")
	return nil
}
