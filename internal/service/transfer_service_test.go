package service

import (
	"context"
	"testing"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransferKinds(t *testing.T) {
	cases := []struct {
		transferType string
		sourceKind   string
		destKind     string
	}{
		{model.TransferDepotToPOS, model.LocationKindWarehouse, model.LocationKindPOS},
		{model.TransferPOSToDepot, model.LocationKindPOS, model.LocationKindWarehouse},
		{model.TransferDepotToDepot, model.LocationKindWarehouse, model.LocationKindWarehouse},
	}
	for _, tc := range cases {
		source, dest, err := transferKinds(tc.transferType)
		require.NoError(t, err, tc.transferType)
		assert.Equal(t, tc.sourceKind, source)
		assert.Equal(t, tc.destKind, dest)
	}

	_, _, err := transferKinds("pos_to_pos")
	assert.ErrorContains(t, err, "unknown transfer type")
}

type transferFixture struct {
	transferRepo  *mockTransferRepo
	stockRepo     *mockStockRepo
	productRepo   *mockProductRepo
	warehouseRepo *mockWarehouseRepo
	posRepo       *mockPOSLocationRepo
	auditRepo     *mockAuditRepo
	svc           TransferService
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		transferRepo:  new(mockTransferRepo),
		stockRepo:     new(mockStockRepo),
		productRepo:   new(mockProductRepo),
		warehouseRepo: new(mockWarehouseRepo),
		posRepo:       new(mockPOSLocationRepo),
		auditRepo:     new(mockAuditRepo),
	}
	f.svc = NewTransferService(f.transferRepo, f.stockRepo, f.productRepo, f.warehouseRepo, f.posRepo, f.auditRepo, passthroughTxManager{}, nil)
	return f
}

func TestCreateTransferDepotToPOS(t *testing.T) {
	f := newTransferFixture()
	warehouseID := uuid.New()
	posID := uuid.New()
	productID := uuid.New()
	transferID := uuid.New()

	f.warehouseRepo.On("FindByID", mock.Anything, warehouseID).Return(&model.Warehouse{ID: warehouseID}, nil)
	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID}, nil)
	f.transferRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(2), nil)
	f.transferRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.StockTransfer")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.StockTransfer).ID = transferID
	}).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID, Name: "Savon"}, nil)
	f.transferRepo.On("CreateItem", mock.Anything, mock.AnythingOfType("*model.TransferItem")).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, productID, model.LocationKindWarehouse, warehouseID, 15).Return(nil)
	f.stockRepo.On("Add", mock.Anything, productID, model.LocationKindPOS, posID, 15).Return(nil)
	f.warehouseRepo.On("AdjustOccupied", mock.Anything, warehouseID, -15).Return(nil)
	f.posRepo.On("AdjustOccupied", mock.Anything, posID, 15).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)
	f.transferRepo.On("FindByID", mock.Anything, transferID).Return(&model.StockTransfer{
		ID:              transferID,
		Type:            model.TransferDepotToPOS,
		SourceKind:      model.LocationKindWarehouse,
		SourceID:        warehouseID,
		DestinationKind: model.LocationKindPOS,
		DestinationID:   posID,
		Status:          model.TransferStatusCompleted,
	}, nil)

	resp, err := f.svc.CreateTransfer(context.Background(), uuid.NewString(), CreateTransferRequest{
		Type:          model.TransferDepotToPOS,
		SourceID:      warehouseID.String(),
		DestinationID: posID.String(),
		Items: []TransferItemRequest{
			{ProductID: productID.String(), Quantity: 15},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusCompleted, resp.Status)
	f.warehouseRepo.AssertCalled(t, "AdjustOccupied", mock.Anything, warehouseID, -15)
	f.posRepo.AssertCalled(t, "AdjustOccupied", mock.Anything, posID, 15)
}

func TestCreateTransferInsufficientSourceStock(t *testing.T) {
	f := newTransferFixture()
	warehouseID := uuid.New()
	posID := uuid.New()
	productID := uuid.New()

	f.warehouseRepo.On("FindByID", mock.Anything, warehouseID).Return(&model.Warehouse{ID: warehouseID}, nil)
	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID}, nil)
	f.transferRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.transferRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, productID).Return(&model.Product{ID: productID, Name: "Lait en poudre"}, nil)
	f.transferRepo.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, productID, model.LocationKindWarehouse, warehouseID, 100).Return(repository.ErrInsufficientStock)

	_, err := f.svc.CreateTransfer(context.Background(), uuid.NewString(), CreateTransferRequest{
		Type:          model.TransferDepotToPOS,
		SourceID:      warehouseID.String(),
		DestinationID: posID.String(),
		Items: []TransferItemRequest{
			{ProductID: productID.String(), Quantity: 100},
		},
	})

	assert.EqualError(t, err, "stock insuffisant pour Lait en poudre")
	f.stockRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.warehouseRepo.AssertNotCalled(t, "AdjustOccupied", mock.Anything, mock.Anything, mock.Anything)
	f.auditRepo.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}

func TestCreateTransferRejectsSameSourceAndDestination(t *testing.T) {
	f := newTransferFixture()
	warehouseID := uuid.New()

	_, err := f.svc.CreateTransfer(context.Background(), uuid.NewString(), CreateTransferRequest{
		Type:          model.TransferDepotToDepot,
		SourceID:      warehouseID.String(),
		DestinationID: warehouseID.String(),
		Items: []TransferItemRequest{
			{ProductID: uuid.NewString(), Quantity: 1},
		},
	})

	assert.EqualError(t, err, "source and destination must differ")
	f.transferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTransferUnknownWarehouse(t *testing.T) {
	f := newTransferFixture()
	warehouseID := uuid.New()
	posID := uuid.New()

	f.warehouseRepo.On("FindByID", mock.Anything, warehouseID).Return(nil, assert.AnError)

	_, err := f.svc.CreateTransfer(context.Background(), uuid.NewString(), CreateTransferRequest{
		Type:          model.TransferDepotToPOS,
		SourceID:      warehouseID.String(),
		DestinationID: posID.String(),
		Items: []TransferItemRequest{
			{ProductID: uuid.NewString(), Quantity: 3},
		},
	})

	assert.EqualError(t, err, "warehouse not found")
}

func TestCreateTransferAccumulatesOccupancyAcrossLines(t *testing.T) {
	f := newTransferFixture()
	warehouseID := uuid.New()
	posID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()
	transferID := uuid.New()

	f.warehouseRepo.On("FindByID", mock.Anything, warehouseID).Return(&model.Warehouse{ID: warehouseID}, nil)
	f.posRepo.On("FindByID", mock.Anything, posID).Return(&model.POSLocation{ID: posID}, nil)
	f.transferRepo.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.transferRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.StockTransfer")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.StockTransfer).ID = transferID
	}).Return(nil)
	f.productRepo.On("FindByID", mock.Anything, productA).Return(&model.Product{ID: productA, Name: "A"}, nil)
	f.productRepo.On("FindByID", mock.Anything, productB).Return(&model.Product{ID: productB, Name: "B"}, nil)
	f.transferRepo.On("CreateItem", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("Deduct", mock.Anything, mock.Anything, model.LocationKindWarehouse, warehouseID, mock.Anything).Return(nil)
	f.stockRepo.On("Add", mock.Anything, mock.Anything, model.LocationKindPOS, posID, mock.Anything).Return(nil)
	f.warehouseRepo.On("AdjustOccupied", mock.Anything, warehouseID, -25).Return(nil)
	f.posRepo.On("AdjustOccupied", mock.Anything, posID, 25).Return(nil)
	f.auditRepo.On("Log", mock.Anything, mock.Anything).Return(nil)
	f.transferRepo.On("FindByID", mock.Anything, transferID).Return(&model.StockTransfer{ID: transferID}, nil)

	_, err := f.svc.CreateTransfer(context.Background(), uuid.NewString(), CreateTransferRequest{
		Type:          model.TransferDepotToPOS,
		SourceID:      warehouseID.String(),
		DestinationID: posID.String(),
		Items: []TransferItemRequest{
			{ProductID: productA.String(), Quantity: 10},
			{ProductID: productB.String(), Quantity: 15},
		},
	})

	require.NoError(t, err)
	f.warehouseRepo.AssertCalled(t, "AdjustOccupied", mock.Anything, warehouseID, -25)
	f.posRepo.AssertCalled(t, "AdjustOccupied", mock.Anything, posID, 25)
}
