package service

import (
	"context"

	"salespoint/internal/model"
	"salespoint/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// passthroughTxManager runs the unit of work directly, without a database.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.InternalUser) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InternalUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InternalUser), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.InternalUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InternalUser), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, page, limit int) ([]model.InternalUser, int64, error) {
	args := m.Called(ctx, page, limit)
	var users []model.InternalUser
	if args.Get(0) != nil {
		users = args.Get(0).([]model.InternalUser)
	}
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.InternalUser) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockUserRepo) FindRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *mockUserRepo) DeleteRefreshTokensForUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, action, page, limit)
	var logs []model.AuditLog
	if args.Get(0) != nil {
		logs = args.Get(0).([]model.AuditLog)
	}
	return logs, args.Get(1).(int64), args.Error(2)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockOrderRepo) DeleteItems(ctx context.Context, orderID uuid.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *mockOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *mockOrderRepo) List(ctx context.Context, filter repository.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, filter)
	var orders []model.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]model.Order)
	}
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepo) Update(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepo) CreatePayment(ctx context.Context, payment *model.OrderPayment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *mockOrderRepo) ListPayments(ctx context.Context, orderID uuid.UUID) ([]model.OrderPayment, error) {
	args := m.Called(ctx, orderID)
	var payments []model.OrderPayment
	if args.Get(0) != nil {
		payments = args.Get(0).([]model.OrderPayment)
	}
	return payments, args.Error(1)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Create(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	var products []model.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]model.Product)
	}
	return products, args.Error(1)
}

func (m *mockProductRepo) FindByReference(ctx context.Context, reference string) (*model.Product, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, search, category string, page, limit int) ([]model.Product, int64, error) {
	args := m.Called(ctx, search, category, page, limit)
	var products []model.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]model.Product)
	}
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockStockRepo struct{ mock.Mock }

func (m *mockStockRepo) Find(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID) (*model.LocationStock, error) {
	args := m.Called(ctx, productID, kind, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LocationStock), args.Error(1)
}

func (m *mockStockRepo) ListForLocation(ctx context.Context, kind string, locationID uuid.UUID, page, limit int) ([]model.LocationStock, int64, error) {
	args := m.Called(ctx, kind, locationID, page, limit)
	var stocks []model.LocationStock
	if args.Get(0) != nil {
		stocks = args.Get(0).([]model.LocationStock)
	}
	return stocks, args.Get(1).(int64), args.Error(2)
}

func (m *mockStockRepo) Add(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID, qty int) error {
	return m.Called(ctx, productID, kind, locationID, qty).Error(0)
}

func (m *mockStockRepo) Deduct(ctx context.Context, productID uuid.UUID, kind string, locationID uuid.UUID, qty int) error {
	return m.Called(ctx, productID, kind, locationID, qty).Error(0)
}

func (m *mockStockRepo) ListBelowMinimum(ctx context.Context) ([]model.LocationStock, error) {
	args := m.Called(ctx)
	var stocks []model.LocationStock
	if args.Get(0) != nil {
		stocks = args.Get(0).([]model.LocationStock)
	}
	return stocks, args.Error(1)
}

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) Create(ctx context.Context, client *model.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *mockClientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) List(ctx context.Context, search string, page, limit int) ([]model.Client, int64, error) {
	args := m.Called(ctx, search, page, limit)
	var clients []model.Client
	if args.Get(0) != nil {
		clients = args.Get(0).([]model.Client)
	}
	return clients, args.Get(1).(int64), args.Error(2)
}

func (m *mockClientRepo) Update(ctx context.Context, client *model.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockClientRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

type mockWarehouseRepo struct{ mock.Mock }

func (m *mockWarehouseRepo) Create(ctx context.Context, warehouse *model.Warehouse) error {
	return m.Called(ctx, warehouse).Error(0)
}

func (m *mockWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Warehouse), args.Error(1)
}

func (m *mockWarehouseRepo) List(ctx context.Context, page, limit int) ([]model.Warehouse, int64, error) {
	args := m.Called(ctx, page, limit)
	var warehouses []model.Warehouse
	if args.Get(0) != nil {
		warehouses = args.Get(0).([]model.Warehouse)
	}
	return warehouses, args.Get(1).(int64), args.Error(2)
}

func (m *mockWarehouseRepo) Update(ctx context.Context, warehouse *model.Warehouse) error {
	return m.Called(ctx, warehouse).Error(0)
}

func (m *mockWarehouseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWarehouseRepo) AdjustOccupied(ctx context.Context, id uuid.UUID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

type mockPOSLocationRepo struct{ mock.Mock }

func (m *mockPOSLocationRepo) Create(ctx context.Context, location *model.POSLocation) error {
	return m.Called(ctx, location).Error(0)
}

func (m *mockPOSLocationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.POSLocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.POSLocation), args.Error(1)
}

func (m *mockPOSLocationRepo) List(ctx context.Context, page, limit int) ([]model.POSLocation, int64, error) {
	args := m.Called(ctx, page, limit)
	var locations []model.POSLocation
	if args.Get(0) != nil {
		locations = args.Get(0).([]model.POSLocation)
	}
	return locations, args.Get(1).(int64), args.Error(2)
}

func (m *mockPOSLocationRepo) Update(ctx context.Context, location *model.POSLocation) error {
	return m.Called(ctx, location).Error(0)
}

func (m *mockPOSLocationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPOSLocationRepo) AdjustOccupied(ctx context.Context, id uuid.UUID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

type mockTransferRepo struct{ mock.Mock }

func (m *mockTransferRepo) Create(ctx context.Context, transfer *model.StockTransfer) error {
	return m.Called(ctx, transfer).Error(0)
}

func (m *mockTransferRepo) CreateItem(ctx context.Context, item *model.TransferItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockTransferRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StockTransfer), args.Error(1)
}

func (m *mockTransferRepo) List(ctx context.Context, transferType string, page, limit int) ([]model.StockTransfer, int64, error) {
	args := m.Called(ctx, transferType, page, limit)
	var transfers []model.StockTransfer
	if args.Get(0) != nil {
		transfers = args.Get(0).([]model.StockTransfer)
	}
	return transfers, args.Get(1).(int64), args.Error(2)
}

func (m *mockTransferRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

type mockPreorderRepo struct{ mock.Mock }

func (m *mockPreorderRepo) Create(ctx context.Context, preorder *model.Preorder) error {
	return m.Called(ctx, preorder).Error(0)
}

func (m *mockPreorderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Preorder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Preorder), args.Error(1)
}

func (m *mockPreorderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Preorder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Preorder), args.Error(1)
}

func (m *mockPreorderRepo) List(ctx context.Context, filter repository.PreorderListFilter) ([]model.Preorder, int64, error) {
	args := m.Called(ctx, filter)
	var preorders []model.Preorder
	if args.Get(0) != nil {
		preorders = args.Get(0).([]model.Preorder)
	}
	return preorders, args.Get(1).(int64), args.Error(2)
}

func (m *mockPreorderRepo) Update(ctx context.Context, preorder *model.Preorder) error {
	return m.Called(ctx, preorder).Error(0)
}

func (m *mockPreorderRepo) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}
