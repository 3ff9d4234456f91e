package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/core/services"
	"github.com/finbooks/books_backend/internal/dto"
)

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

// Ensure MockProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*MockProductRepository)(nil)

func (m *MockProductRepository) FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	args := m.Called(ctx, companyID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, companyID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProductsByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Product, error) {
	args := m.Called(ctx, companyID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListLowStockProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListStockMovements(ctx context.Context, companyID, productID string, limit int, nextToken string) ([]domain.StockMovement, string, error) {
	args := m.Called(ctx, companyID, productID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.StockMovement), args.String(1), args.Error(2)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeactivateProduct(ctx context.Context, companyID, productID, userID string) error {
	args := m.Called(ctx, companyID, productID, userID)
	return args.Error(0)
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, movement *domain.StockMovement) (*domain.Product, error) {
	args := m.Called(ctx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

// --- Test Suite Setup ---
type InventoryServiceTestSuite struct {
	suite.Suite
	mockProductRepo *MockProductRepository
	service         portssvc.InventorySvcFacade
	companyID       string
	userID          string
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockProductRepo = new(MockProductRepository)
	suite.service = services.NewInventoryService(suite.mockProductRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *InventoryServiceTestSuite) newProduct(sku string, stock int64) *domain.Product {
	return &domain.Product{
		ProductID:     uuid.NewString(),
		CompanyID:     suite.companyID,
		SKU:           sku,
		Name:          "Product " + sku,
		SalePrice:     decimal.NewFromInt(25),
		PurchasePrice: decimal.NewFromInt(15),
		CurrentStock:  decimal.NewFromInt(stock),
		IsActive:      true,
	}
}

// --- Test Cases ---

func (suite *InventoryServiceTestSuite) TestCreateProduct_WithOpeningStock() {
	ctx := context.Background()
	req := dto.CreateProductRequest{
		SKU:           "WIDGET-1",
		Name:          "Widget",
		SalePrice:     decimal.NewFromInt(25),
		PurchasePrice: decimal.NewFromInt(15),
		OpeningStock:  decimal.NewFromInt(12),
	}

	suite.mockProductRepo.On("SaveProduct", ctx, mock.AnythingOfType("domain.Product")).Return(nil).Once()

	var openingMovement *domain.StockMovement
	updated := suite.newProduct("WIDGET-1", 12)
	suite.mockProductRepo.On("AdjustStock", ctx, mock.AnythingOfType("*domain.StockMovement")).
		Run(func(args mock.Arguments) {
			openingMovement = args.Get(1).(*domain.StockMovement)
		}).
		Return(updated, nil).Once()

	created, err := suite.service.CreateProduct(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.True(created.CurrentStock.Equal(decimal.NewFromInt(12)))
	suite.Require().NotNil(openingMovement)
	suite.Equal(domain.MovementAdjustment, openingMovement.MovementType)
	suite.True(openingMovement.Quantity.Equal(decimal.NewFromInt(12)))
	suite.Equal("Opening stock", openingMovement.Notes)

	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCreateProduct_ServiceWithStockRejected() {
	ctx := context.Background()

	created, err := suite.service.CreateProduct(ctx, suite.companyID, dto.CreateProductRequest{
		SKU:          "CONSULT-1",
		Name:         "Consulting Hour",
		IsService:    true,
		OpeningStock: decimal.NewFromInt(5),
	}, suite.userID)

	suite.Require().ErrorIs(err, services.ErrServiceNoStock)
	suite.Nil(created)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "SaveProduct", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestCreateProduct_NegativePriceRejected() {
	ctx := context.Background()

	created, err := suite.service.CreateProduct(ctx, suite.companyID, dto.CreateProductRequest{
		SKU:       "WIDGET-2",
		Name:      "Widget",
		SalePrice: decimal.NewFromInt(-1),
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(created)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_Success() {
	ctx := context.Background()
	product := suite.newProduct("WIDGET-1", 10)

	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, product.ProductID).Return(product, nil).Once()
	updated := suite.newProduct("WIDGET-1", 16)
	updated.ProductID = product.ProductID
	suite.mockProductRepo.On("AdjustStock", ctx, mock.AnythingOfType("*domain.StockMovement")).Return(updated, nil).Once()

	movement, after, err := suite.service.AdjustStock(ctx, suite.companyID, product.ProductID, dto.AdjustStockRequest{
		MovementType: domain.MovementIn,
		Quantity:     decimal.NewFromInt(6),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.Equal(domain.MovementIn, movement.MovementType)
	suite.True(movement.Quantity.Equal(decimal.NewFromInt(6)))
	// Cost defaults to the product's purchase price when not supplied.
	suite.True(movement.CostPrice.Equal(product.PurchasePrice))
	suite.True(after.CurrentStock.Equal(decimal.NewFromInt(16)))

	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_ServiceProductRejected() {
	ctx := context.Background()
	product := suite.newProduct("CONSULT-1", 0)
	product.IsService = true

	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, product.ProductID).Return(product, nil).Once()

	movement, after, err := suite.service.AdjustStock(ctx, suite.companyID, product.ProductID, dto.AdjustStockRequest{
		MovementType: domain.MovementIn,
		Quantity:     decimal.NewFromInt(1),
	}, suite.userID)

	suite.Require().ErrorIs(err, services.ErrServiceNoStock)
	suite.Nil(movement)
	suite.Nil(after)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "AdjustStock", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_InactiveProductRejected() {
	ctx := context.Background()
	product := suite.newProduct("WIDGET-1", 10)
	product.IsActive = false

	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, product.ProductID).Return(product, nil).Once()

	_, _, err := suite.service.AdjustStock(ctx, suite.companyID, product.ProductID, dto.AdjustStockRequest{
		MovementType: domain.MovementIn,
		Quantity:     decimal.NewFromInt(1),
	}, suite.userID)

	suite.Require().ErrorIs(err, services.ErrInactiveProduct)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_ZeroQuantityRejected() {
	ctx := context.Background()
	product := suite.newProduct("WIDGET-1", 10)

	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, product.ProductID).Return(product, nil).Once()

	_, _, err := suite.service.AdjustStock(ctx, suite.companyID, product.ProductID, dto.AdjustStockRequest{
		MovementType: domain.MovementAdjustment,
		Quantity:     decimal.Zero,
	}, suite.userID)

	suite.Require().ErrorIs(err, services.ErrZeroAdjustment)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_NegativeInRejected() {
	ctx := context.Background()
	product := suite.newProduct("WIDGET-1", 10)

	suite.mockProductRepo.On("FindProductByID", ctx, suite.companyID, product.ProductID).Return(product, nil).Once()

	_, _, err := suite.service.AdjustStock(ctx, suite.companyID, product.ProductID, dto.AdjustStockRequest{
		MovementType: domain.MovementIn,
		Quantity:     decimal.NewFromInt(-3),
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestMovementsForTransition_InvoiceShipsOut() {
	ctx := context.Background()
	tracked := suite.newProduct("WIDGET-1", 10)
	consulting := suite.newProduct("CONSULT-1", 0)
	consulting.IsService = true

	txn := &domain.Transaction{
		TransactionID:     uuid.NewString(),
		CompanyID:         suite.companyID,
		TransactionNumber: "INV-2026-007",
		TransactionType:   domain.Invoice,
		TransactionDate:   time.Now().UTC(),
		Items: []domain.TransactionItem{
			{ProductID: &tracked.ProductID, Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromInt(25)},
			{ProductID: &consulting.ProductID, Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(80)},
			{Description: "Shipping", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(10)},
		},
	}

	products := map[string]domain.Product{
		tracked.ProductID: *tracked,
		consulting.ProductID: *consulting,
	}
	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, []string{tracked.ProductID, consulting.ProductID}).Return(products, nil).Once()

	movements, err := suite.service.MovementsForTransition(ctx, suite.companyID, txn, suite.userID)

	suite.Require().NoError(err)
	// Only the tracked product moves; service and free-text lines do not.
	suite.Require().Len(movements, 1)
	suite.Equal(domain.MovementOut, movements[0].MovementType)
	suite.Equal(tracked.ProductID, movements[0].ProductID)
	suite.True(movements[0].Quantity.Equal(decimal.NewFromInt(4)))
	suite.True(movements[0].CostPrice.Equal(tracked.PurchasePrice))
	suite.Require().NotNil(movements[0].TransactionID)
	suite.Equal(txn.TransactionID, *movements[0].TransactionID)

	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestMovementsForTransition_BillReceivesAtLineRate() {
	ctx := context.Background()
	tracked := suite.newProduct("WIDGET-1", 2)

	txn := &domain.Transaction{
		TransactionID:     uuid.NewString(),
		CompanyID:         suite.companyID,
		TransactionNumber: "BILL-2026-003",
		TransactionType:   domain.Bill,
		TransactionDate:   time.Now().UTC(),
		Items: []domain.TransactionItem{
			{ProductID: &tracked.ProductID, Quantity: decimal.NewFromInt(20), Rate: decimal.NewFromInt(14)},
		},
	}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, []string{tracked.ProductID}).Return(map[string]domain.Product{
		tracked.ProductID: *tracked,
	}, nil).Once()

	movements, err := suite.service.MovementsForTransition(ctx, suite.companyID, txn, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(movements, 1)
	suite.Equal(domain.MovementIn, movements[0].MovementType)
	suite.True(movements[0].Quantity.Equal(decimal.NewFromInt(20)))
	// Inbound cost comes from the bill line, not the catalog price.
	suite.True(movements[0].CostPrice.Equal(decimal.NewFromInt(14)))
}

func (suite *InventoryServiceTestSuite) TestMovementsForTransition_InsufficientStock() {
	ctx := context.Background()
	tracked := suite.newProduct("WIDGET-1", 3)

	txn := &domain.Transaction{
		TransactionID:     uuid.NewString(),
		CompanyID:         suite.companyID,
		TransactionNumber: "INV-2026-008",
		TransactionType:   domain.Invoice,
		TransactionDate:   time.Now().UTC(),
		Items: []domain.TransactionItem{
			{ProductID: &tracked.ProductID, Quantity: decimal.NewFromInt(5), Rate: decimal.NewFromInt(25)},
		},
	}

	suite.mockProductRepo.On("FindProductsByIDs", ctx, suite.companyID, []string{tracked.ProductID}).Return(map[string]domain.Product{
		tracked.ProductID: *tracked,
	}, nil).Once()

	movements, err := suite.service.MovementsForTransition(ctx, suite.companyID, txn, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.Nil(movements)
}

func (suite *InventoryServiceTestSuite) TestMovementsForTransition_OrdersMoveNothing() {
	ctx := context.Background()
	productID := uuid.NewString()

	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       suite.companyID,
		TransactionType: domain.SalesOrder,
		Items: []domain.TransactionItem{
			{ProductID: &productID, Quantity: decimal.NewFromInt(4)},
		},
	}

	movements, err := suite.service.MovementsForTransition(ctx, suite.companyID, txn, suite.userID)

	suite.Require().NoError(err)
	suite.Nil(movements)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
