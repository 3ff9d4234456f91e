package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/dto"
)

var (
	ErrDuplicateSKU    = errors.New("a product with this SKU already exists")
	ErrServiceNoStock  = errors.New("service products carry no stock")
	ErrZeroAdjustment  = errors.New("stock adjustment must not be zero")
	ErrInactiveProduct = errors.New("product is inactive")
)

// inventoryService manages the product catalog and its quantity ledger.
type inventoryService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(productRepo portsrepo.ProductRepositoryFacade) portssvc.InventorySvcFacade {
	return &inventoryService{productRepo: productRepo}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// CreateProduct persists a new product. Initial stock on tracked products is
// recorded as an opening ADJUSTMENT movement so the quantity ledger starts
// from the first unit.
func (s *inventoryService) CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error) {
	if req.SalePrice.IsNegative() || req.PurchasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", apperrors.ErrValidation)
	}
	if req.OpeningStock.IsNegative() || req.MinStockLevel.IsNegative() {
		return nil, fmt.Errorf("%w: stock quantities must not be negative", apperrors.ErrValidation)
	}
	if req.IsService && !req.OpeningStock.IsZero() {
		return nil, fmt.Errorf("%w", ErrServiceNoStock)
	}

	now := time.Now().UTC()
	product := domain.Product{
		ProductID:     uuid.NewString(),
		CompanyID:     companyID,
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   req.Description,
		SalePrice:     req.SalePrice,
		PurchasePrice: req.PurchasePrice,
		IsService:     req.IsService,
		CurrentStock:  decimal.Zero,
		MinStockLevel: req.MinStockLevel,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", slog.String("company_id", companyID), slog.String("sku", req.SKU))
		return nil, err
	}

	if !req.IsService && req.OpeningStock.GreaterThan(decimal.Zero) {
		movement := &domain.StockMovement{
			MovementID:   uuid.NewString(),
			CompanyID:    companyID,
			ProductID:    product.ProductID,
			MovementType: domain.MovementAdjustment,
			Quantity:     req.OpeningStock,
			CostPrice:    req.PurchasePrice,
			MovementDate: now,
			Notes:        "Opening stock",
			CreatedAt:    now,
			CreatedBy:    creatorUserID,
		}
		updated, err := s.productRepo.AdjustStock(ctx, movement)
		if err != nil {
			s.LogError(ctx, err, "Failed to record opening stock", slog.String("product_id", product.ProductID))
			return nil, err
		}
		product.CurrentStock = updated.CurrentStock
	}

	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID), slog.String("sku", product.SKU))
	return &product, nil
}

// UpdateProduct updates mutable product details. SKU and the service flag
// are fixed after creation; stock changes only through movements.
func (s *inventoryService) UpdateProduct(ctx context.Context, companyID string, productID string, req dto.CreateProductRequest, requestingUserID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if req.SalePrice.IsNegative() || req.PurchasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", apperrors.ErrValidation)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.SalePrice = req.SalePrice
	product.PurchasePrice = req.PurchasePrice
	product.MinStockLevel = req.MinStockLevel
	product.LastUpdatedAt = time.Now().UTC()
	product.LastUpdatedBy = requestingUserID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}
	return product, nil
}

// DeactivateProduct marks a product as inactive. Its movement history stays.
func (s *inventoryService) DeactivateProduct(ctx context.Context, companyID string, productID string, requestingUserID string) error {
	if _, err := s.productRepo.FindProductByID(ctx, companyID, productID); err != nil {
		return err
	}
	return s.productRepo.DeactivateProduct(ctx, companyID, productID, requestingUserID)
}

// AdjustStock records a manual movement against a tracked product. IN and
// OUT movements carry a positive quantity; ADJUSTMENT carries a signed one.
func (s *inventoryService) AdjustStock(ctx context.Context, companyID string, productID string, req dto.AdjustStockRequest, requestingUserID string) (*domain.StockMovement, *domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, companyID, productID)
	if err != nil {
		return nil, nil, err
	}
	if !product.TracksInventory() {
		return nil, nil, fmt.Errorf("%w: %s", ErrServiceNoStock, product.SKU)
	}
	if !product.IsActive {
		return nil, nil, fmt.Errorf("%w: %s", ErrInactiveProduct, product.SKU)
	}
	if !req.MovementType.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, req.MovementType)
	}
	if req.Quantity.IsZero() {
		return nil, nil, fmt.Errorf("%w", ErrZeroAdjustment)
	}
	if req.MovementType != domain.MovementAdjustment && req.Quantity.IsNegative() {
		return nil, nil, fmt.Errorf("%w: %s movements carry a positive quantity", apperrors.ErrValidation, req.MovementType)
	}

	now := time.Now().UTC()
	movementDate := now
	if req.Date != nil {
		movementDate = *req.Date
	}
	costPrice := req.CostPrice
	if costPrice.IsZero() {
		costPrice = product.PurchasePrice
	}
	movement := &domain.StockMovement{
		MovementID:   uuid.NewString(),
		CompanyID:    companyID,
		ProductID:    productID,
		MovementType: req.MovementType,
		Quantity:     req.Quantity,
		CostPrice:    costPrice,
		MovementDate: movementDate,
		Notes:        req.Notes,
		CreatedAt:    now,
		CreatedBy:    requestingUserID,
	}

	updated, err := s.productRepo.AdjustStock(ctx, movement)
	if err != nil {
		s.LogError(ctx, err, "Failed to adjust stock",
			slog.String("product_id", productID),
			slog.String("quantity", req.Quantity.String()))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Stock adjusted",
		slog.String("product_id", productID),
		slog.String("quantity", req.Quantity.String()),
		slog.String("balance", updated.CurrentStock.String()))
	return movement, updated, nil
}

// MovementsForTransition computes the stock movements a settling invoice or
// bill implies: invoices ship stock OUT, bills receive it IN. Lines without
// a product or on service products move nothing. Availability is validated
// here; the repository re-checks under the row lock when it applies them.
func (s *inventoryService) MovementsForTransition(ctx context.Context, companyID string, txn *domain.Transaction, userID string) ([]domain.StockMovement, error) {
	var movementType domain.MovementType
	switch txn.TransactionType {
	case domain.Invoice:
		movementType = domain.MovementOut
	case domain.Bill:
		movementType = domain.MovementIn
	default:
		return nil, nil
	}

	productIDs := make([]string, 0, len(txn.Items))
	for _, item := range txn.Items {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}
	if len(productIDs) == 0 {
		return nil, nil
	}

	products, err := s.productRepo.FindProductsByIDs(ctx, companyID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for stock movements: %w", err)
	}

	now := time.Now().UTC()
	var movements []domain.StockMovement
	for _, item := range txn.Items {
		if item.ProductID == nil {
			continue
		}
		product, found := products[*item.ProductID]
		if !found {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, *item.ProductID)
		}
		if !product.TracksInventory() {
			continue
		}
		if movementType == domain.MovementOut && product.CurrentStock.LessThan(item.Quantity) {
			return nil, fmt.Errorf("%w: product %s has %s on hand, %s required",
				apperrors.ErrInsufficientStock, product.SKU, product.CurrentStock, item.Quantity)
		}
		costPrice := product.PurchasePrice
		if movementType == domain.MovementIn {
			costPrice = item.Rate
		}
		movements = append(movements, domain.StockMovement{
			MovementID:    uuid.NewString(),
			CompanyID:     companyID,
			ProductID:     product.ProductID,
			MovementType:  movementType,
			Quantity:      item.Quantity,
			CostPrice:     costPrice,
			MovementDate:  txn.TransactionDate,
			TransactionID: &txn.TransactionID,
			Notes:         fmt.Sprintf("%s %s", txn.TransactionType.Prefix(), txn.TransactionNumber),
			CreatedAt:     now,
			CreatedBy:     userID,
		})
	}
	return movements, nil
}

// GetProductByID retrieves a specific product by its ID.
func (s *inventoryService) GetProductByID(ctx context.Context, companyID string, productID string) (*domain.Product, error) {
	return s.productRepo.FindProductByID(ctx, companyID, productID)
}

// ListProducts retrieves all products of a company, ordered by name.
func (s *inventoryService) ListProducts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Product, error) {
	return s.productRepo.ListProductsByCompany(ctx, companyID, includeInactive)
}

// ListLowStockProducts retrieves tracked products at or below their
// low-stock threshold.
func (s *inventoryService) ListLowStockProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	return s.productRepo.ListLowStockProducts(ctx, companyID)
}

// GetStockMovements retrieves a product's movement history, newest first.
func (s *inventoryService) GetStockMovements(ctx context.Context, companyID string, productID string, limit int, nextToken string) ([]domain.StockMovement, string, error) {
	if _, err := s.productRepo.FindProductByID(ctx, companyID, productID); err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.productRepo.ListStockMovements(ctx, companyID, productID, limit, nextToken)
}
