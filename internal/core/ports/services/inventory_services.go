package services

import (
	"context"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/finbooks/books_backend/internal/dto"
)

// InventoryReaderSvc defines read operations for products and stock
type InventoryReaderSvc interface {
	// GetProductByID retrieves a specific product by its ID.
	GetProductByID(ctx context.Context, companyID string, productID string) (*domain.Product, error)

	// ListProducts retrieves all products of a company, ordered by name.
	ListProducts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Product, error)

	// ListLowStockProducts retrieves inventory-tracked products at or below
	// their low-stock threshold.
	ListLowStockProducts(ctx context.Context, companyID string) ([]domain.Product, error)

	// GetStockMovements retrieves a product's movement history, newest first.
	GetStockMovements(ctx context.Context, companyID string, productID string, limit int, nextToken string) ([]domain.StockMovement, string, error)
}

// InventoryWriterSvc defines write operations for products and stock
type InventoryWriterSvc interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, companyID string, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error)

	// UpdateProduct updates mutable product details.
	UpdateProduct(ctx context.Context, companyID string, productID string, req dto.CreateProductRequest, requestingUserID string) (*domain.Product, error)

	// DeactivateProduct marks a product as inactive.
	DeactivateProduct(ctx context.Context, companyID string, productID string, requestingUserID string) error

	// AdjustStock records a manual stock adjustment and returns the movement
	// together with the updated product.
	AdjustStock(ctx context.Context, companyID string, productID string, req dto.AdjustStockRequest, requestingUserID string) (*domain.StockMovement, *domain.Product, error)

	// MovementsForTransition computes the stock movements a settling
	// transaction implies, validating availability for outbound lines.
	MovementsForTransition(ctx context.Context, companyID string, txn *domain.Transaction, userID string) ([]domain.StockMovement, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
