package repositories

import (
	"context"

	"github.com/finbooks/books_backend/internal/core/domain"
)

// ProductReader defines read operations for products and stock movements.
type ProductReader interface {
	// FindProductByID retrieves a product by ID, scoped to a company.
	FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves multiple products keyed by ID.
	FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error)

	// ListProductsByCompany retrieves all products for a company, ordered by name.
	ListProductsByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Product, error)

	// ListLowStockProducts retrieves active inventory-tracked products whose
	// stock is at or below their low-stock threshold.
	ListLowStockProducts(ctx context.Context, companyID string) ([]domain.Product, error)

	// ListStockMovements retrieves a product's movement history, newest first,
	// using token-based pagination.
	ListStockMovements(ctx context.Context, companyID, productID string, limit int, nextToken string) ([]domain.StockMovement, string, error)
}

// ProductWriter defines write operations for products and stock movements.
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates mutable product fields.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeactivateProduct soft-deletes a product.
	DeactivateProduct(ctx context.Context, companyID, productID, userID string) error

	// AdjustStock atomically locks the product row, applies the signed
	// quantity delta, and records the movement with its resulting balance.
	// Returns the updated product. Fails if the adjustment would drive the
	// stock quantity negative.
	AdjustStock(ctx context.Context, movement *domain.StockMovement) (*domain.Product, error)
}

// ProductRepositoryFacade combines all product repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
