package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	"github.com/finbooks/books_backend/internal/models"
	"github.com/finbooks/books_backend/internal/utils/mapping"
	"github.com/finbooks/books_backend/internal/utils/pagination"
)

const productColumns = `product_id, company_id, sku, name, description, sale_price, purchase_price,
	       is_service, current_stock, min_stock_level, is_active,
	       created_at, created_by, last_updated_at, last_updated_by`

const stockMovementColumns = `movement_id, company_id, product_id, movement_type, quantity, cost_price,
	       balance_quantity, movement_date, transaction_id, notes, created_at, created_by`

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (*models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.CompanyID,
		&m.SKU,
		&m.Name,
		&m.Description,
		&m.SalePrice,
		&m.PurchasePrice,
		&m.IsService,
		&m.CurrentStock,
		&m.MinStockLevel,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveProduct persists a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID, m.CompanyID, m.SKU, m.Name, m.Description, m.SalePrice, m.PurchasePrice,
		m.IsService, m.CurrentStock, m.MinStockLevel, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product %s: %w", m.ProductID, mapPgError(err))
	}
	return nil
}

// UpdateProduct updates mutable product fields. Stock quantity is only ever
// changed through AdjustStock or document transitions.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products
		SET name = $3,
		    description = $4,
		    sale_price = $5,
		    purchase_price = $6,
		    min_stock_level = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE product_id = $1 AND company_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ProductID, m.CompanyID, m.Name, m.Description, m.SalePrice, m.PurchasePrice,
		m.MinStockLevel, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", m.ProductID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateProduct soft-deletes a product.
func (r *PgxProductRepository) DeactivateProduct(ctx context.Context, companyID, productID, userID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE products
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $3
		WHERE product_id = $1 AND company_id = $2;`,
		productID, companyID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate product %s: %w", productID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AdjustStock applies a manual movement against a locked product row and
// records it with the resulting balance. The lock keeps the running balance
// on the movement consistent with the product's stored quantity.
func (r *PgxProductRepository) AdjustStock(ctx context.Context, movement *domain.StockMovement) (*domain.Product, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanProduct(tx.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = $1 AND company_id = $2 FOR UPDATE;`,
		movement.ProductID, movement.CompanyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock product %s: %w", movement.ProductID, err)
	}

	newStock := m.CurrentStock.Add(movement.SignedQuantity())
	if newStock.IsNegative() {
		return nil, fmt.Errorf("%w: product %s has %s on hand", apperrors.ErrInsufficientStock, movement.ProductID, m.CurrentStock)
	}

	mm := mapping.ToModelStockMovement(*movement)
	mm.BalanceQuantity = newStock
	_, err = tx.Exec(ctx, `
		INSERT INTO stock_movements (`+stockMovementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		mm.MovementID, mm.CompanyID, mm.ProductID, mm.MovementType, mm.Quantity, mm.CostPrice,
		mm.BalanceQuantity, mm.MovementDate, mm.TransactionID, mm.Notes, mm.CreatedAt, mm.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock movement: %w", mapPgError(err))
	}

	_, err = tx.Exec(ctx, `
		UPDATE products SET current_stock = $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1;`,
		movement.ProductID, newStock, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock for product %s: %w", movement.ProductID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.CurrentStock = newStock
	m.LastUpdatedAt = movement.CreatedAt
	m.LastUpdatedBy = movement.CreatedBy
	updated := mapping.ToDomainProduct(*m)
	movement.BalanceQuantity = newStock
	return &updated, nil
}

// FindProductByID retrieves a product by ID, scoped to a company.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, companyID, productID string) (*domain.Product, error) {
	m, err := scanProduct(r.Pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = $1 AND company_id = $2;`,
		productID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	product := mapping.ToDomainProduct(*m)
	return &product, nil
}

// FindProductsByIDs retrieves multiple products keyed by ID.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, companyID string, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}
	rows, err := r.Pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 AND product_id = ANY($2);`,
		companyID, productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	products := make(map[string]domain.Product, len(productIDs))
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products[m.ProductID] = mapping.ToDomainProduct(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// ListProductsByCompany retrieves all products for a company, ordered by name.
func (r *PgxProductRepository) ListProductsByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for company %s: %w", companyID, err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListLowStockProducts retrieves active tracked products at or below their
// low-stock threshold.
func (r *PgxProductRepository) ListLowStockProducts(ctx context.Context, companyID string) ([]domain.Product, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE company_id = $1
		  AND is_active = TRUE
		  AND is_service = FALSE
		  AND current_stock <= min_stock_level
		ORDER BY name;`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products for company %s: %w", companyID, err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, mapping.ToDomainProduct(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// ListStockMovements retrieves a product's movement history, newest first,
// using token-based pagination.
func (r *PgxProductRepository) ListStockMovements(ctx context.Context, companyID, productID string, limit int, nextToken string) ([]domain.StockMovement, string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE product_id = $1 AND company_id = $2`
	args := []interface{}{productID, companyID}

	if nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(nextToken)
		if decodeErr != nil {
			return nil, "", fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (movement_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query stock movements for product %s: %w", productID, err)
	}
	defer rows.Close()

	var movements []domain.StockMovement
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(
			&m.MovementID, &m.CompanyID, &m.ProductID, &m.MovementType, &m.Quantity, &m.CostPrice,
			&m.BalanceQuantity, &m.MovementDate, &m.TransactionID, &m.Notes, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, "", fmt.Errorf("failed to scan stock movement row: %w", err)
		}
		movements = append(movements, mapping.ToDomainStockMovement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating stock movement rows: %w", err)
	}

	var newToken string
	if len(movements) > limit {
		last := movements[limit-1]
		newToken = pagination.EncodeToken(last.MovementDate, last.CreatedAt)
		movements = movements[:limit]
	}
	return movements, newToken, nil
}
