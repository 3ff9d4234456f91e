package dto

import (
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the payload for creating a product.
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	IsService     bool            `json:"isService"`
	OpeningStock  decimal.Decimal `json:"openingStock"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
}

// AdjustStockRequest defines the payload for a manual stock adjustment or
// a direct IN/OUT movement.
type AdjustStockRequest struct {
	MovementType domain.MovementType `json:"movementType" binding:"required"`
	Quantity     decimal.Decimal     `json:"quantity" binding:"required"`
	CostPrice    decimal.Decimal     `json:"costPrice"`
	Date         *time.Time          `json:"date,omitempty"`
	Notes        string              `json:"notes"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	IsService     bool            `json:"isService"`
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	LowStock      bool            `json:"lowStock"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StockMovementResponse defines the data returned for a stock movement.
type StockMovementResponse struct {
	MovementID      string              `json:"movementID"`
	ProductID       string              `json:"productID"`
	MovementType    domain.MovementType `json:"movementType"`
	Quantity        decimal.Decimal     `json:"quantity"`
	CostPrice       decimal.Decimal     `json:"costPrice"`
	BalanceQuantity decimal.Decimal     `json:"balanceQuantity"`
	MovementDate    time.Time           `json:"movementDate"`
	TransactionID   *string             `json:"transactionID,omitempty"`
	Notes           string              `json:"notes,omitempty"`
}

// AdjustStockResponse returns the updated product and the movement created.
type AdjustStockResponse struct {
	Product  ProductResponse       `json:"product"`
	Movement StockMovementResponse `json:"movement"`
}

// ToProductResponse converts a domain Product to its response DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		SalePrice:     p.SalePrice,
		PurchasePrice: p.PurchasePrice,
		IsService:     p.IsService,
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		LowStock:      p.TracksInventory() && p.CurrentStock.LessThan(p.MinStockLevel),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
	}
}

// ToProductResponses converts a slice of domain Products to response DTOs.
func ToProductResponses(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToStockMovementResponse converts a domain StockMovement to its response DTO.
func ToStockMovementResponse(m *domain.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		MovementID:      m.MovementID,
		ProductID:       m.ProductID,
		MovementType:    m.MovementType,
		Quantity:        m.Quantity,
		CostPrice:       m.CostPrice,
		BalanceQuantity: m.BalanceQuantity,
		MovementDate:    m.MovementDate,
		TransactionID:   m.TransactionID,
		Notes:           m.Notes,
	}
}
