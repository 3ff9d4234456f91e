package mapping

import (
	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/finbooks/books_backend/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:     d.ProductID,
		CompanyID:     d.CompanyID,
		SKU:           d.SKU,
		Name:          d.Name,
		Description:   d.Description,
		SalePrice:     d.SalePrice,
		PurchasePrice: d.PurchasePrice,
		IsService:     d.IsService,
		CurrentStock:  d.CurrentStock,
		MinStockLevel: d.MinStockLevel,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:     m.ProductID,
		CompanyID:     m.CompanyID,
		SKU:           m.SKU,
		Name:          m.Name,
		Description:   m.Description,
		SalePrice:     m.SalePrice,
		PurchasePrice: m.PurchasePrice,
		IsService:     m.IsService,
		CurrentStock:  m.CurrentStock,
		MinStockLevel: m.MinStockLevel,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockMovement converts a domain StockMovement to a model StockMovement
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:      d.MovementID,
		CompanyID:       d.CompanyID,
		ProductID:       d.ProductID,
		MovementType:    string(d.MovementType),
		Quantity:        d.Quantity,
		CostPrice:       d.CostPrice,
		BalanceQuantity: d.BalanceQuantity,
		MovementDate:    d.MovementDate,
		TransactionID:   d.TransactionID,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainStockMovement converts a model StockMovement to a domain StockMovement
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:      m.MovementID,
		CompanyID:       m.CompanyID,
		ProductID:       m.ProductID,
		MovementType:    domain.MovementType(m.MovementType),
		Quantity:        m.Quantity,
		CostPrice:       m.CostPrice,
		BalanceQuantity: m.BalanceQuantity,
		MovementDate:    m.MovementDate,
		TransactionID:   m.TransactionID,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}
