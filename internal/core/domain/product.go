package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable/purchasable catalog item. Service products are not
// stock-tracked.
type Product struct {
	ProductID     string          `json:"productID"`
	CompanyID     string          `json:"companyID"`
	SKU           string          `json:"sku"` // Unique per company
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	IsService     bool            `json:"isService"` // Services carry no inventory
	CurrentStock  decimal.Decimal `json:"currentStock"`
	MinStockLevel decimal.Decimal `json:"minStockLevel"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// TracksInventory reports whether stock movements apply to the product.
func (p *Product) TracksInventory() bool {
	return !p.IsService
}

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// IsValid reports whether the movement type is one of the closed set.
func (m MovementType) IsValid() bool {
	switch m {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// StockMovement is one append-only row in a product's quantity ledger.
// BalanceQuantity is the running stock total after the movement and never
// goes negative.
type StockMovement struct {
	MovementID      string          `json:"movementID"`
	CompanyID       string          `json:"companyID"`
	ProductID       string          `json:"productID"`
	MovementType    MovementType    `json:"movementType"`
	Quantity        decimal.Decimal `json:"quantity"` // Signed for ADJUSTMENT, positive otherwise
	CostPrice       decimal.Decimal `json:"costPrice"`
	BalanceQuantity decimal.Decimal `json:"balanceQuantity"`
	MovementDate    time.Time       `json:"movementDate"`
	TransactionID   *string         `json:"transactionID,omitempty"` // Originating document, if any
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// SignedQuantity returns the stock delta the movement applies: positive for
// IN, negative for OUT, as-recorded for ADJUSTMENT.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	switch m.MovementType {
	case MovementIn:
		return m.Quantity
	case MovementOut:
		return m.Quantity.Neg()
	}
	return m.Quantity
}
