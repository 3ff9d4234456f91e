package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item row as stored.
type Product struct {
	ProductID     string          `db:"product_id"`
	CompanyID     string          `db:"company_id"`
	SKU           string          `db:"sku"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	SalePrice     decimal.Decimal `db:"sale_price"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	IsService     bool            `db:"is_service"`
	CurrentStock  decimal.Decimal `db:"current_stock"`
	MinStockLevel decimal.Decimal `db:"min_stock_level"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}

// StockMovement is one append-only quantity-ledger row as stored.
type StockMovement struct {
	MovementID      string          `db:"movement_id"`
	CompanyID       string          `db:"company_id"`
	ProductID       string          `db:"product_id"`
	MovementType    string          `db:"movement_type"`
	Quantity        decimal.Decimal `db:"quantity"`
	CostPrice       decimal.Decimal `db:"cost_price"`
	BalanceQuantity decimal.Decimal `db:"balance_quantity"`
	MovementDate    time.Time       `db:"movement_date"`
	TransactionID   *string         `db:"transaction_id"`
	Notes           string          `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}
