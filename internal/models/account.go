package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the domain account type for persistence.
type AccountType string

// Account represents a chart-of-accounts row as stored.
// Note: ParentAccountID uses string for the nullable foreign key; empty means NULL.
type Account struct {
	AccountID        string          `db:"account_id"`
	CompanyID        string          `db:"company_id"`
	Code             string          `db:"code"`
	Name             string          `db:"name"`
	AccountType      AccountType     `db:"account_type"`
	ParentAccountID  string          `db:"parent_account_id"` // Nullable
	Description      string          `db:"description"`
	OpeningBalance   decimal.Decimal `db:"opening_balance"`
	CurrentBalance   decimal.Decimal `db:"current_balance"`
	IsSystemAccount  bool            `db:"is_system_account"`
	IsCashEquivalent bool            `db:"is_cash_equivalent"`
	IsActive         bool            `db:"is_active"`
	AuditFields
}
