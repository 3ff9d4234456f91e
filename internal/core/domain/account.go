package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset           AccountType = "ASSET"
	Liability       AccountType = "LIABILITY"
	Equity          AccountType = "EQUITY"
	Revenue         AccountType = "REVENUE"
	Expense         AccountType = "EXPENSE"
	ContraAsset     AccountType = "CONTRA_ASSET"
	ContraLiability AccountType = "CONTRA_LIABILITY"
)

// IsValid reports whether the account type is one of the closed set.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense, ContraAsset, ContraLiability:
		return true
	}
	return false
}

// IsDebitNormal reports whether a debit increases the account's balance.
// Contra accounts carry the opposite convention of the type they offset.
func (t AccountType) IsDebitNormal() bool {
	switch t {
	case Asset, Expense, ContraLiability:
		return true
	case Liability, Equity, Revenue, ContraAsset:
		return false
	}
	return false
}

// SystemAccountCode identifies the seeded accounts the ledger poster resolves
// by chart code. One set exists per company.
type SystemAccountCode string

const (
	CodeCash               SystemAccountCode = "1000"
	CodeAccountsReceivable SystemAccountCode = "1100"
	CodeInventoryAsset     SystemAccountCode = "1300"
	CodeTaxReceivable      SystemAccountCode = "1400"
	CodeAccountsPayable    SystemAccountCode = "2000"
	CodeTaxPayable         SystemAccountCode = "2200"
	CodeOwnerEquity        SystemAccountCode = "3000"
	CodeSalesRevenue       SystemAccountCode = "4000"
	CodePurchaseExpense    SystemAccountCode = "5000"
)

// Account represents a node in a company's chart of accounts.
type Account struct {
	AccountID        string          `json:"accountID"`
	CompanyID        string          `json:"companyID"`
	Code             string          `json:"code"` // Unique per company
	Name             string          `json:"name"`
	AccountType      AccountType     `json:"accountType"`
	ParentAccountID  string          `json:"parentAccountID"` // Nullable self-reference, same company
	Description      string          `json:"description"`
	OpeningBalance   decimal.Decimal `json:"openingBalance"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"` // Incrementally maintained; verified by ledger replay
	IsSystemAccount  bool            `json:"isSystemAccount"`
	IsCashEquivalent bool            `json:"isCashEquivalent"` // Feeds the cash-flow report
	IsActive         bool            `json:"isActive"`
	AuditFields
}
