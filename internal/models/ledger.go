package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable debit-or-credit row as stored.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	CompanyID     string          `db:"company_id"`
	AccountID     string          `db:"account_id"`
	TransactionID string          `db:"transaction_id"`
	EntryDate     time.Time       `db:"entry_date"`
	DebitAmount   decimal.Decimal `db:"debit_amount"`
	CreditAmount  decimal.Decimal `db:"credit_amount"`
	Description   string          `db:"description"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
