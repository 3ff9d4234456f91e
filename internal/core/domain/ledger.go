package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable debit-or-credit row tying a monetary movement
// to an account and the transaction that caused it. Exactly one of
// DebitAmount/CreditAmount is non-zero. Entries are never edited; a posted
// transaction is corrected by a new reversing transaction.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	CompanyID     string          `json:"companyID"`
	AccountID     string          `json:"accountID"`
	TransactionID string          `json:"transactionID"`
	EntryDate     time.Time       `json:"entryDate"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// IsDebit reports whether the entry carries its amount on the debit side.
func (e *LedgerEntry) IsDebit() bool {
	return e.DebitAmount.GreaterThan(decimal.Zero)
}

// Amount returns the non-zero side of the entry.
func (e *LedgerEntry) Amount() decimal.Decimal {
	if e.IsDebit() {
		return e.DebitAmount
	}
	return e.CreditAmount
}
