package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a commercial document row as stored.
// Nullable references use pointers; empty-string handling is done in the
// repository scan layer.
type Transaction struct {
	TransactionID       string          `db:"transaction_id"`
	CompanyID           string          `db:"company_id"`
	TransactionNumber   string          `db:"transaction_number"`
	TransactionType     string          `db:"transaction_type"`
	Status              string          `db:"status"`
	ContactID           *string         `db:"contact_id"`
	TransactionDate     time.Time       `db:"transaction_date"`
	DueDate             *time.Time      `db:"due_date"`
	Notes               string          `db:"notes"`
	Subtotal            decimal.Decimal `db:"subtotal"`
	DiscountAmount      decimal.Decimal `db:"discount_amount"`
	TaxAmount           decimal.Decimal `db:"tax_amount"`
	TotalAmount         decimal.Decimal `db:"total_amount"`
	PaidAmount          decimal.Decimal `db:"paid_amount"`
	BalanceAmount       decimal.Decimal `db:"balance_amount"`
	ParentTransactionID *string         `db:"parent_transaction_id"`
	ApprovedByID        *string         `db:"approved_by_id"`
	ApprovedAt          *time.Time      `db:"approved_at"`
	SentAt              *time.Time      `db:"sent_at"`
	AcceptedAt          *time.Time      `db:"accepted_at"`
	RejectedAt          *time.Time      `db:"rejected_at"`
	RejectionReason     *string         `db:"rejection_reason"`
	AuditFields
}

// TransactionItem represents one priced line of a transaction as stored.
type TransactionItem struct {
	ItemID          string          `db:"item_id"`
	TransactionID   string          `db:"transaction_id"`
	ProductID       *string         `db:"product_id"`
	Description     string          `db:"description"`
	Quantity        decimal.Decimal `db:"quantity"`
	Rate            decimal.Decimal `db:"rate"`
	DiscountPercent decimal.Decimal `db:"discount_percent"`
	DiscountAmount  decimal.Decimal `db:"discount_amount"`
	TaxAmount       decimal.Decimal `db:"tax_amount"`
	Amount          decimal.Decimal `db:"amount"`
	SortOrder       int             `db:"sort_order"`
}

// ApprovalHistory is one append-only status transition row as stored.
type ApprovalHistory struct {
	HistoryID       string    `db:"history_id"`
	TransactionID   string    `db:"transaction_id"`
	Action          string    `db:"action"`
	PerformedBy     string    `db:"performed_by"`
	PerformedByRole string    `db:"performed_by_role"`
	Comments        string    `db:"comments"`
	CreatedAt       time.Time `db:"created_at"`
}
