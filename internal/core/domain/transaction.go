package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the commercial document a transaction represents.
// The closed set drives numbering prefixes, ledger posting profiles and valid
// item shapes; adding a type must extend every switch over it.
type TransactionType string

const (
	SalesOrder    TransactionType = "SALES_ORDER"
	PurchaseOrder TransactionType = "PURCHASE_ORDER"
	Invoice       TransactionType = "INVOICE"
	Bill          TransactionType = "BILL"
	Payment       TransactionType = "PAYMENT"
	Receipt       TransactionType = "RECEIPT"
	JournalEntry  TransactionType = "JOURNAL"
)

// IsValid reports whether the type is one of the closed set.
func (t TransactionType) IsValid() bool {
	switch t {
	case SalesOrder, PurchaseOrder, Invoice, Bill, Payment, Receipt, JournalEntry:
		return true
	}
	return false
}

// Prefix returns the human-readable numbering prefix for the type.
func (t TransactionType) Prefix() string {
	switch t {
	case SalesOrder:
		return "SO"
	case PurchaseOrder:
		return "PO"
	case Invoice:
		return "INV"
	case Bill:
		return "BILL"
	case Payment:
		return "PAY"
	case Receipt:
		return "RCT"
	case JournalEntry:
		return "JRN"
	}
	return "TXN"
}

// PostsOnSend reports whether transitioning the document to SENT realizes a
// revenue/expense ledger effect.
func (t TransactionType) PostsOnSend() bool {
	return t == Invoice || t == Bill
}

// IsPaymentType reports whether the document applies money against another
// transaction rather than carrying line items of its own.
func (t TransactionType) IsPaymentType() bool {
	return t == Payment || t == Receipt
}

// TransactionStatus is the persisted state of a transaction's approval and
// settlement lifecycle. Overdue is derived on read and never stored.
type TransactionStatus string

const (
	StatusDraft            TransactionStatus = "DRAFT"
	StatusPendingApproval  TransactionStatus = "PENDING_APPROVAL"
	StatusApproved         TransactionStatus = "APPROVED"
	StatusSent             TransactionStatus = "SENT"
	StatusChangesRequested TransactionStatus = "CHANGES_REQUESTED"
	StatusRejected         TransactionStatus = "REJECTED"
	StatusAccepted         TransactionStatus = "ACCEPTED"
	StatusPartiallyPaid    TransactionStatus = "PARTIALLY_PAID"
	StatusPaid             TransactionStatus = "PAID"
	StatusCancelled        TransactionStatus = "CANCELLED"
	StatusOverdue          TransactionStatus = "OVERDUE"
)

// IsModifiable reports whether items, contact and dates may still be edited
// and the transaction deleted.
func (s TransactionStatus) IsModifiable() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusApproved, StatusChangesRequested:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// IsSettled reports whether the status realizes revenue/expense recognition.
func (s TransactionStatus) IsSettled() bool {
	switch s {
	case StatusSent, StatusAccepted, StatusPartiallyPaid, StatusPaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving from s to
// target. Payment-driven statuses (PARTIALLY_PAID, PAID) are reachable both
// here and through payment application; OVERDUE is never a transition target.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	if target == StatusOverdue {
		return false
	}
	switch s {
	case StatusDraft:
		switch target {
		case StatusPendingApproval, StatusApproved, StatusSent, StatusCancelled:
			return true
		}
	case StatusPendingApproval:
		switch target {
		case StatusApproved, StatusRejected, StatusChangesRequested, StatusCancelled:
			return true
		}
	case StatusApproved:
		switch target {
		case StatusSent, StatusCancelled:
			return true
		}
	case StatusSent:
		switch target {
		case StatusAccepted, StatusChangesRequested, StatusPartiallyPaid, StatusPaid, StatusCancelled:
			return true
		}
	case StatusChangesRequested:
		switch target {
		case StatusPendingApproval, StatusApproved, StatusSent, StatusCancelled:
			return true
		}
	case StatusAccepted:
		switch target {
		case StatusPartiallyPaid, StatusPaid, StatusCancelled:
			return true
		}
	case StatusPartiallyPaid:
		switch target {
		case StatusPartiallyPaid, StatusPaid:
			return true
		}
	case StatusPaid, StatusCancelled, StatusRejected, StatusOverdue:
		return false
	}
	return false
}

// PaymentStatus derives the settlement status of a document from its total
// and cumulative paid amount.
func PaymentStatus(total, paid decimal.Decimal) TransactionStatus {
	if paid.GreaterThanOrEqual(total) {
		return StatusPaid
	}
	if paid.GreaterThan(decimal.Zero) {
		return StatusPartiallyPaid
	}
	return StatusSent
}

// Transaction is a commercial document: order, invoice, bill, payment or
// manual journal. Monetary fields are derived by the calculator and never
// set directly by callers.
type Transaction struct {
	TransactionID       string            `json:"transactionID"`
	CompanyID           string            `json:"companyID"`
	TransactionNumber   string            `json:"transactionNumber"` // Unique per company+type, assigned at insert
	TransactionType     TransactionType   `json:"transactionType"`
	Status              TransactionStatus `json:"status"`
	ContactID           *string           `json:"contactID,omitempty"`
	TransactionDate     time.Time         `json:"transactionDate"`
	DueDate             *time.Time        `json:"dueDate,omitempty"` // Must be >= TransactionDate
	Notes               string            `json:"notes"`
	Subtotal            decimal.Decimal   `json:"subtotal"`
	DiscountAmount      decimal.Decimal   `json:"discountAmount"`
	TaxAmount           decimal.Decimal   `json:"taxAmount"`
	TotalAmount         decimal.Decimal   `json:"totalAmount"`
	PaidAmount          decimal.Decimal   `json:"paidAmount"`
	BalanceAmount       decimal.Decimal   `json:"balanceAmount"` // TotalAmount - PaidAmount
	ParentTransactionID *string           `json:"parentTransactionID,omitempty"`
	ApprovedByID        *string           `json:"approvedByID,omitempty"`
	ApprovedAt          *time.Time        `json:"approvedAt,omitempty"`
	SentAt              *time.Time        `json:"sentAt,omitempty"`
	AcceptedAt          *time.Time        `json:"acceptedAt,omitempty"`
	RejectedAt          *time.Time        `json:"rejectedAt,omitempty"`
	RejectionReason     *string           `json:"rejectionReason,omitempty"`
	Items               []TransactionItem `json:"items,omitempty"`
	AuditFields
}

// EffectiveStatus derives the read-side status: a SENT or CHANGES_REQUESTED
// invoice whose due date has passed reports as OVERDUE without a persisted
// transition, so the stored status never goes stale.
func (t *Transaction) EffectiveStatus(now time.Time) TransactionStatus {
	if t.TransactionType != Invoice || t.DueDate == nil {
		return t.Status
	}
	if (t.Status == StatusSent || t.Status == StatusChangesRequested) && t.DueDate.Before(now) {
		return StatusOverdue
	}
	return t.Status
}

// TransactionItem is one priced line of a transaction.
type TransactionItem struct {
	ItemID          string          `json:"itemID"`
	TransactionID   string          `json:"transactionID"`
	ProductID       *string         `json:"productID,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"` // > 0, 3 decimal places
	Rate            decimal.Decimal `json:"rate"`     // >= 0, 2 decimal places
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Amount          decimal.Decimal `json:"amount"` // Computed line total
	SortOrder       int             `json:"sortOrder"`
}

// DocumentTotals are the document-level amounts derived from priced items.
type DocumentTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// ApprovalHistory is one append-only row recording a status transition.
// Rows are never mutated.
type ApprovalHistory struct {
	HistoryID       string            `json:"historyID"`
	TransactionID   string            `json:"transactionID"`
	Action          TransactionStatus `json:"action"`
	PerformedBy     string            `json:"performedBy"`
	PerformedByRole string            `json:"performedByRole"`
	Comments        string            `json:"comments"`
	CreatedAt       time.Time         `json:"createdAt"`
}
