package dto

import (
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionItemRequest is one raw line item as submitted.
type CreateTransactionItemRequest struct {
	ProductID       *string         `json:"productID,omitempty"`
	Description     string          `json:"description" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Rate            decimal.Decimal `json:"rate"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
}

// CreateJournalLineRequest is one caller-supplied ledger line for a JOURNAL
// document. Exactly one of Debit/Credit must be positive.
type CreateJournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateTransactionRequest defines the payload for creating a transaction
// draft. Items are required for all types except JOURNAL, which instead
// carries its balanced ledger lines.
type CreateTransactionRequest struct {
	TransactionType domain.TransactionType         `json:"transactionType" binding:"required"`
	ContactID       *string                        `json:"contactID,omitempty"`
	Date            time.Time                      `json:"date" binding:"required"`
	DueDate         *time.Time                     `json:"dueDate,omitempty"`
	Notes           string                         `json:"notes"`
	Items           []CreateTransactionItemRequest `json:"items,omitempty" binding:"omitempty,dive"`
	JournalLines    []CreateJournalLineRequest     `json:"journalLines,omitempty" binding:"omitempty,min=2,dive"`
}

// UpdateTransactionRequest defines the payload for editing a modifiable transaction.
// Nil fields are left unchanged; a non-nil Items slice replaces all items.
type UpdateTransactionRequest struct {
	ContactID *string                        `json:"contactID,omitempty"`
	Date      *time.Time                     `json:"date,omitempty"`
	DueDate   *time.Time                     `json:"dueDate,omitempty"`
	Notes     *string                        `json:"notes,omitempty"`
	Items     []CreateTransactionItemRequest `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

// TransitionStatusRequest defines the payload for a status transition.
type TransitionStatusRequest struct {
	TargetStatus domain.TransactionStatus `json:"targetStatus" binding:"required"`
	Comments     string                   `json:"comments"`
}

// ApplyPaymentRequest defines the payload for applying a payment or receipt
// against an invoice or bill.
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Date   time.Time       `json:"date" binding:"required"`
	Notes  string          `json:"notes"`
}

// ListTransactionsParams holds query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit           int
	NextToken       *string
	TransactionType *domain.TransactionType
	Status          *domain.TransactionStatus
	ContactID       *string
	FromDate        *time.Time
	ToDate          *time.Time
}

// TransactionItemResponse is one priced line in API responses.
type TransactionItemResponse struct {
	ItemID          string          `json:"itemID"`
	ProductID       *string         `json:"productID,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Amount          decimal.Decimal `json:"amount"`
	SortOrder       int             `json:"sortOrder"`
}

// TransactionResponse defines the data returned for a transaction. Status is
// the effective (read-side) status, so overdue invoices report OVERDUE here
// while the stored status remains unchanged.
type TransactionResponse struct {
	TransactionID     string                    `json:"transactionID"`
	TransactionNumber string                    `json:"transactionNumber"`
	TransactionType   domain.TransactionType    `json:"transactionType"`
	Status            domain.TransactionStatus  `json:"status"`
	ContactID         *string                   `json:"contactID,omitempty"`
	Date              time.Time                 `json:"date"`
	DueDate           *time.Time                `json:"dueDate,omitempty"`
	Notes             string                    `json:"notes,omitempty"`
	Subtotal          decimal.Decimal           `json:"subtotal"`
	DiscountAmount    decimal.Decimal           `json:"discountAmount"`
	TaxAmount         decimal.Decimal           `json:"taxAmount"`
	TotalAmount       decimal.Decimal           `json:"totalAmount"`
	PaidAmount        decimal.Decimal           `json:"paidAmount"`
	BalanceAmount     decimal.Decimal           `json:"balanceAmount"`
	Items             []TransactionItemResponse `json:"items,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	CreatedBy         string                    `json:"createdBy"`
}

// ListTransactionsResponse wraps a page of transactions with the next cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ApplyPaymentResponse returns both sides of a payment application.
type ApplyPaymentResponse struct {
	Payment TransactionResponse `json:"payment"`
	Target  TransactionResponse `json:"target"`
}

// ToTransactionItemResponse converts a domain TransactionItem to its response DTO.
func ToTransactionItemResponse(item domain.TransactionItem) TransactionItemResponse {
	return TransactionItemResponse{
		ItemID:          item.ItemID,
		ProductID:       item.ProductID,
		Description:     item.Description,
		Quantity:        item.Quantity,
		Rate:            item.Rate,
		DiscountPercent: item.DiscountPercent,
		DiscountAmount:  item.DiscountAmount,
		TaxAmount:       item.TaxAmount,
		Amount:          item.Amount,
		SortOrder:       item.SortOrder,
	}
}

// ToTransactionResponse converts a domain Transaction to its response DTO,
// deriving the effective status as of now.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:     txn.TransactionID,
		TransactionNumber: txn.TransactionNumber,
		TransactionType:   txn.TransactionType,
		Status:            txn.EffectiveStatus(time.Now().UTC()),
		ContactID:         txn.ContactID,
		Date:              txn.TransactionDate,
		DueDate:           txn.DueDate,
		Notes:             txn.Notes,
		Subtotal:          txn.Subtotal,
		DiscountAmount:    txn.DiscountAmount,
		TaxAmount:         txn.TaxAmount,
		TotalAmount:       txn.TotalAmount,
		PaidAmount:        txn.PaidAmount,
		BalanceAmount:     txn.BalanceAmount,
		CreatedAt:         txn.CreatedAt,
		CreatedBy:         txn.CreatedBy,
	}
	if len(txn.Items) > 0 {
		resp.Items = make([]TransactionItemResponse, len(txn.Items))
		for i, item := range txn.Items {
			resp.Items[i] = ToTransactionItemResponse(item)
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of domain Transactions to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
