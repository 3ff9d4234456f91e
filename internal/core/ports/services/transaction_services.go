package services

import (
	"context"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/finbooks/books_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for transaction documents
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a transaction with its line items.
	GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions in a company.
	ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)

	// GetLedgerEntries retrieves the posted ledger entries of a transaction.
	GetLedgerEntries(ctx context.Context, companyID string, transactionID string) ([]domain.LedgerEntry, error)

	// GetApprovalHistory retrieves the status-change history of a transaction.
	GetApprovalHistory(ctx context.Context, companyID string, transactionID string) ([]domain.ApprovalHistory, error)
}

// TransactionWriterSvc defines write operations for transaction documents
type TransactionWriterSvc interface {
	// CreateTransaction prices the submitted items, assigns the next document
	// number for the type and persists a new DRAFT transaction.
	CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error)

	// UpdateTransaction edits a modifiable transaction, re-pricing its items
	// when they are replaced. The document number never changes.
	UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error)

	// DeleteTransaction removes a modifiable or cancelled transaction that
	// never produced ledger entries. The document number is not reused.
	DeleteTransaction(ctx context.Context, companyID string, transactionID string, requestingUserID string) error

	// TransitionStatus moves a transaction to a new status, recording the
	// change in the approval history. Transitions that settle an invoice or
	// bill post ledger entries and stock movements atomically with the
	// status change.
	TransitionStatus(ctx context.Context, companyID string, transactionID string, req dto.TransitionStatusRequest, requestingUserID string) (*domain.Transaction, error)

	// ApplyPayment records a payment or receipt against an invoice or bill,
	// posting its cash entries and advancing the target toward PAID.
	ApplyPayment(ctx context.Context, companyID string, targetID string, req dto.ApplyPaymentRequest, requestingUserID string) (*domain.Transaction, *domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
