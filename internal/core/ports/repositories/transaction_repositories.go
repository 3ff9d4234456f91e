package repositories

import (
	"context"
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsFilter narrows transaction listings.
type ListTransactionsFilter struct {
	TransactionType *domain.TransactionType
	Status          *domain.TransactionStatus
	ContactID       *string
	FromDate        *time.Time
	ToDate          *time.Time
}

// TransactionReader defines read operations for transaction documents.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its line items.
	FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves transactions for a company, newest first,
	// using token-based pagination. nextToken is empty when the page is the last.
	ListTransactions(ctx context.Context, companyID string, filter ListTransactionsFilter, limit int, nextToken string) ([]domain.Transaction, string, error)

	// ListLedgerEntriesByTransaction retrieves the posted ledger entries for a document.
	ListLedgerEntriesByTransaction(ctx context.Context, companyID, transactionID string) ([]domain.LedgerEntry, error)

	// ListApprovalHistory retrieves the status-change history of a document,
	// oldest first.
	ListApprovalHistory(ctx context.Context, companyID, transactionID string) ([]domain.ApprovalHistory, error)
}

// TransactionWriter defines write operations for transaction documents.
type TransactionWriter interface {
	// SaveTransaction atomically reserves the next document number for the
	// company and type, stamps it on the transaction, and persists the header
	// and line items. Manual journals post at creation: when entries are
	// given they are inserted and the affected account balances adjusted in
	// the same unit. The assigned number is set on the passed transaction.
	SaveTransaction(ctx context.Context, txn *domain.Transaction, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error

	// UpdateTransaction replaces the header fields and line items of a
	// modifiable document. The document number is never changed.
	UpdateTransaction(ctx context.Context, txn *domain.Transaction) error

	// DeleteTransaction removes a document and its line items. The caller must
	// have verified the document is deletable (modifiable or CANCELLED, no
	// ledger entries). The document number is not released.
	DeleteTransaction(ctx context.Context, companyID, transactionID string) error

	// SaveTransition atomically records a status change: updates the
	// transaction header, appends the history row, inserts any ledger entries
	// (locking and adjusting the affected account balances), and inserts any
	// stock movements (locking and adjusting product stock). Passing no
	// entries or movements skips those steps. The update only applies while
	// the stored status still equals previousStatus; a concurrent transition
	// having won the race surfaces as ErrConflict.
	SaveTransition(ctx context.Context, txn *domain.Transaction, previousStatus domain.TransactionStatus, history domain.ApprovalHistory, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, movements []domain.StockMovement) error

	// ApplyPayment atomically applies a settlement: persists the payment
	// document (numbered and with its own ledger entries and balance changes),
	// then locks the target document, increments its amount_paid by amount,
	// recomputes its status, and appends the target's history row.
	ApplyPayment(ctx context.Context, payment *domain.Transaction, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, targetID string, amount decimal.Decimal, userID string) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
