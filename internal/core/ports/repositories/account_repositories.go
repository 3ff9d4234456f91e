package repositories

import (
	"context"
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by ID, scoped to a company.
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code within a company.
	FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID, scoped to a company.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByCompany retrieves all accounts for a company, ordered by code.
	ListAccountsByCompany(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error)

	// FindSystemAccounts retrieves the seeded system accounts keyed by chart code.
	FindSystemAccounts(ctx context.Context, companyID string) (map[domain.SystemAccountCode]domain.Account, error)

	// HasChildren reports whether any account references the given account as parent.
	HasChildren(ctx context.Context, accountID string) (bool, error)

	// HasLedgerEntries reports whether any ledger entry references the account.
	HasLedgerEntries(ctx context.Context, accountID string) (bool, error)

	// SumLedgerBalance recomputes the account balance by replaying all its
	// ledger entries (signed per the account-type convention), including the
	// opening balance. Used to verify the incrementally maintained balance.
	SumLedgerBalance(ctx context.Context, companyID, accountID string) (decimal.Decimal, error)

	// ListLedgerEntriesByAccount retrieves an account's ledger entries, newest
	// first, using token-based pagination.
	ListLedgerEntriesByAccount(ctx context.Context, companyID, accountID string, limit int, nextToken string) ([]domain.LedgerEntry, string, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SaveAccounts persists multiple accounts within one atomic unit.
	// Used when seeding a company's default chart.
	SaveAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccount updates mutable account fields.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount soft-deletes an account.
	DeactivateAccount(ctx context.Context, companyID, accountID, userID string, now time.Time) error

	// DeleteAccount removes an account row. The caller must have verified the
	// delete rules (no children, no ledger entries, not a system account).
	DeleteAccount(ctx context.Context, companyID, accountID string) error
}

// AccountTxOps are account operations that run inside a caller-provided
// database transaction. Used by the transaction repository to lock and
// update balances atomically with ledger inserts.
type AccountTxOps interface {
	// FindAccountsByIDsForUpdate retrieves accounts by ID and locks the rows.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas to the locked accounts.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTxOps
}
