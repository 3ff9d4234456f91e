package services

import (
	"context"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/finbooks/books_backend/internal/dto"
)

// AccountReaderSvc defines read operations for chart-of-accounts data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts of a company, ordered by code.
	ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error)

	// GetAccountLedger retrieves an account's ledger entries, newest first.
	GetAccountLedger(ctx context.Context, companyID string, accountID string, limit int, nextToken string) ([]domain.LedgerEntry, string, error)

	// VerifyAccountBalance replays the account's ledger and compares the
	// result against the maintained running balance.
	VerifyAccountBalance(ctx context.Context, companyID string, accountID string) (*dto.VerifyBalanceResponse, error)
}

// AccountWriterSvc defines write operations for chart-of-accounts data
type AccountWriterSvc interface {
	// CreateAccount persists a new account after validating its type, code
	// uniqueness and parent chain.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// UpdateAccount updates mutable account details.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error

	// DeleteAccount removes an account that has no children, no ledger
	// entries and is not a system account.
	DeleteAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error

	// SeedDefaultAccounts creates the system chart of accounts for a new
	// company. It is a no-op when the system accounts already exist.
	SeedDefaultAccounts(ctx context.Context, companyID string, creatorUserID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
