package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/dto"
)

var (
	ErrParentCycle       = errors.New("account parent chain must not form a cycle")
	ErrParentTypeDiffers = errors.New("child account type must match its parent")
	ErrSystemAccount     = errors.New("system accounts cannot be altered or deleted")
	ErrAccountInUse      = errors.New("account with ledger entries or children cannot be deleted")
)

// defaultChart is the system chart seeded for every new company. The ledger
// poster resolves these accounts by code.
var defaultChart = []struct {
	Code     domain.SystemAccountCode
	Name     string
	Type     domain.AccountType
	CashEq   bool
}{
	{domain.CodeCash, "Cash", domain.Asset, true},
	{domain.CodeAccountsReceivable, "Accounts Receivable", domain.Asset, false},
	{domain.CodeInventoryAsset, "Inventory Asset", domain.Asset, false},
	{domain.CodeTaxReceivable, "Tax Receivable", domain.Asset, false},
	{domain.CodeAccountsPayable, "Accounts Payable", domain.Liability, false},
	{domain.CodeTaxPayable, "Tax Payable", domain.Liability, false},
	{domain.CodeOwnerEquity, "Owner's Equity", domain.Equity, false},
	{domain.CodeSalesRevenue, "Sales Revenue", domain.Revenue, false},
	{domain.CodePurchaseExpense, "Purchases", domain.Expense, false},
}

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// validateParentChain checks that the parent exists in the same company,
// shares the account type and does not close a cycle back to accountID.
func (s *accountService) validateParentChain(ctx context.Context, companyID, accountID, parentID string, accountType domain.AccountType) error {
	seen := map[string]bool{accountID: true}
	current := parentID
	for current != "" {
		if seen[current] {
			return fmt.Errorf("%w: account %s", ErrParentCycle, current)
		}
		seen[current] = true
		parent, err := s.accountRepo.FindAccountByID(ctx, companyID, current)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, current)
			}
			return err
		}
		if parent.AccountType != accountType {
			return fmt.Errorf("%w: parent %s is %s", ErrParentTypeDiffers, parent.Code, parent.AccountType)
		}
		current = parent.ParentAccountID
	}
	return nil
}

// CreateAccount persists a new account after validating its type, code
// uniqueness and parent chain.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, companyID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	}

	accountID := uuid.NewString()
	if req.ParentAccountID != "" {
		if err := s.validateParentChain(ctx, companyID, accountID, req.ParentAccountID, req.AccountType); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:        accountID,
		CompanyID:        companyID,
		Code:             req.Code,
		Name:             req.Name,
		AccountType:      req.AccountType,
		ParentAccountID:  req.ParentAccountID,
		Description:      req.Description,
		OpeningBalance:   req.OpeningBalance,
		CurrentBalance:   req.OpeningBalance,
		IsCashEquivalent: req.IsCashEquivalent,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("company_id", companyID), slog.String("code", req.Code))
		return nil, err
	}
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount updates mutable account details. Code, type and opening
// balance are immutable once the account exists.
func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsSystemAccount && req.ParentAccountID != nil {
		return nil, fmt.Errorf("%w: %s", ErrSystemAccount, account.Code)
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsCashEquivalent != nil {
		account.IsCashEquivalent = *req.IsCashEquivalent
	}
	if req.ParentAccountID != nil {
		if *req.ParentAccountID != "" {
			if err := s.validateParentChain(ctx, companyID, accountID, *req.ParentAccountID, account.AccountType); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = *req.ParentAccountID
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

// DeactivateAccount marks an account as inactive. Inactive accounts keep
// their history but reject new postings.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystemAccount {
		return fmt.Errorf("%w: %s", ErrSystemAccount, account.Code)
	}
	return s.accountRepo.DeactivateAccount(ctx, companyID, accountID, requestingUserID, time.Now().UTC())
}

// DeleteAccount removes an account that has never been posted to, has no
// children and is not a system account.
func (s *accountService) DeleteAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystemAccount {
		return fmt.Errorf("%w: %s", ErrSystemAccount, account.Code)
	}
	hasChildren, err := s.accountRepo.HasChildren(ctx, accountID)
	if err != nil {
		return err
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s has child accounts", ErrAccountInUse, account.Code)
	}
	hasEntries, err := s.accountRepo.HasLedgerEntries(ctx, accountID)
	if err != nil {
		return err
	}
	if hasEntries {
		return fmt.Errorf("%w: account %s has ledger entries", ErrAccountInUse, account.Code)
	}
	if err := s.accountRepo.DeleteAccount(ctx, companyID, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("code", account.Code))
	return nil
}

// SeedDefaultAccounts creates the system chart for a new company. Idempotent:
// when system accounts already exist nothing is written.
func (s *accountService) SeedDefaultAccounts(ctx context.Context, companyID string, creatorUserID string) ([]domain.Account, error) {
	existing, err := s.accountRepo.FindSystemAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		accounts := make([]domain.Account, 0, len(existing))
		for _, acc := range existing {
			accounts = append(accounts, acc)
		}
		return accounts, nil
	}

	now := time.Now().UTC()
	accounts := make([]domain.Account, len(defaultChart))
	for i, entry := range defaultChart {
		accounts[i] = domain.Account{
			AccountID:        uuid.NewString(),
			CompanyID:        companyID,
			Code:             string(entry.Code),
			Name:             entry.Name,
			AccountType:      entry.Type,
			OpeningBalance:   decimal.Zero,
			CurrentBalance:   decimal.Zero,
			IsSystemAccount:  true,
			IsCashEquivalent: entry.CashEq,
			IsActive:         true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}
	if err := s.accountRepo.SaveAccounts(ctx, accounts); err != nil {
		s.LogError(ctx, err, "Failed to seed default accounts", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Default chart of accounts seeded", slog.String("company_id", companyID), slog.Int("accounts", len(accounts)))
	return accounts, nil
}

// GetAccountByID retrieves a specific account by its ID.
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, companyID, accountID)
}

// ListAccounts retrieves all accounts of a company, ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByCompany(ctx, companyID, includeInactive)
}

// GetAccountLedger retrieves an account's ledger entries, newest first.
func (s *accountService) GetAccountLedger(ctx context.Context, companyID string, accountID string, limit int, nextToken string) ([]domain.LedgerEntry, string, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID); err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.accountRepo.ListLedgerEntriesByAccount(ctx, companyID, accountID, limit, nextToken)
}

// VerifyAccountBalance replays the account's ledger entries and compares the
// result against the maintained balance. A mismatch means the books were
// corrupted outside the posting path and is reported as an integrity error.
func (s *accountService) VerifyAccountBalance(ctx context.Context, companyID string, accountID string) (*dto.VerifyBalanceResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	computed, err := s.accountRepo.SumLedgerBalance(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	resp := &dto.VerifyBalanceResponse{
		AccountID:       accountID,
		CurrentBalance:  account.CurrentBalance,
		ComputedBalance: computed,
		Consistent:      account.CurrentBalance.Equal(computed),
	}
	if !resp.Consistent {
		s.LogError(ctx, apperrors.ErrIntegrity, "Account balance diverges from ledger replay",
			slog.String("account_id", accountID),
			slog.String("current_balance", account.CurrentBalance.String()),
			slog.String("computed_balance", computed.String()))
	}
	return resp, nil
}
