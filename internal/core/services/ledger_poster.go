package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	"github.com/finbooks/books_backend/internal/dto"
	"github.com/finbooks/books_backend/internal/utils/accounting"
)

// ledgerPoster translates settling documents into balanced double-entry
// ledger lines. Each document type has a fixed posting profile against the
// company's system accounts; manual journals carry their own lines.
type ledgerPoster struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

func newLedgerPoster(accountRepo portsrepo.AccountRepositoryFacade) *ledgerPoster {
	return &ledgerPoster{accountRepo: accountRepo}
}

// systemAccounts resolves the seeded accounts a posting profile needs.
func (p *ledgerPoster) systemAccounts(ctx context.Context, companyID string, codes ...domain.SystemAccountCode) (map[domain.SystemAccountCode]domain.Account, error) {
	accounts, err := p.accountRepo.FindSystemAccounts(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load system accounts: %w", err)
	}
	for _, code := range codes {
		if _, ok := accounts[code]; !ok {
			return nil, fmt.Errorf("%w: system account %s is not seeded for company %s", apperrors.ErrIntegrity, code, companyID)
		}
	}
	return accounts, nil
}

func newEntry(txn *domain.Transaction, account domain.Account, debit, credit decimal.Decimal, description, userID string, now time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		CompanyID:     txn.CompanyID,
		AccountID:     account.AccountID,
		TransactionID: txn.TransactionID,
		EntryDate:     txn.TransactionDate,
		DebitAmount:   debit,
		CreditAmount:  credit,
		Description:   description,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
}

// EntriesForSettlement builds the ledger lines realized when an invoice or
// bill transitions to SENT, plus the signed balance delta per account.
// Document types without a ledger effect return nil entries.
func (p *ledgerPoster) EntriesForSettlement(ctx context.Context, txn *domain.Transaction, userID string, now time.Time) ([]domain.LedgerEntry, map[string]decimal.Decimal, error) {
	if !txn.TransactionType.PostsOnSend() {
		return nil, nil, nil
	}

	var entries []domain.LedgerEntry
	accountTypes := make(map[string]domain.AccountType)

	switch txn.TransactionType {
	case domain.Invoice:
		accounts, err := p.systemAccounts(ctx, txn.CompanyID, domain.CodeAccountsReceivable, domain.CodeSalesRevenue, domain.CodeTaxPayable)
		if err != nil {
			return nil, nil, err
		}
		ar := accounts[domain.CodeAccountsReceivable]
		revenue := accounts[domain.CodeSalesRevenue]
		taxPayable := accounts[domain.CodeTaxPayable]

		desc := fmt.Sprintf("Invoice %s", txn.TransactionNumber)
		if txn.TotalAmount.GreaterThan(decimal.Zero) {
			entries = append(entries, newEntry(txn, ar, txn.TotalAmount, decimal.Zero, desc, userID, now))
		}
		if net := txn.TotalAmount.Sub(txn.TaxAmount); net.GreaterThan(decimal.Zero) {
			entries = append(entries, newEntry(txn, revenue, decimal.Zero, net, desc, userID, now))
		}
		if txn.TaxAmount.GreaterThan(decimal.Zero) {
			entries = append(entries, newEntry(txn, taxPayable, decimal.Zero, txn.TaxAmount, desc, userID, now))
		}
		accountTypes[ar.AccountID] = ar.AccountType
		accountTypes[revenue.AccountID] = revenue.AccountType
		accountTypes[taxPayable.AccountID] = taxPayable.AccountType

	case domain.Bill:
		accounts, err := p.systemAccounts(ctx, txn.CompanyID, domain.CodeAccountsPayable, domain.CodePurchaseExpense, domain.CodeTaxReceivable)
		if err != nil {
			return nil, nil, err
		}
		ap := accounts[domain.CodeAccountsPayable]
		expense := accounts[domain.CodePurchaseExpense]
		taxReceivable := accounts[domain.CodeTaxReceivable]

		desc := fmt.Sprintf("Bill %s", txn.TransactionNumber)
		if net := txn.TotalAmount.Sub(txn.TaxAmount); net.GreaterThan(decimal.Zero) {
			entries = append(entries, newEntry(txn, expense, net, decimal.Zero, desc, userID, now))
		}
		if txn.TaxAmount.GreaterThan(decimal.Zero) {
			entries = append(entries, newEntry(txn, taxReceivable, txn.TaxAmount, decimal.Zero, desc, userID, now))
		}
		if txn.TotalAmount.GreaterThan(decimal.Zero) {
			entries = append(entries, newEntry(txn, ap, decimal.Zero, txn.TotalAmount, desc, userID, now))
		}
		accountTypes[ap.AccountID] = ap.AccountType
		accountTypes[expense.AccountID] = expense.AccountType
		accountTypes[taxReceivable.AccountID] = taxReceivable.AccountType
	}

	// TODO: post cost-of-goods entries (DR COGS / CR Inventory Asset) for
	// invoice lines on tracked products once products carry a cost price.

	// A zero-total document settles without touching the ledger.
	if len(entries) == 0 {
		return nil, nil, nil
	}

	if err := accounting.ValidateEntriesBalanced(entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
	}
	balanceChanges, err := balanceChangesFor(entries, accountTypes)
	if err != nil {
		return nil, nil, err
	}
	return entries, balanceChanges, nil
}

// EntriesForPayment builds the cash lines of a payment or receipt document.
// Receipts collect a receivable into cash; payments settle a payable from cash.
func (p *ledgerPoster) EntriesForPayment(ctx context.Context, payment *domain.Transaction, targetNumber, userID string, now time.Time) ([]domain.LedgerEntry, map[string]decimal.Decimal, error) {
	var debitCode, creditCode domain.SystemAccountCode
	switch payment.TransactionType {
	case domain.Receipt:
		debitCode, creditCode = domain.CodeCash, domain.CodeAccountsReceivable
	case domain.Payment:
		debitCode, creditCode = domain.CodeAccountsPayable, domain.CodeCash
	default:
		return nil, nil, fmt.Errorf("%w: %s is not a payment document type", apperrors.ErrValidation, payment.TransactionType)
	}

	accounts, err := p.systemAccounts(ctx, payment.CompanyID, debitCode, creditCode)
	if err != nil {
		return nil, nil, err
	}
	debitAcc := accounts[debitCode]
	creditAcc := accounts[creditCode]

	// The payment's own number is assigned at insert; reference the settled
	// document instead.
	desc := fmt.Sprintf("Payment against %s", targetNumber)
	entries := []domain.LedgerEntry{
		newEntry(payment, debitAcc, payment.TotalAmount, decimal.Zero, desc, userID, now),
		newEntry(payment, creditAcc, decimal.Zero, payment.TotalAmount, desc, userID, now),
	}
	if err := accounting.ValidateEntriesBalanced(entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrIntegrity, err)
	}
	balanceChanges, err := balanceChangesFor(entries, map[string]domain.AccountType{
		debitAcc.AccountID:  debitAcc.AccountType,
		creditAcc.AccountID: creditAcc.AccountType,
	})
	if err != nil {
		return nil, nil, err
	}
	return entries, balanceChanges, nil
}

// EntriesForJournal builds ledger lines from the caller-supplied lines of a
// manual journal, validating account existence and double-entry balance.
func (p *ledgerPoster) EntriesForJournal(ctx context.Context, txn *domain.Transaction, lines []dto.CreateJournalLineRequest, userID string, now time.Time) ([]domain.LedgerEntry, map[string]decimal.Decimal, error) {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := p.accountRepo.FindAccountsByIDs(ctx, txn.CompanyID, accountIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch journal accounts: %w", err)
	}

	entries := make([]domain.LedgerEntry, 0, len(lines))
	accountTypes := make(map[string]domain.AccountType)
	for _, line := range lines {
		acc, found := accounts[line.AccountID]
		if !found {
			return nil, nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		if !acc.IsActive {
			return nil, nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, acc.Code)
		}
		// The document number is assigned at insert, so the fallback
		// description cannot reference it.
		desc := line.Description
		if desc == "" {
			desc = "Manual journal entry"
		}
		entries = append(entries, newEntry(txn, acc, line.Debit, line.Credit, desc, userID, now))
		accountTypes[acc.AccountID] = acc.AccountType
	}

	// Journal lines come from the caller, so an imbalance is bad input
	// rather than an engine fault.
	if err := accounting.ValidateEntriesBalanced(entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	balanceChanges, err := balanceChangesFor(entries, accountTypes)
	if err != nil {
		return nil, nil, err
	}
	return entries, balanceChanges, nil
}

// balanceChangesFor nets entries into a signed delta per account, using the
// normal-balance convention of each account's type.
func balanceChangesFor(entries []domain.LedgerEntry, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(accountTypes))
	for _, entry := range entries {
		accountType, ok := accountTypes[entry.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: no account type for account %s", apperrors.ErrInternal, entry.AccountID)
		}
		signed, err := accounting.SignedAmount(entry, accountType)
		if err != nil {
			return nil, err
		}
		changes[entry.AccountID] = changes[entry.AccountID].Add(signed)
	}
	return changes, nil
}
