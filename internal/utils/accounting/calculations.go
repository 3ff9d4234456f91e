package accounting

import (
	"fmt"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the correct sign to a ledger entry's amount based on
// the account type. This is used in both services and repositories to keep
// the accounting convention consistent:
//
//	DEBIT  to ASSET/EXPENSE/CONTRA_LIABILITY      -> Positive (+)
//	CREDIT to ASSET/EXPENSE/CONTRA_LIABILITY      -> Negative (-)
//	DEBIT  to LIABILITY/EQUITY/REVENUE/CONTRA_ASSET -> Negative (-)
//	CREDIT to LIABILITY/EQUITY/REVENUE/CONTRA_ASSET -> Positive (+)
func SignedAmount(entry domain.LedgerEntry, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, entry.AccountID)
	}
	amount := entry.Amount()
	if accountType.IsDebitNormal() {
		if !entry.IsDebit() {
			amount = amount.Neg()
		}
	} else {
		if entry.IsDebit() {
			amount = amount.Neg()
		}
	}
	return amount, nil
}

// ValidateEntriesBalanced checks the double-entry invariant for one
// transaction's ledger entries: every entry carries exactly one non-zero
// side, and the sum of debits equals the sum of credits.
func ValidateEntriesBalanced(entries []domain.LedgerEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("a posting must have at least two ledger entries, got %d", len(entries))
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, e := range entries {
		debitSet := e.DebitAmount.GreaterThan(decimal.Zero)
		creditSet := e.CreditAmount.GreaterThan(decimal.Zero)
		if debitSet == creditSet {
			return fmt.Errorf("ledger entry for account %s must have exactly one of debit/credit non-zero", e.AccountID)
		}
		if e.DebitAmount.IsNegative() || e.CreditAmount.IsNegative() {
			return fmt.Errorf("ledger entry for account %s has a negative amount", e.AccountID)
		}
		debits = debits.Add(e.DebitAmount)
		credits = credits.Add(e.CreditAmount)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("ledger entries do not balance: debits sum is %s and credits sum is %s",
			debits.String(), credits.String())
	}
	return nil
}
