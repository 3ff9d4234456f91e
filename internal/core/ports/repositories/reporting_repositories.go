package repositories

import (
	"context"
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DashboardData carries the raw aggregates the dashboard summary is built from.
type DashboardData struct {
	TotalRevenue    decimal.Decimal
	TotalExpenses   decimal.Decimal
	PendingInvoices int
	OverdueInvoices int
}

// BalanceSheetData carries per-type account balances as of a date. Equity does
// not yet include current-period earnings; the service appends those.
type BalanceSheetData struct {
	Assets      []domain.AccountAmount
	Liabilities []domain.AccountAmount
	Equity      []domain.AccountAmount
}

// AgingRow is one outstanding invoice read for the receivables aging report.
type AgingRow struct {
	TransactionID     string
	TransactionNumber string
	ContactID         *string
	DueDate           *time.Time
	BalanceAmount     decimal.Decimal
}

// ReportingRepository defines the read-side aggregation queries behind the
// financial reports. All amounts are signed per the account-type convention,
// so revenue and liability figures come back positive when in their normal
// balance direction.
type ReportingRepository interface {
	// GetDashboardData aggregates settled revenue and expense postings over
	// the period plus invoice workload counters.
	GetDashboardData(ctx context.Context, companyID string, from, to time.Time) (*DashboardData, error)

	// GetProfitAndLossData aggregates net posted amounts per revenue and
	// expense account over the period. Accounts with no postings are omitted.
	GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData aggregates opening balances plus posted entries per
	// account up to the given date, grouped into assets, liabilities and equity.
	GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) (*BalanceSheetData, error)

	// GetLifetimeEarnings sums revenue minus expense postings from the start
	// of the books through asOf. The service reports it as the retained
	// earnings line of the balance sheet.
	GetLifetimeEarnings(ctx context.Context, companyID string, asOf time.Time) (decimal.Decimal, error)

	// GetCashFlowData aggregates debits (inflows) and credits (outflows) on
	// cash-equivalent accounts over the period, grouped by the originating
	// transaction type, plus the cash balance before the period started.
	GetCashFlowData(ctx context.Context, companyID string, from, to time.Time) (movements []domain.CashMovement, openingCash decimal.Decimal, err error)

	// GetAgingData retrieves invoices with an outstanding balance as of the
	// given date. Bucketing happens in the service.
	GetAgingData(ctx context.Context, companyID string, asOf time.Time) ([]AgingRow, error)
}
