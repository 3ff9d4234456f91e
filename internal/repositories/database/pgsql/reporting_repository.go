package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetDashboardData aggregates settled revenue and expense postings over the
// period plus invoice workload counters. An invoice counts as pending while
// posted but not fully paid, and as overdue when additionally past due.
func (r *PgxReportingRepository) GetDashboardData(ctx context.Context, companyID string, from, to time.Time) (*portsrepo.DashboardData, error) {
	data := &portsrepo.DashboardData{}

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN a.account_type = 'REVENUE' THEN e.credit_amount - e.debit_amount ELSE 0 END), 0) AS revenue,
			COALESCE(SUM(CASE WHEN a.account_type = 'EXPENSE' THEN e.debit_amount - e.credit_amount ELSE 0 END), 0) AS expenses
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE e.company_id = $1
		  AND e.entry_date >= $2
		  AND e.entry_date <= $3
		  AND a.account_type IN ('REVENUE', 'EXPENSE');
	`
	if err := r.Pool.QueryRow(ctx, query, companyID, from, to).Scan(&data.TotalRevenue, &data.TotalExpenses); err != nil {
		return nil, fmt.Errorf("failed to aggregate dashboard totals: %w", err)
	}

	query = `
		SELECT
			COUNT(*) AS pending,
			COUNT(*) FILTER (WHERE due_date IS NOT NULL AND due_date < $2) AS overdue
		FROM transactions
		WHERE company_id = $1
		  AND transaction_type = 'INVOICE'
		  AND status IN ('SENT', 'ACCEPTED', 'PARTIALLY_PAID');
	`
	if err := r.Pool.QueryRow(ctx, query, companyID, to).Scan(&data.PendingInvoices, &data.OverdueInvoices); err != nil {
		return nil, fmt.Errorf("failed to count open invoices: %w", err)
	}
	return data, nil
}

// GetProfitAndLossData aggregates net posted amounts per revenue and expense
// account over the period.
func (r *PgxReportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       SUM(CASE WHEN a.account_type = 'REVENUE'
		                THEN e.credit_amount - e.debit_amount
		                ELSE e.debit_amount - e.credit_amount END) AS net_amount
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE e.company_id = $1
		  AND e.entry_date >= $2
		  AND e.entry_date <= $3
		  AND a.account_type IN ('REVENUE', 'EXPENSE')
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to aggregate profit and loss data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.AccountAmount
		var accountType string
		if err := rows.Scan(&line.AccountID, &line.Code, &line.Name, &accountType, &line.NetAmount); err != nil {
			return nil, nil, fmt.Errorf("failed to scan profit and loss row: %w", err)
		}
		if accountType == string(domain.Revenue) {
			revenue = append(revenue, line)
		} else {
			expenses = append(expenses, line)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating profit and loss rows: %w", err)
	}
	return revenue, expenses, nil
}

// balanceSheetQuery nets each balance-sheet account's opening balance with
// its postings through asOf, signed by the account's normal direction.
const balanceSheetQuery = `
	SELECT a.account_id, a.code, a.name, a.account_type,
	       a.opening_balance + COALESCE(SUM(
	           CASE WHEN a.account_type IN ('ASSET', 'EXPENSE', 'CONTRA_LIABILITY')
	                THEN e.debit_amount - e.credit_amount
	                ELSE e.credit_amount - e.debit_amount END
	       ), 0) AS balance
	FROM accounts a
	LEFT JOIN ledger_entries e
	       ON e.account_id = a.account_id AND e.entry_date <= $2
	WHERE a.company_id = $1
	  AND a.account_type IN ('ASSET', 'CONTRA_ASSET', 'LIABILITY', 'CONTRA_LIABILITY', 'EQUITY')
	GROUP BY a.account_id, a.code, a.name, a.account_type, a.opening_balance
	ORDER BY a.code;
`

// GetBalanceSheetData aggregates balances per account as of a date, grouped
// into assets, liabilities and equity. Contra accounts fold into the group
// they offset with their sign already applied.
func (r *PgxReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) (*portsrepo.BalanceSheetData, error) {
	rows, err := r.Pool.Query(ctx, balanceSheetQuery, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate balance sheet data: %w", err)
	}
	defer rows.Close()

	data := &portsrepo.BalanceSheetData{}
	for rows.Next() {
		var line domain.AccountAmount
		var accountType string
		if err := rows.Scan(&line.AccountID, &line.Code, &line.Name, &accountType, &line.NetAmount); err != nil {
			return nil, fmt.Errorf("failed to scan balance sheet row: %w", err)
		}
		switch domain.AccountType(accountType) {
		case domain.Asset:
			data.Assets = append(data.Assets, line)
		case domain.ContraAsset:
			line.NetAmount = line.NetAmount.Neg()
			data.Assets = append(data.Assets, line)
		case domain.Liability:
			data.Liabilities = append(data.Liabilities, line)
		case domain.ContraLiability:
			line.NetAmount = line.NetAmount.Neg()
			data.Liabilities = append(data.Liabilities, line)
		case domain.Equity:
			data.Equity = append(data.Equity, line)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}
	return data, nil
}

// GetLifetimeEarnings sums revenue minus expense postings through asOf.
// Revenue nets as credits minus debits and expenses subtract as debits minus
// credits, which collapses to a single credit-minus-debit sum over both.
func (r *PgxReportingRepository) GetLifetimeEarnings(ctx context.Context, companyID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(e.credit_amount - e.debit_amount), 0)
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE e.company_id = $1
		  AND e.entry_date <= $2
		  AND a.account_type IN ('REVENUE', 'EXPENSE');
	`
	var earnings decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, asOf).Scan(&earnings); err != nil {
		return decimal.Zero, fmt.Errorf("failed to aggregate lifetime earnings: %w", err)
	}
	return earnings, nil
}

// GetCashFlowData aggregates debits and credits on cash-equivalent accounts
// over the period grouped by originating transaction type, plus the cash
// balance before the period started.
func (r *PgxReportingRepository) GetCashFlowData(ctx context.Context, companyID string, from, to time.Time) ([]domain.CashMovement, decimal.Decimal, error) {
	query := `
		SELECT t.transaction_type,
		       COALESCE(SUM(e.debit_amount), 0) AS inflow,
		       COALESCE(SUM(e.credit_amount), 0) AS outflow
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		JOIN transactions t ON t.transaction_id = e.transaction_id
		WHERE e.company_id = $1
		  AND e.entry_date >= $2
		  AND e.entry_date <= $3
		  AND a.is_cash_equivalent = TRUE
		GROUP BY t.transaction_type
		ORDER BY t.transaction_type;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to aggregate cash flow data: %w", err)
	}
	defer rows.Close()

	var movements []domain.CashMovement
	for rows.Next() {
		var m domain.CashMovement
		var txnType string
		if err := rows.Scan(&txnType, &m.Inflow, &m.Outflow); err != nil {
			return nil, decimal.Zero, fmt.Errorf("failed to scan cash flow row: %w", err)
		}
		m.TransactionType = domain.TransactionType(txnType)
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, fmt.Errorf("error iterating cash flow rows: %w", err)
	}

	openingQuery := `
		SELECT COALESCE(SUM(a.opening_balance), 0) + COALESCE(SUM(sub.net), 0)
		FROM accounts a
		LEFT JOIN LATERAL (
			SELECT SUM(e.debit_amount - e.credit_amount) AS net
			FROM ledger_entries e
			WHERE e.account_id = a.account_id AND e.entry_date < $2
		) sub ON TRUE
		WHERE a.company_id = $1 AND a.is_cash_equivalent = TRUE;
	`
	var openingCash decimal.Decimal
	if err := r.Pool.QueryRow(ctx, openingQuery, companyID, from).Scan(&openingCash); err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to compute opening cash balance: %w", err)
	}
	return movements, openingCash, nil
}

// GetAgingData retrieves invoices with an outstanding balance as of the
// given date.
func (r *PgxReportingRepository) GetAgingData(ctx context.Context, companyID string, asOf time.Time) ([]portsrepo.AgingRow, error) {
	query := `
		SELECT transaction_id, transaction_number, contact_id, due_date, balance_amount
		FROM transactions
		WHERE company_id = $1
		  AND transaction_type = 'INVOICE'
		  AND status IN ('SENT', 'ACCEPTED', 'PARTIALLY_PAID')
		  AND balance_amount > 0
		  AND transaction_date <= $2
		ORDER BY due_date NULLS LAST, transaction_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query aging data: %w", err)
	}
	defer rows.Close()

	var result []portsrepo.AgingRow
	for rows.Next() {
		var row portsrepo.AgingRow
		if err := rows.Scan(&row.TransactionID, &row.TransactionNumber, &row.ContactID, &row.DueDate, &row.BalanceAmount); err != nil {
			return nil, fmt.Errorf("failed to scan aging row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aging rows: %w", err)
	}
	return result, nil
}
