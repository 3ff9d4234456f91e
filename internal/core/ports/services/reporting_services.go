package services

import (
	"context"
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
)

// ReportingSvc defines the financial report builders. Reports are computed
// on demand from the ledger; nothing is materialized.
type ReportingSvc interface {
	// GetDashboardSummary aggregates revenue, expenses and invoice workload
	// over a period.
	GetDashboardSummary(ctx context.Context, companyID string, from, to time.Time) (*domain.DashboardSummary, error)

	// GetProfitAndLoss builds a profit and loss statement over a period.
	GetProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.PAndLReport, error)

	// GetBalanceSheet builds a balance sheet as of a date, including a
	// derived retained-earnings equity line.
	GetBalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error)

	// GetCashFlow summarizes movements on cash-equivalent accounts over a
	// period, bucketed by activity.
	GetCashFlow(ctx context.Context, companyID string, from, to time.Time) (*domain.CashFlowReport, error)

	// GetReceivablesAging buckets outstanding invoices by how overdue they
	// are as of a date.
	GetReceivablesAging(ctx context.Context, companyID string, asOf time.Time) (*domain.AgingReport, error)
}
