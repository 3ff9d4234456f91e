package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
)

// reportingService builds financial reports on demand from the ledger.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvc {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// balanceSheetEpsilon is the largest asset-side divergence from
// liabilities + equity that still counts as balanced, absorbing
// per-line rounding at money scale.
var balanceSheetEpsilon = decimal.NewFromFloat(0.01)

func validatePeriod(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("%w: period end %s precedes start %s", apperrors.ErrValidation, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	return nil
}

// GetDashboardSummary aggregates settled revenue and expenses over a period
// plus invoice workload counters.
func (s *reportingService) GetDashboardSummary(ctx context.Context, companyID string, from, to time.Time) (*domain.DashboardSummary, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	data, err := s.reportingRepo.GetDashboardData(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build dashboard summary", slog.String("company_id", companyID))
		return nil, err
	}
	return &domain.DashboardSummary{
		From:            from,
		To:              to,
		TotalRevenue:    data.TotalRevenue,
		TotalExpenses:   data.TotalExpenses,
		NetIncome:       data.TotalRevenue.Sub(data.TotalExpenses),
		PendingInvoices: data.PendingInvoices,
		OverdueInvoices: data.OverdueInvoices,
	}, nil
}

// GetProfitAndLoss builds a profit and loss statement over a period.
func (s *reportingService) GetProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.PAndLReport, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build profit and loss report", slog.String("company_id", companyID))
		return nil, err
	}

	report := &domain.PAndLReport{
		From:          from,
		To:            to,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, line := range revenue {
		report.TotalRevenue = report.TotalRevenue.Add(line.NetAmount)
	}
	for _, line := range expenses {
		report.TotalExpenses = report.TotalExpenses.Add(line.NetAmount)
	}
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpenses)
	return report, nil
}

// GetBalanceSheet builds a balance sheet as of a date. Retained earnings are
// not stored on any account: lifetime revenue minus expenses is derived from
// the ledger and reported as a synthetic equity line, which is what makes
// the sheet balance. A residual mismatch is an integrity failure; the report
// is still returned with Balanced set to false.
func (s *reportingService) GetBalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	data, err := s.reportingRepo.GetBalanceSheetData(ctx, companyID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build balance sheet", slog.String("company_id", companyID))
		return nil, err
	}
	earnings, err := s.reportingRepo.GetLifetimeEarnings(ctx, companyID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute retained earnings", slog.String("company_id", companyID))
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:        asOf,
		Assets:      data.Assets,
		Liabilities: data.Liabilities,
		Equity:      append(data.Equity, domain.AccountAmount{
			Name:      "Retained Earnings",
			NetAmount: earnings,
		}),
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, line := range report.Assets {
		report.TotalAssets = report.TotalAssets.Add(line.NetAmount)
	}
	for _, line := range report.Liabilities {
		report.TotalLiabilities = report.TotalLiabilities.Add(line.NetAmount)
	}
	for _, line := range report.Equity {
		report.TotalEquity = report.TotalEquity.Add(line.NetAmount)
	}

	imbalance := report.TotalAssets.Sub(report.TotalLiabilities.Add(report.TotalEquity)).Abs()
	report.Balanced = imbalance.LessThanOrEqual(balanceSheetEpsilon)
	if !report.Balanced {
		s.LogError(ctx, apperrors.ErrIntegrity, "Balance sheet does not balance",
			slog.String("company_id", companyID),
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
	}
	return report, nil
}

// GetCashFlow summarizes movements on cash-equivalent accounts over a
// period, bucketed by the activity of the originating transaction type.
func (s *reportingService) GetCashFlow(ctx context.Context, companyID string, from, to time.Time) (*domain.CashFlowReport, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	movements, openingCash, err := s.reportingRepo.GetCashFlowData(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build cash flow report", slog.String("company_id", companyID))
		return nil, err
	}

	report := &domain.CashFlowReport{
		From:        from,
		To:          to,
		OpeningCash: openingCash,
	}
	for _, m := range movements {
		switch domain.ActivityForTransactionType(m.TransactionType) {
		case domain.ActivityOperating:
			report.OperatingInflow = report.OperatingInflow.Add(m.Inflow)
			report.OperatingOut = report.OperatingOut.Add(m.Outflow)
		case domain.ActivityInvesting:
			report.InvestingInflow = report.InvestingInflow.Add(m.Inflow)
			report.InvestingOut = report.InvestingOut.Add(m.Outflow)
		case domain.ActivityFinancing:
			report.FinancingInflow = report.FinancingInflow.Add(m.Inflow)
			report.FinancingOut = report.FinancingOut.Add(m.Outflow)
		}
	}
	report.NetCashFlow = report.OperatingInflow.Sub(report.OperatingOut).
		Add(report.InvestingInflow).Sub(report.InvestingOut).
		Add(report.FinancingInflow).Sub(report.FinancingOut)
	report.ClosingCash = report.OpeningCash.Add(report.NetCashFlow)
	return report, nil
}

// GetReceivablesAging buckets outstanding invoices by how overdue they are.
func (s *reportingService) GetReceivablesAging(ctx context.Context, companyID string, asOf time.Time) (*domain.AgingReport, error) {
	rows, err := s.reportingRepo.GetAgingData(ctx, companyID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to build aging report", slog.String("company_id", companyID))
		return nil, err
	}

	report := &domain.AgingReport{
		AsOf:  asOf,
		Lines: make([]domain.AgingLine, 0, len(rows)),
	}
	for _, row := range rows {
		daysOverdue := 0
		if row.DueDate != nil {
			daysOverdue = int(asOf.Sub(*row.DueDate).Hours() / 24)
		}
		bucket := domain.BucketForDays(daysOverdue)
		if row.DueDate == nil {
			// No due date means the invoice can never be overdue.
			bucket = domain.BucketNotDue
			daysOverdue = 0
		}

		report.Lines = append(report.Lines, domain.AgingLine{
			TransactionID:     row.TransactionID,
			TransactionNumber: row.TransactionNumber,
			ContactID:         row.ContactID,
			DueDate:           row.DueDate,
			BalanceAmount:     row.BalanceAmount,
			DaysOverdue:       daysOverdue,
			Bucket:            bucket,
		})
		switch bucket {
		case domain.BucketCurrent:
			report.TotalCurrent = report.TotalCurrent.Add(row.BalanceAmount)
		case domain.Bucket31To60:
			report.Total31To60 = report.Total31To60.Add(row.BalanceAmount)
		case domain.Bucket61To90:
			report.Total61To90 = report.Total61To90.Add(row.BalanceAmount)
		case domain.BucketOver90:
			report.TotalOver90 = report.TotalOver90.Add(row.BalanceAmount)
		case domain.BucketNotDue:
			report.TotalNotDue = report.TotalNotDue.Add(row.BalanceAmount)
		}
		report.TotalDue = report.TotalDue.Add(row.BalanceAmount)
	}
	return report, nil
}
