package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/core/services"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

// Ensure MockReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetDashboardData(ctx context.Context, companyID string, from, to time.Time) (*portsrepo.DashboardData, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.DashboardData), args.Error(1)
}

func (m *MockReportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil && args.Get(1) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) (*portsrepo.BalanceSheetData, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.BalanceSheetData), args.Error(1)
}

func (m *MockReportingRepository) GetLifetimeEarnings(ctx context.Context, companyID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetCashFlowData(ctx context.Context, companyID string, from, to time.Time) ([]domain.CashMovement, decimal.Decimal, error) {
	args := m.Called(ctx, companyID, from, to)
	if args.Get(0) == nil {
		return nil, decimal.Zero, args.Error(2)
	}
	return args.Get(0).([]domain.CashMovement), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportingRepository) GetAgingData(ctx context.Context, companyID string, asOf time.Time) ([]portsrepo.AgingRow, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.AgingRow), args.Error(1)
}

// --- Test Suite Setup ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	service           portssvc.ReportingSvc
	companyID         string
	from              time.Time
	to                time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo)
	suite.companyID = uuid.NewString()
	suite.from = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.to = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestGetDashboardSummary() {
	ctx := context.Background()
	data := &portsrepo.DashboardData{
		TotalRevenue:    decimal.NewFromInt(1200),
		TotalExpenses:   decimal.NewFromInt(450),
		PendingInvoices: 3,
		OverdueInvoices: 1,
	}

	suite.mockReportingRepo.On("GetDashboardData", ctx, suite.companyID, suite.from, suite.to).Return(data, nil).Once()

	summary, err := suite.service.GetDashboardSummary(ctx, suite.companyID, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.True(summary.NetIncome.Equal(decimal.NewFromInt(750)))
	suite.Equal(3, summary.PendingInvoices)
	suite.Equal(1, summary.OverdueInvoices)
}

func (suite *ReportingServiceTestSuite) TestGetDashboardSummary_InvertedPeriod() {
	ctx := context.Background()

	summary, err := suite.service.GetDashboardSummary(ctx, suite.companyID, suite.to, suite.from)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(summary)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetDashboardData", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestGetProfitAndLoss() {
	ctx := context.Background()
	revenue := []domain.AccountAmount{
		{Code: "4000", Name: "Sales Revenue", NetAmount: decimal.NewFromInt(900)},
		{Code: "4100", Name: "Service Revenue", NetAmount: decimal.NewFromInt(300)},
	}
	expenses := []domain.AccountAmount{
		{Code: "5000", Name: "Purchases", NetAmount: decimal.NewFromInt(400)},
	}

	suite.mockReportingRepo.On("GetProfitAndLossData", ctx, suite.companyID, suite.from, suite.to).Return(revenue, expenses, nil).Once()

	report, err := suite.service.GetProfitAndLoss(ctx, suite.companyID, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.True(report.TotalRevenue.Equal(decimal.NewFromInt(1200)))
	suite.True(report.TotalExpenses.Equal(decimal.NewFromInt(400)))
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(800)))
	suite.Len(report.Revenue, 2)
	suite.Len(report.Expenses, 1)
}

func (suite *ReportingServiceTestSuite) TestGetBalanceSheet_Balanced() {
	ctx := context.Background()
	asOf := suite.to
	data := &portsrepo.BalanceSheetData{
		Assets: []domain.AccountAmount{
			{Code: "1000", Name: "Cash", NetAmount: decimal.NewFromInt(700)},
			{Code: "1100", Name: "Accounts Receivable", NetAmount: decimal.NewFromInt(300)},
		},
		Liabilities: []domain.AccountAmount{
			{Code: "2000", Name: "Accounts Payable", NetAmount: decimal.NewFromInt(150)},
		},
		Equity: []domain.AccountAmount{
			{Code: "3000", Name: "Owner's Equity", NetAmount: decimal.NewFromInt(250)},
		},
	}

	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.companyID, asOf).Return(data, nil).Once()
	suite.mockReportingRepo.On("GetLifetimeEarnings", ctx, suite.companyID, asOf).Return(decimal.NewFromInt(600), nil).Once()

	report, err := suite.service.GetBalanceSheet(ctx, suite.companyID, asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(1000)))
	suite.True(report.TotalLiabilities.Equal(decimal.NewFromInt(150)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(850)))
	suite.True(report.Balanced)

	// Retained earnings appear as a synthetic equity line.
	suite.Require().Len(report.Equity, 2)
	suite.Equal("Retained Earnings", report.Equity[1].Name)
	suite.True(report.Equity[1].NetAmount.Equal(decimal.NewFromInt(600)))
}

func (suite *ReportingServiceTestSuite) TestGetBalanceSheet_RoundingWithinEpsilon() {
	ctx := context.Background()
	asOf := suite.to
	data := &portsrepo.BalanceSheetData{
		Assets: []domain.AccountAmount{
			{Code: "1000", Name: "Cash", NetAmount: decimal.NewFromInt(1000)},
		},
		Liabilities: []domain.AccountAmount{
			{Code: "2000", Name: "Accounts Payable", NetAmount: decimal.NewFromInt(150)},
		},
		Equity: []domain.AccountAmount{
			{Code: "3000", Name: "Owner's Equity", NetAmount: decimal.NewFromInt(250)},
		},
	}

	// A one-cent residue from per-line rounding still counts as balanced.
	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.companyID, asOf).Return(data, nil).Once()
	suite.mockReportingRepo.On("GetLifetimeEarnings", ctx, suite.companyID, asOf).Return(decimal.NewFromFloat(599.99), nil).Once()

	report, err := suite.service.GetBalanceSheet(ctx, suite.companyID, asOf)

	suite.Require().NoError(err)
	suite.True(report.Balanced)
}

func (suite *ReportingServiceTestSuite) TestGetBalanceSheet_ReportsImbalance() {
	ctx := context.Background()
	asOf := suite.to
	data := &portsrepo.BalanceSheetData{
		Assets: []domain.AccountAmount{
			{Code: "1000", Name: "Cash", NetAmount: decimal.NewFromInt(1000)},
		},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
	}

	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.companyID, asOf).Return(data, nil).Once()
	suite.mockReportingRepo.On("GetLifetimeEarnings", ctx, suite.companyID, asOf).Return(decimal.NewFromInt(900), nil).Once()

	report, err := suite.service.GetBalanceSheet(ctx, suite.companyID, asOf)

	suite.Require().NoError(err)
	suite.False(report.Balanced)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(1000)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(900)))
}

func (suite *ReportingServiceTestSuite) TestGetCashFlow() {
	ctx := context.Background()
	movements := []domain.CashMovement{
		{TransactionType: domain.Receipt, Inflow: decimal.NewFromInt(500), Outflow: decimal.Zero},
		{TransactionType: domain.Payment, Inflow: decimal.Zero, Outflow: decimal.NewFromInt(200)},
		{TransactionType: domain.JournalEntry, Inflow: decimal.NewFromInt(1000), Outflow: decimal.NewFromInt(100)},
	}

	suite.mockReportingRepo.On("GetCashFlowData", ctx, suite.companyID, suite.from, suite.to).Return(movements, decimal.NewFromInt(50), nil).Once()

	report, err := suite.service.GetCashFlow(ctx, suite.companyID, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.True(report.OperatingInflow.Equal(decimal.NewFromInt(500)))
	suite.True(report.OperatingOut.Equal(decimal.NewFromInt(200)))
	suite.True(report.FinancingInflow.Equal(decimal.NewFromInt(1000)))
	suite.True(report.FinancingOut.Equal(decimal.NewFromInt(100)))
	suite.True(report.InvestingInflow.IsZero())
	suite.True(report.NetCashFlow.Equal(decimal.NewFromInt(1200)))
	suite.True(report.OpeningCash.Equal(decimal.NewFromInt(50)))
	suite.True(report.ClosingCash.Equal(decimal.NewFromInt(1250)))
}

func (suite *ReportingServiceTestSuite) TestGetReceivablesAging() {
	ctx := context.Background()
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	due := func(daysAgo int) *time.Time {
		d := asOf.AddDate(0, 0, -daysAgo)
		return &d
	}
	rows := []portsrepo.AgingRow{
		{TransactionID: uuid.NewString(), TransactionNumber: "INV-2026-001", DueDate: due(-15), BalanceAmount: decimal.NewFromInt(100)}, // not yet due
		{TransactionID: uuid.NewString(), TransactionNumber: "INV-2026-002", DueDate: due(10), BalanceAmount: decimal.NewFromInt(200)},
		{TransactionID: uuid.NewString(), TransactionNumber: "INV-2026-003", DueDate: due(45), BalanceAmount: decimal.NewFromInt(300)},
		{TransactionID: uuid.NewString(), TransactionNumber: "INV-2026-004", DueDate: due(75), BalanceAmount: decimal.NewFromInt(400)},
		{TransactionID: uuid.NewString(), TransactionNumber: "INV-2026-005", DueDate: due(120), BalanceAmount: decimal.NewFromInt(500)},
		{TransactionID: uuid.NewString(), TransactionNumber: "INV-2026-006", DueDate: nil, BalanceAmount: decimal.NewFromInt(50)},
	}

	suite.mockReportingRepo.On("GetAgingData", ctx, suite.companyID, asOf).Return(rows, nil).Once()

	report, err := suite.service.GetReceivablesAging(ctx, suite.companyID, asOf)

	suite.Require().NoError(err)
	suite.Require().Len(report.Lines, 6)
	suite.Equal(domain.BucketNotDue, report.Lines[0].Bucket)
	suite.Equal(domain.BucketCurrent, report.Lines[1].Bucket)
	suite.Equal(domain.Bucket31To60, report.Lines[2].Bucket)
	suite.Equal(domain.Bucket61To90, report.Lines[3].Bucket)
	suite.Equal(domain.BucketOver90, report.Lines[4].Bucket)
	// An invoice with no due date can never age.
	suite.Equal(domain.BucketNotDue, report.Lines[5].Bucket)
	suite.Equal(0, report.Lines[5].DaysOverdue)

	suite.True(report.TotalNotDue.Equal(decimal.NewFromInt(150)))
	suite.True(report.TotalCurrent.Equal(decimal.NewFromInt(200)))
	suite.True(report.Total31To60.Equal(decimal.NewFromInt(300)))
	suite.True(report.Total61To90.Equal(decimal.NewFromInt(400)))
	suite.True(report.TotalOver90.Equal(decimal.NewFromInt(500)))
	suite.True(report.TotalDue.Equal(decimal.NewFromInt(1550)))
}

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
