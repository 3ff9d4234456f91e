package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// DashboardSummary aggregates settled revenue and expenses over a period
// plus invoice workload counters.
type DashboardSummary struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	NetIncome       decimal.Decimal `json:"netIncome"`
	PendingInvoices int             `json:"pendingInvoices"`
	OverdueInvoices int             `json:"overdueInvoices"`
}

// PAndLReport represents a profit and loss report over a period.
type PAndLReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport represents account balances as of a date. Balanced is
// false when totalAssets diverges from totalLiabilities + totalEquity beyond
// the rounding epsilon; the report is still returned and the divergence is
// surfaced as an integrity warning.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	Balanced         bool            `json:"balanced"`
}

// CashFlowActivity buckets cash movements by the nature of the originating
// transaction type.
type CashFlowActivity string

const (
	ActivityOperating CashFlowActivity = "OPERATING"
	ActivityInvesting CashFlowActivity = "INVESTING"
	ActivityFinancing CashFlowActivity = "FINANCING"
)

// ActivityForTransactionType maps an originating transaction type onto a
// cash-flow bucket. Commercial documents and their payments are operating
// activity; manual journals are classified as financing since equity and
// loan movements enter the books that way.
func ActivityForTransactionType(t TransactionType) CashFlowActivity {
	switch t {
	case SalesOrder, PurchaseOrder, Invoice, Bill, Payment, Receipt:
		return ActivityOperating
	case JournalEntry:
		return ActivityFinancing
	}
	return ActivityOperating
}

// CashMovement is the aggregated cash effect of one originating transaction
// type over a period, as read from cash-equivalent accounts.
type CashMovement struct {
	TransactionType TransactionType `json:"transactionType"`
	Inflow          decimal.Decimal `json:"inflow"`
	Outflow         decimal.Decimal `json:"outflow"`
}

// CashFlowReport summarizes movements on cash-equivalent accounts over a
// period, bucketed by activity.
type CashFlowReport struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	OperatingInflow decimal.Decimal `json:"operatingInflow"`
	OperatingOut    decimal.Decimal `json:"operatingOutflow"`
	InvestingInflow decimal.Decimal `json:"investingInflow"`
	InvestingOut    decimal.Decimal `json:"investingOutflow"`
	FinancingInflow decimal.Decimal `json:"financingInflow"`
	FinancingOut    decimal.Decimal `json:"financingOutflow"`
	NetCashFlow     decimal.Decimal `json:"netCashFlow"`
	OpeningCash     decimal.Decimal `json:"openingCash"`
	ClosingCash     decimal.Decimal `json:"closingCash"`
}

// AgingBucket labels how overdue an outstanding invoice is.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "CURRENT" // <= 30 days overdue
	Bucket31To60  AgingBucket = "31_60"
	Bucket61To90  AgingBucket = "61_90"
	BucketOver90  AgingBucket = "OVER_90"
	BucketNotDue  AgingBucket = "NOT_DUE" // due date in the future
)

// BucketForDays maps days-overdue onto an aging bucket. Negative days mean
// the invoice is not yet due.
func BucketForDays(daysOverdue int) AgingBucket {
	switch {
	case daysOverdue < 0:
		return BucketNotDue
	case daysOverdue <= 30:
		return BucketCurrent
	case daysOverdue <= 60:
		return Bucket31To60
	case daysOverdue <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// AgingLine is one outstanding invoice placed in its bucket.
type AgingLine struct {
	TransactionID     string          `json:"transactionID"`
	TransactionNumber string          `json:"transactionNumber"`
	ContactID         *string         `json:"contactID,omitempty"`
	DueDate           *time.Time      `json:"dueDate,omitempty"`
	BalanceAmount     decimal.Decimal `json:"balanceAmount"`
	DaysOverdue       int             `json:"daysOverdue"`
	Bucket            AgingBucket     `json:"bucket"`
}

// AgingReport buckets outstanding invoices by how overdue they are as of a date.
type AgingReport struct {
	AsOf         time.Time       `json:"asOf"`
	Lines        []AgingLine     `json:"lines"`
	TotalCurrent decimal.Decimal `json:"totalCurrent"`
	Total31To60  decimal.Decimal `json:"total31To60"`
	Total61To90  decimal.Decimal `json:"total61To90"`
	TotalOver90  decimal.Decimal `json:"totalOver90"`
	TotalNotDue  decimal.Decimal `json:"totalNotDue"`
	TotalDue     decimal.Decimal `json:"totalDue"`
}
