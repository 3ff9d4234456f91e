package dto

import (
	"github.com/finbooks/books_backend/internal/core/domain"
)

// DashboardResponse wraps the dashboard summary.
type DashboardResponse struct {
	Summary domain.DashboardSummary `json:"summary"`
}

// ProfitAndLossResponse wraps the P&L report.
type ProfitAndLossResponse struct {
	Report domain.PAndLReport `json:"report"`
}

// BalanceSheetResponse wraps the balance sheet report.
type BalanceSheetResponse struct {
	Report domain.BalanceSheetReport `json:"report"`
}

// CashFlowResponse wraps the cash flow report.
type CashFlowResponse struct {
	Report domain.CashFlowReport `json:"report"`
}

// AgingResponse wraps the receivables aging report.
type AgingResponse struct {
	Report domain.AgingReport `json:"report"`
}
