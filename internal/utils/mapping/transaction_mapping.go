package mapping

import (
	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/finbooks/books_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:       d.TransactionID,
		CompanyID:           d.CompanyID,
		TransactionNumber:   d.TransactionNumber,
		TransactionType:     string(d.TransactionType),
		Status:              string(d.Status),
		ContactID:           d.ContactID,
		TransactionDate:     d.TransactionDate,
		DueDate:             d.DueDate,
		Notes:               d.Notes,
		Subtotal:            d.Subtotal,
		DiscountAmount:      d.DiscountAmount,
		TaxAmount:           d.TaxAmount,
		TotalAmount:         d.TotalAmount,
		PaidAmount:          d.PaidAmount,
		BalanceAmount:       d.BalanceAmount,
		ParentTransactionID: d.ParentTransactionID,
		ApprovedByID:        d.ApprovedByID,
		ApprovedAt:          d.ApprovedAt,
		SentAt:              d.SentAt,
		AcceptedAt:          d.AcceptedAt,
		RejectedAt:          d.RejectedAt,
		RejectionReason:     d.RejectionReason,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:       m.TransactionID,
		CompanyID:           m.CompanyID,
		TransactionNumber:   m.TransactionNumber,
		TransactionType:     domain.TransactionType(m.TransactionType),
		Status:              domain.TransactionStatus(m.Status),
		ContactID:           m.ContactID,
		TransactionDate:     m.TransactionDate,
		DueDate:             m.DueDate,
		Notes:               m.Notes,
		Subtotal:            m.Subtotal,
		DiscountAmount:      m.DiscountAmount,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		PaidAmount:          m.PaidAmount,
		BalanceAmount:       m.BalanceAmount,
		ParentTransactionID: m.ParentTransactionID,
		ApprovedByID:        m.ApprovedByID,
		ApprovedAt:          m.ApprovedAt,
		SentAt:              m.SentAt,
		AcceptedAt:          m.AcceptedAt,
		RejectedAt:          m.RejectedAt,
		RejectionReason:     m.RejectionReason,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransactionItem converts a domain TransactionItem to a model TransactionItem
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ItemID:          d.ItemID,
		TransactionID:   d.TransactionID,
		ProductID:       d.ProductID,
		Description:     d.Description,
		Quantity:        d.Quantity,
		Rate:            d.Rate,
		DiscountPercent: d.DiscountPercent,
		DiscountAmount:  d.DiscountAmount,
		TaxAmount:       d.TaxAmount,
		Amount:          d.Amount,
		SortOrder:       d.SortOrder,
	}
}

// ToDomainTransactionItem converts a model TransactionItem to a domain TransactionItem
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ItemID:          m.ItemID,
		TransactionID:   m.TransactionID,
		ProductID:       m.ProductID,
		Description:     m.Description,
		Quantity:        m.Quantity,
		Rate:            m.Rate,
		DiscountPercent: m.DiscountPercent,
		DiscountAmount:  m.DiscountAmount,
		TaxAmount:       m.TaxAmount,
		Amount:          m.Amount,
		SortOrder:       m.SortOrder,
	}
}

// ToDomainTransactionItemSlice converts a slice of model TransactionItems to domain TransactionItems
func ToDomainTransactionItemSlice(ms []models.TransactionItem) []domain.TransactionItem {
	ds := make([]domain.TransactionItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionItem(m)
	}
	return ds
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		CompanyID:     d.CompanyID,
		AccountID:     d.AccountID,
		TransactionID: d.TransactionID,
		EntryDate:     d.EntryDate,
		DebitAmount:   d.DebitAmount,
		CreditAmount:  d.CreditAmount,
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		CompanyID:     m.CompanyID,
		AccountID:     m.AccountID,
		TransactionID: m.TransactionID,
		EntryDate:     m.EntryDate,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToModelApprovalHistory converts a domain ApprovalHistory to a model ApprovalHistory
func ToModelApprovalHistory(d domain.ApprovalHistory) models.ApprovalHistory {
	return models.ApprovalHistory{
		HistoryID:       d.HistoryID,
		TransactionID:   d.TransactionID,
		Action:          string(d.Action),
		PerformedBy:     d.PerformedBy,
		PerformedByRole: d.PerformedByRole,
		Comments:        d.Comments,
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainApprovalHistory converts a model ApprovalHistory to a domain ApprovalHistory
func ToDomainApprovalHistory(m models.ApprovalHistory) domain.ApprovalHistory {
	return domain.ApprovalHistory{
		HistoryID:       m.HistoryID,
		TransactionID:   m.TransactionID,
		Action:          domain.TransactionStatus(m.Action),
		PerformedBy:     m.PerformedBy,
		PerformedByRole: m.PerformedByRole,
		Comments:        m.Comments,
		CreatedAt:       m.CreatedAt,
	}
}
