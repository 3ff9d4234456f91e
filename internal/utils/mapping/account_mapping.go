package mapping

import (
	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/finbooks/books_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		CompanyID:        d.CompanyID,
		Code:             d.Code,
		Name:             d.Name,
		AccountType:      models.AccountType(d.AccountType),
		ParentAccountID:  d.ParentAccountID,
		Description:      d.Description,
		OpeningBalance:   d.OpeningBalance,
		CurrentBalance:   d.CurrentBalance,
		IsSystemAccount:  d.IsSystemAccount,
		IsCashEquivalent: d.IsCashEquivalent,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		CompanyID:        m.CompanyID,
		Code:             m.Code,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		ParentAccountID:  m.ParentAccountID,
		Description:      m.Description,
		OpeningBalance:   m.OpeningBalance,
		CurrentBalance:   m.CurrentBalance,
		IsSystemAccount:  m.IsSystemAccount,
		IsCashEquivalent: m.IsCashEquivalent,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
