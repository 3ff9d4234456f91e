package services

import (
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
)

// NewServiceContainer wires all application services from the repository
// provider. Inventory is built first since the transaction service feeds
// settling documents through it for stock movements.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	inventory := NewInventoryService(repos.Product)
	return &portssvc.ServiceContainer{
		Account:     NewAccountService(repos.Account),
		Inventory:   inventory,
		Transaction: NewTransactionService(repos.Transaction, repos.Account, inventory),
		Reporting:   NewReportingService(repos.Reporting),
	}
}
