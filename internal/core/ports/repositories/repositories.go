package repositories

// RepositoryProvider aggregates all repository facades for dependency injection.
type RepositoryProvider struct {
	Account     AccountRepositoryFacade
	Transaction TransactionRepositoryFacade
	Product     ProductRepositoryFacade
	Reporting   ReportingRepository
}
