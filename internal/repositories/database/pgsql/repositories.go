package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories. The transaction
// repository borrows the account repository for balance locking inside its
// posting transactions.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	return &portsrepo.RepositoryProvider{
		Account:     accountRepo,
		Transaction: newPgxTransactionRepository(pool, accountRepo),
		Product:     newPgxProductRepository(pool),
		Reporting:   newPgxReportingRepository(pool),
	}
}
