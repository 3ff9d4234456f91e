package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	"github.com/finbooks/books_backend/internal/models"
	"github.com/finbooks/books_backend/internal/utils/mapping"
	"github.com/finbooks/books_backend/internal/utils/pagination"
)

const transactionColumns = `transaction_id, company_id, transaction_number, transaction_type, status,
	       contact_id, transaction_date, due_date, notes,
	       subtotal, discount_amount, tax_amount, total_amount, paid_amount, balance_amount,
	       parent_transaction_id, approved_by_id, approved_at, sent_at, accepted_at, rejected_at, rejection_reason,
	       created_at, created_by, last_updated_at, last_updated_by`

const ledgerEntryColumns = `entry_id, company_id, account_id, transaction_id, entry_date,
	       debit_amount, credit_amount, description, created_at, created_by`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxTransactionRepository creates a new repository for transaction
// documents. The account repository is used to lock and adjust balances
// inside posting transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// nextTransactionNumber reserves the next sequence value for the company and
// type inside tx and formats it as PREFIX-YEAR-NNN. The upsert takes a row
// lock, so concurrent creations serialize on the sequence row and numbers
// are never duplicated. Deleted documents do not release their number.
func (r *PgxTransactionRepository) nextTransactionNumber(ctx context.Context, tx pgx.Tx, companyID string, txnType domain.TransactionType, date time.Time) (string, error) {
	query := `
		INSERT INTO transaction_sequences (company_id, transaction_type, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, transaction_type)
		DO UPDATE SET last_number = transaction_sequences.last_number + 1
		RETURNING last_number;
	`
	var seq int64
	if err := tx.QueryRow(ctx, query, companyID, string(txnType)).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to reserve transaction number: %w", mapPgError(err))
	}
	return fmt.Sprintf("%s-%d-%03d", txnType.Prefix(), date.Year(), seq), nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.TransactionNumber,
		&m.TransactionType,
		&m.Status,
		&m.ContactID,
		&m.TransactionDate,
		&m.DueDate,
		&m.Notes,
		&m.Subtotal,
		&m.DiscountAmount,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.BalanceAmount,
		&m.ParentTransactionID,
		&m.ApprovedByID,
		&m.ApprovedAt,
		&m.SentAt,
		&m.AcceptedAt,
		&m.RejectedAt,
		&m.RejectionReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxTransactionRepository) insertTransactionTx(ctx context.Context, tx pgx.Tx, m models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID, m.CompanyID, m.TransactionNumber, m.TransactionType, m.Status,
		m.ContactID, m.TransactionDate, m.DueDate, m.Notes,
		m.Subtotal, m.DiscountAmount, m.TaxAmount, m.TotalAmount, m.PaidAmount, m.BalanceAmount,
		m.ParentTransactionID, m.ApprovedByID, m.ApprovedAt, m.SentAt, m.AcceptedAt, m.RejectedAt, m.RejectionReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, mapPgError(err))
	}
	return nil
}

func (r *PgxTransactionRepository) insertItemsTx(ctx context.Context, tx pgx.Tx, items []domain.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO transaction_items (item_id, transaction_id, product_id, description, quantity, rate,
		                               discount_percent, discount_amount, tax_amount, amount, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, item := range items {
		m := mapping.ToModelTransactionItem(item)
		batch.Queue(query,
			m.ItemID, m.TransactionID, m.ProductID, m.Description, m.Quantity, m.Rate,
			m.DiscountPercent, m.DiscountAmount, m.TaxAmount, m.Amount, m.SortOrder,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert transaction items: %w", mapPgError(err))
	}
	return nil
}

// postEntriesTx locks the affected accounts, inserts the ledger entries and
// applies the balance deltas, all inside the caller's transaction.
func (r *PgxTransactionRepository) postEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(entries) == 0 {
		return nil
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for posting: %w", err)
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, entry := range entries {
		m := mapping.ToModelLedgerEntry(entry)
		batch.Queue(query,
			m.EntryID, m.CompanyID, m.AccountID, m.TransactionID, m.EntryDate,
			m.DebitAmount, m.CreditAmount, m.Description, m.CreatedAt, m.CreatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert ledger entries: %w", mapPgError(err))
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}
	return nil
}

// applyMovementsTx locks each product row, re-validates availability under
// the lock and inserts the movements with their running balances.
func (r *PgxTransactionRepository) applyMovementsTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error {
	for _, movement := range movements {
		var currentStock decimal.Decimal
		err := tx.QueryRow(ctx,
			`SELECT current_stock FROM products WHERE product_id = $1 AND company_id = $2 FOR UPDATE;`,
			movement.ProductID, movement.CompanyID,
		).Scan(&currentStock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: product %s", apperrors.ErrNotFound, movement.ProductID)
			}
			return fmt.Errorf("failed to lock product %s: %w", movement.ProductID, err)
		}

		newStock := currentStock.Add(movement.SignedQuantity())
		if newStock.IsNegative() {
			return fmt.Errorf("%w: product %s has %s on hand", apperrors.ErrInsufficientStock, movement.ProductID, currentStock)
		}

		m := mapping.ToModelStockMovement(movement)
		m.BalanceQuantity = newStock
		_, err = tx.Exec(ctx, `
			INSERT INTO stock_movements (movement_id, company_id, product_id, movement_type, quantity, cost_price,
			                             balance_quantity, movement_date, transaction_id, notes, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
			m.MovementID, m.CompanyID, m.ProductID, m.MovementType, m.Quantity, m.CostPrice,
			m.BalanceQuantity, m.MovementDate, m.TransactionID, m.Notes, m.CreatedAt, m.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert stock movement for product %s: %w", movement.ProductID, mapPgError(err))
		}

		_, err = tx.Exec(ctx, `
			UPDATE products SET current_stock = $2, last_updated_at = $3, last_updated_by = $4
			WHERE product_id = $1;`,
			movement.ProductID, newStock, movement.CreatedAt, movement.CreatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to update stock for product %s: %w", movement.ProductID, err)
		}
	}
	return nil
}

// SaveTransaction reserves the next document number, stamps it on the
// transaction and persists the header and items atomically. When entries are
// given (manual journals) they are posted in the same unit.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	number, err := r.nextTransactionNumber(ctx, tx, txn.CompanyID, txn.TransactionType, txn.TransactionDate)
	if err != nil {
		return err
	}
	txn.TransactionNumber = number

	if err := r.insertTransactionTx(ctx, tx, mapping.ToModelTransaction(*txn)); err != nil {
		return err
	}
	if err := r.insertItemsTx(ctx, tx, txn.Items); err != nil {
		return err
	}
	if err := r.postEntriesTx(ctx, tx, entries, balanceChanges, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateTransaction replaces the header fields and line items of a
// modifiable document.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn *domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(*txn)
	query := `
		UPDATE transactions
		SET contact_id = $3,
		    transaction_date = $4,
		    due_date = $5,
		    notes = $6,
		    subtotal = $7,
		    discount_amount = $8,
		    tax_amount = $9,
		    total_amount = $10,
		    balance_amount = $11,
		    last_updated_at = $12,
		    last_updated_by = $13
		WHERE transaction_id = $1 AND company_id = $2;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TransactionID, m.CompanyID, m.ContactID, m.TransactionDate, m.DueDate, m.Notes,
		m.Subtotal, m.DiscountAmount, m.TaxAmount, m.TotalAmount, m.BalanceAmount,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if txn.Items != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1;`, m.TransactionID); err != nil {
			return fmt.Errorf("failed to clear transaction items: %w", err)
		}
		if err := r.insertItemsTx(ctx, tx, txn.Items); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// DeleteTransaction removes a document and its dependents. Ledger entries
// never exist for deletable documents; the cascade covers items and history.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, companyID, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx,
		`DELETE FROM transactions WHERE transaction_id = $1 AND company_id = $2;`,
		transactionID, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveTransition persists a status change with everything it implies: the
// header update, the history row, any ledger entries with balance updates
// and any stock movements, in one database transaction. The UPDATE only
// matches while the row still holds the status the caller transitioned
// from, so a concurrent transition that won the race cannot be overwritten
// from a stale read.
func (r *PgxTransactionRepository) SaveTransition(ctx context.Context, txn *domain.Transaction, previousStatus domain.TransactionStatus, history domain.ApprovalHistory, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, movements []domain.StockMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(*txn)
	query := `
		UPDATE transactions
		SET status = $3,
		    paid_amount = $4,
		    balance_amount = $5,
		    approved_by_id = $6,
		    approved_at = $7,
		    sent_at = $8,
		    accepted_at = $9,
		    rejected_at = $10,
		    rejection_reason = $11,
		    last_updated_at = $12,
		    last_updated_by = $13
		WHERE transaction_id = $1 AND company_id = $2 AND status = $14;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TransactionID, m.CompanyID, m.Status, m.PaidAmount, m.BalanceAmount,
		m.ApprovedByID, m.ApprovedAt, m.SentAt, m.AcceptedAt, m.RejectedAt, m.RejectionReason,
		m.LastUpdatedAt, m.LastUpdatedBy, string(previousStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction status %s: %w", m.TransactionID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s left status %s under a concurrent transition", apperrors.ErrConflict, m.TransactionID, string(previousStatus))
	}

	hm := mapping.ToModelApprovalHistory(history)
	_, err = tx.Exec(ctx, `
		INSERT INTO approval_history (history_id, transaction_id, action, performed_by, performed_by_role, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		hm.HistoryID, hm.TransactionID, hm.Action, hm.PerformedBy, hm.PerformedByRole, hm.Comments, hm.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval history: %w", mapPgError(err))
	}

	if err := r.postEntriesTx(ctx, tx, entries, balanceChanges, history.PerformedBy, history.CreatedAt); err != nil {
		return err
	}
	if err := r.applyMovementsTx(ctx, tx, movements); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ApplyPayment persists the payment document with its ledger effect, then
// locks the target row, advances its paid amount and recomputes its status.
func (r *PgxTransactionRepository) ApplyPayment(ctx context.Context, payment *domain.Transaction, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, targetID string, amount decimal.Decimal, userID string) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the target first so its outstanding balance cannot move under us.
	target, err := scanTransaction(tx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1 AND company_id = $2 FOR UPDATE;`,
		targetID, payment.CompanyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock target transaction %s: %w", targetID, err)
	}

	if amount.GreaterThan(target.BalanceAmount) {
		return nil, fmt.Errorf("%w: %s outstanding, %s tendered", apperrors.ErrValidation, target.BalanceAmount, amount)
	}

	number, err := r.nextTransactionNumber(ctx, tx, payment.CompanyID, payment.TransactionType, payment.TransactionDate)
	if err != nil {
		return nil, err
	}
	payment.TransactionNumber = number

	if err := r.insertTransactionTx(ctx, tx, mapping.ToModelTransaction(*payment)); err != nil {
		return nil, err
	}
	if err := r.postEntriesTx(ctx, tx, entries, balanceChanges, userID, payment.CreatedAt); err != nil {
		return nil, err
	}

	newPaid := target.PaidAmount.Add(amount)
	newBalance := target.TotalAmount.Sub(newPaid)
	newStatus := domain.PaymentStatus(target.TotalAmount, newPaid)
	now := payment.CreatedAt

	_, err = tx.Exec(ctx, `
		UPDATE transactions
		SET paid_amount = $2, balance_amount = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $1;`,
		targetID, newPaid, newBalance, string(newStatus), now, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to settle target transaction %s: %w", targetID, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO approval_history (history_id, transaction_id, action, performed_by, performed_by_role, comments, created_at)
		VALUES ($1, $2, $3, $4, '', $5, $6);`,
		uuid.NewString(), targetID, string(newStatus), userID, "Payment "+payment.TransactionNumber+" applied", now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment history: %w", mapPgError(err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	target.PaidAmount = newPaid
	target.BalanceAmount = newBalance
	target.Status = string(newStatus)
	target.LastUpdatedAt = now
	target.LastUpdatedBy = userID
	updated := mapping.ToDomainTransaction(*target)
	return &updated, nil
}

// FindTransactionByID retrieves a transaction with its line items.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, companyID, transactionID string) (*domain.Transaction, error) {
	m, err := scanTransaction(r.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1 AND company_id = $2;`,
		transactionID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	items, err := r.findItems(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(*m)
	txn.Items = items
	return &txn, nil
}

func (r *PgxTransactionRepository) findItems(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT item_id, transaction_id, product_id, description, quantity, rate,
		       discount_percent, discount_amount, tax_amount, amount, sort_order
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY sort_order;`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var items []models.TransactionItem
	for rows.Next() {
		var m models.TransactionItem
		if err := rows.Scan(
			&m.ItemID, &m.TransactionID, &m.ProductID, &m.Description, &m.Quantity, &m.Rate,
			&m.DiscountPercent, &m.DiscountAmount, &m.TaxAmount, &m.Amount, &m.SortOrder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction item row: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction item rows: %w", err)
	}
	return mapping.ToDomainTransactionItemSlice(items), nil
}

// ListTransactions retrieves a page of transactions using token-based
// pagination ordered by transaction date then creation time, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, companyID string, filter portsrepo.ListTransactionsFilter, limit int, nextToken string) ([]domain.Transaction, string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE company_id = $1`
	args := []interface{}{companyID}

	appendArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += " AND " + clause + "$" + strconv.Itoa(len(args))
	}
	if filter.TransactionType != nil {
		appendArg("transaction_type = ", string(*filter.TransactionType))
	}
	if filter.Status != nil {
		appendArg("status = ", string(*filter.Status))
	}
	if filter.ContactID != nil {
		appendArg("contact_id = ", *filter.ContactID)
	}
	if filter.FromDate != nil {
		appendArg("transaction_date >= ", *filter.FromDate)
	}
	if filter.ToDate != nil {
		appendArg("transaction_date <= ", *filter.ToDate)
	}

	if nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(nextToken)
		if decodeErr != nil {
			return nil, "", fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (transaction_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += " ORDER BY transaction_date DESC, created_at DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query transactions for company %s: %w", companyID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan transaction row: %w", err)
		}
		modelTxns = append(modelTxns, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var newToken string
	results := modelTxns
	if len(modelTxns) > limit {
		last := modelTxns[limit-1]
		newToken = pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		results = modelTxns[:limit]
	}

	txns := make([]domain.Transaction, len(results))
	for i, m := range results {
		txns[i] = mapping.ToDomainTransaction(m)
	}
	return txns, newToken, nil
}

// ListLedgerEntriesByTransaction retrieves the posted entries of a document.
func (r *PgxTransactionRepository) ListLedgerEntriesByTransaction(ctx context.Context, companyID, transactionID string) ([]domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+ledgerEntryColumns+` FROM ledger_entries WHERE transaction_id = $1 AND company_id = $2 ORDER BY created_at, entry_id;`,
		transactionID, companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID, &m.CompanyID, &m.AccountID, &m.TransactionID, &m.EntryDate,
			&m.DebitAmount, &m.CreditAmount, &m.Description, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return entries, nil
}

// ListApprovalHistory retrieves a document's status history, oldest first.
func (r *PgxTransactionRepository) ListApprovalHistory(ctx context.Context, companyID, transactionID string) ([]domain.ApprovalHistory, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT h.history_id, h.transaction_id, h.action, h.performed_by, h.performed_by_role, h.comments, h.created_at
		FROM approval_history h
		JOIN transactions t ON t.transaction_id = h.transaction_id
		WHERE h.transaction_id = $1 AND t.company_id = $2
		ORDER BY h.created_at, h.history_id;`,
		transactionID, companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval history for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var history []domain.ApprovalHistory
	for rows.Next() {
		var m models.ApprovalHistory
		if err := rows.Scan(
			&m.HistoryID, &m.TransactionID, &m.Action, &m.PerformedBy, &m.PerformedByRole, &m.Comments, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval history row: %w", err)
		}
		history = append(history, mapping.ToDomainApprovalHistory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating approval history rows: %w", err)
	}
	return history, nil
}
