package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	portsrepo "github.com/finbooks/books_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/dto"
	"github.com/finbooks/books_backend/internal/middleware"
	"github.com/finbooks/books_backend/internal/utils/accounting"
)

// Lifecycle sentinels wrap apperrors.ErrInvalidState so callers can match
// either the broad category or the precise cause.
var (
	ErrNotModifiable      = fmt.Errorf("%w: transaction is no longer modifiable", apperrors.ErrInvalidState)
	ErrInvalidTransition  = fmt.Errorf("%w: status transition is not permitted", apperrors.ErrInvalidState)
	ErrNotDeletable       = fmt.Errorf("%w: only modifiable and cancelled transactions without ledger entries can be deleted", apperrors.ErrInvalidState)
	ErrNotPayable         = fmt.Errorf("%w: payments apply only to settled invoices and bills", apperrors.ErrInvalidState)
	ErrOverpayment        = errors.New("payment amount exceeds outstanding balance")
	ErrJournalLinesNeeded = errors.New("manual journals require at least two ledger lines")
	ErrItemsRequired      = errors.New("transaction requires at least one line item")
)

// transactionService drives the document lifecycle: creation with derived
// totals and a reserved number, the approval state machine, posting on
// settlement and payment application.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	poster       *ledgerPoster
	inventorySvc portssvc.InventorySvcFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, inventorySvc portssvc.InventorySvcFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:      txnRepo,
		poster:       newLedgerPoster(accountRepo),
		inventorySvc: inventorySvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func itemInputs(reqs []dto.CreateTransactionItemRequest) []accounting.ItemInput {
	inputs := make([]accounting.ItemInput, len(reqs))
	for i, r := range reqs {
		inputs[i] = accounting.ItemInput{
			ProductID:       r.ProductID,
			Description:     r.Description,
			Quantity:        r.Quantity,
			Rate:            r.Rate,
			DiscountPercent: r.DiscountPercent,
			DiscountAmount:  r.DiscountAmount,
			TaxAmount:       r.TaxAmount,
		}
	}
	return inputs
}

// CreateTransaction prices the submitted items and persists a new DRAFT
// document with the next number for its type. Manual journals are the
// exception: they carry caller-supplied ledger lines and post immediately.
func (s *transactionService) CreateTransaction(ctx context.Context, companyID string, req dto.CreateTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	if !req.TransactionType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.TransactionType)
	}
	if req.TransactionType.IsPaymentType() {
		return nil, fmt.Errorf("%w: %s documents are created through payment application", apperrors.ErrValidation, req.TransactionType)
	}
	if req.DueDate != nil && req.DueDate.Before(req.Date) {
		return nil, fmt.Errorf("%w: due date %s precedes transaction date %s", apperrors.ErrValidation, req.DueDate.Format(time.DateOnly), req.Date.Format(time.DateOnly))
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		CompanyID:       companyID,
		TransactionType: req.TransactionType,
		Status:          domain.StatusDraft,
		ContactID:       req.ContactID,
		TransactionDate: req.Date,
		DueDate:         req.DueDate,
		Notes:           req.Notes,
		PaidAmount:      decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	var entries []domain.LedgerEntry
	var balanceChanges map[string]decimal.Decimal

	if req.TransactionType == domain.JournalEntry {
		if len(req.JournalLines) < 2 {
			return nil, fmt.Errorf("%w", ErrJournalLinesNeeded)
		}
		var err error
		entries, balanceChanges, err = s.poster.EntriesForJournal(ctx, txn, req.JournalLines, creatorUserID, now)
		if err != nil {
			return nil, err
		}
		// A journal has no approval lifecycle: it is posted the moment it
		// is created.
		txn.Status = domain.StatusSent
		txn.SentAt = &now
		total := decimal.Zero
		for _, e := range entries {
			total = total.Add(e.DebitAmount)
		}
		txn.Subtotal = total
		txn.TotalAmount = total
		txn.BalanceAmount = decimal.Zero
	} else {
		if len(req.Items) == 0 {
			return nil, fmt.Errorf("%w", ErrItemsRequired)
		}
		items, totals, err := accounting.PriceItems(itemInputs(req.Items))
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].ItemID = uuid.NewString()
			items[i].TransactionID = txn.TransactionID
		}
		txn.Items = items
		txn.Subtotal = totals.Subtotal
		txn.DiscountAmount = totals.DiscountAmount
		txn.TaxAmount = totals.TaxAmount
		txn.TotalAmount = totals.TotalAmount
		txn.BalanceAmount = totals.TotalAmount
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn, entries, balanceChanges); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("company_id", companyID), slog.String("transaction_type", string(req.TransactionType)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.String("transaction_type", string(txn.TransactionType)))
	return txn, nil
}

// UpdateTransaction edits a modifiable document. Replacing items re-runs the
// calculator so stored totals always match the stored lines.
func (s *transactionService) UpdateTransaction(ctx context.Context, companyID string, transactionID string, req dto.UpdateTransactionRequest, requestingUserID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.IsModifiable() {
		return nil, fmt.Errorf("%w: status is %s", ErrNotModifiable, txn.Status)
	}
	if txn.TransactionType == domain.JournalEntry {
		return nil, fmt.Errorf("%w: posted journals are corrected by a reversing journal", ErrNotModifiable)
	}

	if req.ContactID != nil {
		txn.ContactID = req.ContactID
	}
	if req.Date != nil {
		txn.TransactionDate = *req.Date
	}
	if req.DueDate != nil {
		txn.DueDate = req.DueDate
	}
	if req.Notes != nil {
		txn.Notes = *req.Notes
	}
	if txn.DueDate != nil && txn.DueDate.Before(txn.TransactionDate) {
		return nil, fmt.Errorf("%w: due date precedes transaction date", apperrors.ErrValidation)
	}

	if req.Items != nil {
		items, totals, err := accounting.PriceItems(itemInputs(req.Items))
		if err != nil {
			return nil, err
		}
		for i := range items {
			items[i].ItemID = uuid.NewString()
			items[i].TransactionID = txn.TransactionID
		}
		txn.Items = items
		txn.Subtotal = totals.Subtotal
		txn.DiscountAmount = totals.DiscountAmount
		txn.TaxAmount = totals.TaxAmount
		txn.TotalAmount = totals.TotalAmount
		txn.BalanceAmount = totals.TotalAmount.Sub(txn.PaidAmount)
	}

	now := time.Now().UTC()
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = requestingUserID

	if err := s.txnRepo.UpdateTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction removes a document that never reached the ledger. The
// reserved document number is not released, so number sequences keep gaps
// where deletions happened.
func (s *transactionService) DeleteTransaction(ctx context.Context, companyID string, transactionID string, requestingUserID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return err
	}
	if !txn.Status.IsModifiable() && txn.Status != domain.StatusCancelled {
		return fmt.Errorf("%w: status is %s", ErrNotDeletable, txn.Status)
	}
	entries, err := s.txnRepo.ListLedgerEntriesByTransaction(ctx, companyID, transactionID)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: transaction has posted ledger entries", ErrNotDeletable)
	}
	if err := s.txnRepo.DeleteTransaction(ctx, companyID, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID), slog.String("transaction_number", txn.TransactionNumber))
	return nil
}

// TransitionStatus moves a document through the approval state machine. The
// transition to SENT on invoices and bills is the posting moment: ledger
// entries and stock movements are computed here and persisted atomically
// with the status change, which makes posting idempotent (a second SENT
// request fails the transition check before anything is written).
func (s *transactionService) TransitionStatus(ctx context.Context, companyID string, transactionID string, req dto.TransitionStatusRequest, requestingUserID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
	if err != nil {
		return nil, err
	}
	target := req.TargetStatus
	if !txn.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, txn.Status, target)
	}
	if target == domain.StatusRejected && req.Comments == "" {
		return nil, fmt.Errorf("%w: a rejection requires a reason", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	previousStatus := txn.Status
	txn.Status = target
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = requestingUserID

	switch target {
	case domain.StatusApproved:
		txn.ApprovedByID = &requestingUserID
		txn.ApprovedAt = &now
	case domain.StatusSent:
		txn.SentAt = &now
	case domain.StatusAccepted:
		txn.AcceptedAt = &now
	case domain.StatusRejected:
		txn.RejectedAt = &now
		txn.RejectionReason = &req.Comments
	case domain.StatusPaid:
		// Direct marking as paid (e.g. cash sale); settle the full balance.
		txn.PaidAmount = txn.TotalAmount
		txn.BalanceAmount = decimal.Zero
	}
	if target != domain.StatusPaid {
		txn.BalanceAmount = txn.TotalAmount.Sub(txn.PaidAmount)
	}

	var entries []domain.LedgerEntry
	var balanceChanges map[string]decimal.Decimal
	var movements []domain.StockMovement

	// Posting happens exactly once, on the first arrival at SENT.
	if target == domain.StatusSent && txn.TransactionType.PostsOnSend() && !previousStatus.IsSettled() {
		entries, balanceChanges, err = s.poster.EntriesForSettlement(ctx, txn, requestingUserID, now)
		if err != nil {
			return nil, err
		}
		movements, err = s.inventorySvc.MovementsForTransition(ctx, companyID, txn, requestingUserID)
		if err != nil {
			return nil, err
		}
	}

	history := domain.ApprovalHistory{
		HistoryID:       uuid.NewString(),
		TransactionID:   txn.TransactionID,
		Action:          target,
		PerformedBy:     requestingUserID,
		PerformedByRole: middleware.GetRoleFromCtx(ctx),
		Comments:        req.Comments,
		CreatedAt:       now,
	}

	if err := s.txnRepo.SaveTransition(ctx, txn, previousStatus, history, entries, balanceChanges, movements); err != nil {
		s.LogError(ctx, err, "Failed to save status transition",
			slog.String("transaction_id", transactionID),
			slog.String("from", string(previousStatus)),
			slog.String("to", string(target)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction status changed",
		slog.String("transaction_id", transactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.String("from", string(previousStatus)),
		slog.String("to", string(target)),
		slog.Int("ledger_entries", len(entries)))
	return txn, nil
}

// ApplyPayment records a settlement against an invoice or bill. The payment
// becomes its own numbered document, posts cash entries, and advances the
// target toward PAID inside one repository unit that locks the target row.
func (s *transactionService) ApplyPayment(ctx context.Context, companyID string, targetID string, req dto.ApplyPaymentRequest, requestingUserID string) (*domain.Transaction, *domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	amount := req.Amount.Round(accounting.MoneyScale)

	target, err := s.txnRepo.FindTransactionByID(ctx, companyID, targetID)
	if err != nil {
		return nil, nil, err
	}
	if !target.Status.IsSettled() {
		return nil, nil, fmt.Errorf("%w: target status is %s", ErrNotPayable, target.Status)
	}

	var paymentType domain.TransactionType
	switch target.TransactionType {
	case domain.Invoice:
		paymentType = domain.Receipt
	case domain.Bill:
		paymentType = domain.Payment
	default:
		return nil, nil, fmt.Errorf("%w: target is a %s", ErrNotPayable, target.TransactionType)
	}

	if amount.GreaterThan(target.BalanceAmount) {
		return nil, nil, fmt.Errorf("%w: %s outstanding, %s tendered", ErrOverpayment, target.BalanceAmount, amount)
	}

	now := time.Now().UTC()
	payment := &domain.Transaction{
		TransactionID:       uuid.NewString(),
		CompanyID:           companyID,
		TransactionType:     paymentType,
		Status:              domain.StatusPaid, // A payment document is settled the moment it exists
		ContactID:           target.ContactID,
		TransactionDate:     req.Date,
		Notes:               req.Notes,
		Subtotal:            amount,
		TotalAmount:         amount,
		PaidAmount:          amount,
		BalanceAmount:       decimal.Zero,
		ParentTransactionID: &target.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	entries, balanceChanges, err := s.poster.EntriesForPayment(ctx, payment, target.TransactionNumber, requestingUserID, now)
	if err != nil {
		return nil, nil, err
	}

	updatedTarget, err := s.txnRepo.ApplyPayment(ctx, payment, entries, balanceChanges, target.TransactionID, amount, requestingUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to apply payment",
			slog.String("target_id", targetID),
			slog.String("amount", amount.String()))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Payment applied",
		slog.String("payment_id", payment.TransactionID),
		slog.String("payment_number", payment.TransactionNumber),
		slog.String("target_id", updatedTarget.TransactionID),
		slog.String("target_status", string(updatedTarget.Status)),
		slog.String("amount", amount.String()))
	return payment, updatedTarget, nil
}

// GetTransactionByID retrieves a transaction with its line items.
func (s *transactionService) GetTransactionByID(ctx context.Context, companyID string, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, companyID, transactionID)
}

// ListTransactions retrieves a paginated page of transactions, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, companyID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	token := ""
	if params.NextToken != nil {
		token = *params.NextToken
	}
	filter := portsrepo.ListTransactionsFilter{
		TransactionType: params.TransactionType,
		Status:          params.Status,
		ContactID:       params.ContactID,
		FromDate:        params.FromDate,
		ToDate:          params.ToDate,
	}
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, companyID, filter, limit, token)
	if err != nil {
		return nil, nil, err
	}
	var next *string
	if nextToken != "" {
		next = &nextToken
	}
	return txns, next, nil
}

// GetLedgerEntries retrieves the posted ledger entries of a transaction.
func (s *transactionService) GetLedgerEntries(ctx context.Context, companyID string, transactionID string) ([]domain.LedgerEntry, error) {
	if _, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID); err != nil {
		return nil, err
	}
	return s.txnRepo.ListLedgerEntriesByTransaction(ctx, companyID, transactionID)
}

// GetApprovalHistory retrieves the status-change history of a transaction.
func (s *transactionService) GetApprovalHistory(ctx context.Context, companyID string, transactionID string) ([]domain.ApprovalHistory, error) {
	if _, err := s.txnRepo.FindTransactionByID(ctx, companyID, transactionID); err != nil {
		return nil, err
	}
	return s.txnRepo.ListApprovalHistory(ctx, companyID, transactionID)
}
