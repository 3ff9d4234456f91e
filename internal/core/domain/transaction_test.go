package domain_test

import (
	"testing"
	"time"

	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.TransactionStatus
		to     domain.TransactionStatus
		want   bool
	}{
		{"draft to pending approval", domain.StatusDraft, domain.StatusPendingApproval, true},
		{"draft straight to sent", domain.StatusDraft, domain.StatusSent, true},
		{"draft to cancelled", domain.StatusDraft, domain.StatusCancelled, true},
		{"draft to paid skips the lifecycle", domain.StatusDraft, domain.StatusPaid, false},
		{"pending approval to approved", domain.StatusPendingApproval, domain.StatusApproved, true},
		{"pending approval to rejected", domain.StatusPendingApproval, domain.StatusRejected, true},
		{"pending approval to changes requested", domain.StatusPendingApproval, domain.StatusChangesRequested, true},
		{"approved to sent", domain.StatusApproved, domain.StatusSent, true},
		{"approved back to draft", domain.StatusApproved, domain.StatusDraft, false},
		{"sent to accepted", domain.StatusSent, domain.StatusAccepted, true},
		{"sent to paid", domain.StatusSent, domain.StatusPaid, true},
		{"sent to partially paid", domain.StatusSent, domain.StatusPartiallyPaid, true},
		{"changes requested resubmitted", domain.StatusChangesRequested, domain.StatusPendingApproval, true},
		{"accepted to paid", domain.StatusAccepted, domain.StatusPaid, true},
		{"partially paid to paid", domain.StatusPartiallyPaid, domain.StatusPaid, true},
		{"paid is terminal", domain.StatusPaid, domain.StatusCancelled, false},
		{"cancelled is terminal", domain.StatusCancelled, domain.StatusDraft, false},
		{"rejected is terminal", domain.StatusRejected, domain.StatusPendingApproval, false},
		{"overdue is never a target", domain.StatusSent, domain.StatusOverdue, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransactionStatus_IsModifiable(t *testing.T) {
	assert.True(t, domain.StatusDraft.IsModifiable())
	assert.True(t, domain.StatusPendingApproval.IsModifiable())
	assert.True(t, domain.StatusApproved.IsModifiable())
	assert.True(t, domain.StatusChangesRequested.IsModifiable())
	assert.False(t, domain.StatusSent.IsModifiable())
	assert.False(t, domain.StatusPaid.IsModifiable())
	assert.False(t, domain.StatusCancelled.IsModifiable())
}

func TestTransactionStatus_IsSettled(t *testing.T) {
	assert.True(t, domain.StatusSent.IsSettled())
	assert.True(t, domain.StatusAccepted.IsSettled())
	assert.True(t, domain.StatusPartiallyPaid.IsSettled())
	assert.True(t, domain.StatusPaid.IsSettled())
	assert.False(t, domain.StatusDraft.IsSettled())
	assert.False(t, domain.StatusApproved.IsSettled())
	assert.False(t, domain.StatusRejected.IsSettled())
}

func TestPaymentStatus(t *testing.T) {
	total := decimal.NewFromInt(100)

	assert.Equal(t, domain.StatusSent, domain.PaymentStatus(total, decimal.Zero))
	assert.Equal(t, domain.StatusPartiallyPaid, domain.PaymentStatus(total, decimal.NewFromInt(40)))
	assert.Equal(t, domain.StatusPaid, domain.PaymentStatus(total, total))
	assert.Equal(t, domain.StatusPaid, domain.PaymentStatus(total, decimal.NewFromInt(120)))
}

func TestTransaction_EffectiveStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	pastDue := timePtr(now.AddDate(0, 0, -5))
	futureDue := timePtr(now.AddDate(0, 0, 5))

	tests := []struct {
		name string
		txn  domain.Transaction
		want domain.TransactionStatus
	}{
		{
			name: "sent invoice past due reads as overdue",
			txn:  domain.Transaction{TransactionType: domain.Invoice, Status: domain.StatusSent, DueDate: pastDue},
			want: domain.StatusOverdue,
		},
		{
			name: "changes requested invoice past due reads as overdue",
			txn:  domain.Transaction{TransactionType: domain.Invoice, Status: domain.StatusChangesRequested, DueDate: pastDue},
			want: domain.StatusOverdue,
		},
		{
			name: "sent invoice not yet due keeps its status",
			txn:  domain.Transaction{TransactionType: domain.Invoice, Status: domain.StatusSent, DueDate: futureDue},
			want: domain.StatusSent,
		},
		{
			name: "paid invoice past due is not overdue",
			txn:  domain.Transaction{TransactionType: domain.Invoice, Status: domain.StatusPaid, DueDate: pastDue},
			want: domain.StatusPaid,
		},
		{
			name: "bill past due keeps its status",
			txn:  domain.Transaction{TransactionType: domain.Bill, Status: domain.StatusSent, DueDate: pastDue},
			want: domain.StatusSent,
		},
		{
			name: "invoice without a due date keeps its status",
			txn:  domain.Transaction{TransactionType: domain.Invoice, Status: domain.StatusSent},
			want: domain.StatusSent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.EffectiveStatus(now))
		})
	}
}

func TestTransactionType_Prefix(t *testing.T) {
	assert.Equal(t, "INV", domain.Invoice.Prefix())
	assert.Equal(t, "BILL", domain.Bill.Prefix())
	assert.Equal(t, "SO", domain.SalesOrder.Prefix())
	assert.Equal(t, "PO", domain.PurchaseOrder.Prefix())
	assert.Equal(t, "PAY", domain.Payment.Prefix())
	assert.Equal(t, "RCT", domain.Receipt.Prefix())
	assert.Equal(t, "JRN", domain.JournalEntry.Prefix())
}

func TestTransactionType_PostsOnSend(t *testing.T) {
	assert.True(t, domain.Invoice.PostsOnSend())
	assert.True(t, domain.Bill.PostsOnSend())
	assert.False(t, domain.SalesOrder.PostsOnSend())
	assert.False(t, domain.PurchaseOrder.PostsOnSend())
	assert.False(t, domain.JournalEntry.PostsOnSend())
}

func TestAccountType_IsDebitNormal(t *testing.T) {
	assert.True(t, domain.Asset.IsDebitNormal())
	assert.True(t, domain.Expense.IsDebitNormal())
	assert.True(t, domain.ContraLiability.IsDebitNormal())
	assert.False(t, domain.Liability.IsDebitNormal())
	assert.False(t, domain.Equity.IsDebitNormal())
	assert.False(t, domain.Revenue.IsDebitNormal())
}

func TestBucketForDays(t *testing.T) {
	assert.Equal(t, domain.BucketNotDue, domain.BucketForDays(-3))
	assert.Equal(t, domain.BucketCurrent, domain.BucketForDays(0))
	assert.Equal(t, domain.BucketCurrent, domain.BucketForDays(30))
	assert.Equal(t, domain.Bucket31To60, domain.BucketForDays(31))
	assert.Equal(t, domain.Bucket31To60, domain.BucketForDays(60))
	assert.Equal(t, domain.Bucket61To90, domain.BucketForDays(74))
	assert.Equal(t, domain.Bucket61To90, domain.BucketForDays(90))
	assert.Equal(t, domain.BucketOver90, domain.BucketForDays(91))
}
