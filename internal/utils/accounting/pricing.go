package accounting

import (
	"fmt"

	"github.com/finbooks/books_backend/internal/apperrors"
	"github.com/finbooks/books_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Fixed-point scales for monetary arithmetic. Quantities carry one more
// place than currency to keep unit-price rounding stable across documents.
const (
	MoneyScale    = 2
	QuantityScale = 3
)

// ItemInput is one raw, unpriced line as submitted by a caller.
type ItemInput struct {
	ProductID       *string
	Description     string
	Quantity        decimal.Decimal
	Rate            decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal // When set, wins over DiscountPercent
	TaxAmount       decimal.Decimal
}

// PriceItems turns raw line inputs into priced transaction items and
// document-level totals. It is a pure function: re-running it on the same
// input always yields the same output.
//
// Per item: subtotal = quantity * rate; discount = explicit amount, else
// subtotal * percent / 100; line amount = subtotal - discount + tax.
// Document totals are the sums of the per-item figures, so
// totalAmount = subtotal - discountAmount + taxAmount holds exactly.
func PriceItems(inputs []ItemInput) ([]domain.TransactionItem, domain.DocumentTotals, error) {
	totals := domain.DocumentTotals{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		TotalAmount:    decimal.Zero,
	}

	items := make([]domain.TransactionItem, len(inputs))
	for i, in := range inputs {
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, totals, fmt.Errorf("%w: item %d quantity must be positive, got %s", apperrors.ErrValidation, i, in.Quantity)
		}
		if in.Rate.IsNegative() {
			return nil, totals, fmt.Errorf("%w: item %d rate must not be negative, got %s", apperrors.ErrValidation, i, in.Rate)
		}
		if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, totals, fmt.Errorf("%w: item %d discount percent must be between 0 and 100", apperrors.ErrValidation, i)
		}
		if in.DiscountAmount.IsNegative() || in.TaxAmount.IsNegative() {
			return nil, totals, fmt.Errorf("%w: item %d discount and tax amounts must not be negative", apperrors.ErrValidation, i)
		}

		quantity := in.Quantity.Round(QuantityScale)
		rate := in.Rate.Round(MoneyScale)
		itemSubtotal := quantity.Mul(rate).Round(MoneyScale)

		itemDiscount := in.DiscountAmount.Round(MoneyScale)
		if itemDiscount.IsZero() && in.DiscountPercent.GreaterThan(decimal.Zero) {
			itemDiscount = itemSubtotal.Mul(in.DiscountPercent).Div(decimal.NewFromInt(100)).Round(MoneyScale)
		}
		if itemDiscount.GreaterThan(itemSubtotal) {
			return nil, totals, fmt.Errorf("%w: item %d discount %s exceeds line subtotal %s", apperrors.ErrValidation, i, itemDiscount, itemSubtotal)
		}

		itemTax := in.TaxAmount.Round(MoneyScale)
		itemTotal := itemSubtotal.Sub(itemDiscount).Add(itemTax)

		items[i] = domain.TransactionItem{
			ProductID:       in.ProductID,
			Description:     in.Description,
			Quantity:        quantity,
			Rate:            rate,
			DiscountPercent: in.DiscountPercent,
			DiscountAmount:  itemDiscount,
			TaxAmount:       itemTax,
			Amount:          itemTotal,
			SortOrder:       i,
		}

		totals.Subtotal = totals.Subtotal.Add(itemSubtotal)
		totals.DiscountAmount = totals.DiscountAmount.Add(itemDiscount)
		totals.TaxAmount = totals.TaxAmount.Add(itemTax)
	}

	totals.TotalAmount = totals.Subtotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount)
	return items, totals, nil
}
