package models

import (
	"testing"

	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDeriveInvoiceStatus(t *testing.T) {
	cases := []struct {
		paid, pending string
		want          InvoiceStatus
	}{
		{"0", "1180", InvoiceStatusDue},
		{"500", "680", InvoiceStatusPartiallyPaid},
		{"1180", "0", InvoiceStatusPaid},
		{"1200", "-20", InvoiceStatusPaid},
		{"0", "0", InvoiceStatusPaid},
	}
	for _, tc := range cases {
		got := DeriveInvoiceStatus(dec(tc.paid), dec(tc.pending))
		assert.Equal(t, tc.want, got, "paid=%s pending=%s", tc.paid, tc.pending)
	}
}

func TestApplyPaymentAmount(t *testing.T) {
	inv := Invoice{TotalInclGst: dec("1180"), PaidAmount: decimal.Zero, PendingAmount: dec("1180"), Status: InvoiceStatusDue}

	applied := inv.ApplyPaymentAmount(dec("500"))
	assert.True(t, applied.Equal(dec("500")))
	assert.True(t, inv.PaidAmount.Equal(dec("500.00")))
	assert.True(t, inv.PendingAmount.Equal(dec("680.00")))
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)

	// Over-payment only applies up to pending.
	applied = inv.ApplyPaymentAmount(dec("1000"))
	assert.True(t, applied.Equal(dec("680")), "applied %s", applied)
	assert.True(t, inv.PendingAmount.IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)

	// A settled invoice takes nothing more.
	applied = inv.ApplyPaymentAmount(dec("50"))
	assert.True(t, applied.IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
}

func TestApplyPaymentAmountConservation(t *testing.T) {
	// paid + pending == total holds through any application sequence.
	inv := Invoice{TotalInclGst: dec("999.99"), PendingAmount: dec("999.99")}
	for _, amt := range []string{"0.01", "123.45", "500", "10000"} {
		inv.ApplyPaymentAmount(dec(amt))
		assert.True(t, inv.PaidAmount.Add(inv.PendingAmount).Equal(inv.TotalInclGst),
			"after %s: %s + %s != %s", amt, inv.PaidAmount, inv.PendingAmount, inv.TotalInclGst)
	}
	assert.True(t, inv.PaidAmount.Equal(inv.TotalInclGst))
}

func TestInvoiceLineAmount(t *testing.T) {
	price := dec("100")

	// Qty defaults to 1.
	item := NewInvoiceLineItem{UnitPriceExclGst: &price}
	line, err := item.LineAmount(utils.GstModeExclusive)
	require.NoError(t, err)
	assert.Equal(t, utils.AmountBasisExclusive, line.Basis)
	assert.True(t, line.Amount.Equal(dec("100.00")))

	item = NewInvoiceLineItem{Qty: dec("2.5"), UnitPriceExclGst: &price}
	line, err = item.LineAmount(utils.GstModeExclusive)
	require.NoError(t, err)
	assert.True(t, line.Amount.Equal(dec("250.00")))

	// Wrong-mode price is an input error, not silently zero.
	item = NewInvoiceLineItem{UnitPriceExclGst: &price}
	_, err = item.LineAmount(utils.GstModeInclusive)
	assert.Equal(t, utils.CodeInvalidLineAmount, utils.CodeOf(err))

	// Negative qty is rejected.
	item = NewInvoiceLineItem{Qty: dec("-1"), UnitPriceExclGst: &price}
	_, err = item.LineAmount(utils.GstModeExclusive)
	assert.Equal(t, utils.CodeInvalidLineAmount, utils.CodeOf(err))
}
