package models

import (
	"testing"

	"github.com/dodunsoft/billing_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionQuotation(t *testing.T) {
	allowed := []struct{ from, to QuotationStatus }{
		{QuotationStatusDraft, QuotationStatusSent},
		{QuotationStatusDraft, QuotationStatusExpired},
		{QuotationStatusSent, QuotationStatusAccepted},
		{QuotationStatusSent, QuotationStatusRejected},
		{QuotationStatusSent, QuotationStatusExpired},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionQuotation(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to QuotationStatus }{
		{QuotationStatusDraft, QuotationStatusAccepted},
		{QuotationStatusDraft, QuotationStatusRejected},
		{QuotationStatusSent, QuotationStatusDraft},
		{QuotationStatusAccepted, QuotationStatusRejected},
		{QuotationStatusRejected, QuotationStatusSent},
		{QuotationStatusExpired, QuotationStatusSent},
		{QuotationStatusAccepted, QuotationStatusDraft},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionQuotation(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestQuotationLineAmountNetsDiscount(t *testing.T) {
	price := dec("1000")
	item := NewQuotationLineItem{
		Qty:              dec("2"),
		UnitPriceExclGst: &price,
		Discount:         dec("100"),
	}
	line, err := item.LineAmount(utils.GstModeExclusive)
	require.NoError(t, err)
	assert.Equal(t, utils.AmountBasisExclusive, line.Basis)
	assert.True(t, line.Amount.Equal(dec("1800.00")), "got %s", line.Amount)
}

func TestQuotationLineAmountRejectsNegativeDiscount(t *testing.T) {
	price := dec("1000")
	item := NewQuotationLineItem{UnitPriceExclGst: &price, Discount: dec("-10")}
	_, err := item.LineAmount(utils.GstModeExclusive)
	assert.Equal(t, utils.CodeInvalidLineAmount, utils.CodeOf(err))
}
