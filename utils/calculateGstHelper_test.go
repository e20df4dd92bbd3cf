package utils

import (
	"testing"

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

func TestCalculateGstTotalsExclusive(t *testing.T) {
	totals, err := CalculateGstTotals(GstModeExclusive, dec("0.18"),
		[]LineAmount{ExclusiveAmount(dec("1000"))}, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.SubtotalExclGst.Equal(dec("1000.00")), "subtotal %s", totals.SubtotalExclGst)
	assert.True(t, totals.GstAmount.Equal(dec("180.00")), "gst %s", totals.GstAmount)
	assert.True(t, totals.TotalInclGst.Equal(dec("1180.00")), "total %s", totals.TotalInclGst)
}

func TestCalculateGstTotalsExclusiveRounding(t *testing.T) {
	// 333.33 * 0.18 = 59.9994, rounds half away from zero to 60.00.
	totals, err := CalculateGstTotals(GstModeExclusive, dec("0.18"),
		[]LineAmount{ExclusiveAmount(dec("333.33"))}, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.GstAmount.Equal(dec("60.00")), "gst %s", totals.GstAmount)
	assert.True(t, totals.TotalInclGst.Equal(totals.SubtotalExclGst.Add(totals.GstAmount)))
}

func TestCalculateGstTotalsInclusive(t *testing.T) {
	totals, err := CalculateGstTotals(GstModeInclusive, dec("0.18"),
		[]LineAmount{InclusiveAmount(dec("1180"))}, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.SubtotalExclGst.Equal(dec("1000.00")), "subtotal %s", totals.SubtotalExclGst)
	assert.True(t, totals.GstAmount.Equal(dec("180.00")), "gst %s", totals.GstAmount)
	assert.True(t, totals.TotalInclGst.Equal(dec("1180.00")), "total %s", totals.TotalInclGst)
}

func TestCalculateGstTotalsInclusiveReconciles(t *testing.T) {
	// Whatever the rate, stored subtotal + tax must equal the gross to the
	// cent after the back-out.
	rates := []string{"0.05", "0.12", "0.18", "0.28"}
	grosses := []string{"99.99", "1180", "1234.56", "0.01", "7"}

	for _, r := range rates {
		for _, g := range grosses {
			totals, err := CalculateGstTotals(GstModeInclusive, dec(r),
				[]LineAmount{InclusiveAmount(dec(g))}, decimal.Zero)
			require.NoError(t, err)
			assert.True(t, totals.SubtotalExclGst.Add(totals.GstAmount).Equal(totals.TotalInclGst),
				"rate=%s gross=%s: %s + %s != %s", r, g,
				totals.SubtotalExclGst, totals.GstAmount, totals.TotalInclGst)
		}
	}
}

func TestCalculateGstTotalsNoGst(t *testing.T) {
	// NOGST forces the rate to zero even when a rate is passed in.
	totals, err := CalculateGstTotals(GstModeNoGst, dec("0.18"),
		[]LineAmount{ExclusiveAmount(dec("500")), ExclusiveAmount(dec("250.50"))}, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.GstRate.IsZero())
	assert.True(t, totals.GstAmount.IsZero())
	assert.True(t, totals.SubtotalExclGst.Equal(dec("750.50")))
	assert.True(t, totals.TotalInclGst.Equal(dec("750.50")))
}

func TestCalculateGstTotalsExtraAmount(t *testing.T) {
	totals, err := CalculateGstTotals(GstModeExclusive, dec("0.18"),
		[]LineAmount{ExclusiveAmount(dec("1000"))}, dec("100"))
	require.NoError(t, err)

	assert.True(t, totals.SubtotalExclGst.Equal(dec("1100.00")))
	assert.True(t, totals.GstAmount.Equal(dec("198.00")))
}

func TestCalculateGstTotalsIgnoresOtherBasis(t *testing.T) {
	totals, err := CalculateGstTotals(GstModeExclusive, dec("0.18"),
		[]LineAmount{
			ExclusiveAmount(dec("1000")),
			InclusiveAmount(dec("9999")),
		}, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.SubtotalExclGst.Equal(dec("1000.00")))
}

func TestCalculateGstTotalsRejectsBadInput(t *testing.T) {
	_, err := CalculateGstTotals(GstModeExclusive, dec("0.18"),
		[]LineAmount{ExclusiveAmount(dec("-1"))}, decimal.Zero)
	assert.Equal(t, CodeInvalidLineAmount, CodeOf(err))

	_, err = CalculateGstTotals(GstModeExclusive, dec("1"), nil, decimal.Zero)
	assert.Equal(t, CodeInvalidGstRate, CodeOf(err))

	_, err = CalculateGstTotals(GstModeExclusive, dec("-0.1"), nil, decimal.Zero)
	assert.Equal(t, CodeInvalidGstRate, CodeOf(err))

	_, err = CalculateGstTotals(GstModeExclusive, dec("0.18"), nil, dec("-5"))
	assert.Equal(t, CodeInvalidAmount, CodeOf(err))

	_, err = CalculateGstTotals(GstMode("BOGUS"), dec("0.18"), nil, decimal.Zero)
	assert.Equal(t, CodeInvalidGstMode, CodeOf(err))
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	assert.True(t, Round2(dec("2.675")).Equal(dec("2.68")))
	assert.True(t, Round2(dec("-2.675")).Equal(dec("-2.68")))
	assert.True(t, Round2(dec("1.005")).Equal(dec("1.01")))
}
