package utils

import (
	"github.com/shopspring/decimal"
)

// GstMode selects how quoted line prices relate to tax.
type GstMode string

const (
	GstModeExclusive GstMode = "EXCLUSIVE"
	GstModeInclusive GstMode = "INCLUSIVE"
	GstModeNoGst     GstMode = "NOGST"
)

func (m GstMode) Valid() bool {
	switch m {
	case GstModeExclusive, GstModeInclusive, GstModeNoGst:
		return true
	}
	return false
}

// AmountBasis tags a line amount as tax-exclusive or tax-inclusive.
// The basis is decided once at the input boundary; the pricing math never
// re-checks the mode against raw input fields.
type AmountBasis string

const (
	AmountBasisExclusive AmountBasis = "EXCLUSIVE"
	AmountBasisInclusive AmountBasis = "INCLUSIVE"
)

// LineAmount is one priced line, already multiplied out (qty, discounts).
type LineAmount struct {
	Basis  AmountBasis
	Amount decimal.Decimal
}

func ExclusiveAmount(amount decimal.Decimal) LineAmount {
	return LineAmount{Basis: AmountBasisExclusive, Amount: amount}
}

func InclusiveAmount(amount decimal.Decimal) LineAmount {
	return LineAmount{Basis: AmountBasisInclusive, Amount: amount}
}

// GstTotals are the computed document totals. SubtotalExclGst + GstAmount
// always equals TotalInclGst to the cent.
type GstTotals struct {
	SubtotalExclGst decimal.Decimal
	GstRate         decimal.Decimal
	GstAmount       decimal.Decimal
	TotalInclGst    decimal.Decimal
}

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// Every derived total is rounded at its own composition boundary so that
// stored subtotal + tax = stored total to the cent.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// activeBasis maps a GST mode to the line-amount basis it consumes.
// NOGST lines are quoted tax-exclusive.
func activeBasis(mode GstMode) AmountBasis {
	if mode == GstModeInclusive {
		return AmountBasisInclusive
	}
	return AmountBasisExclusive
}

// CalculateGstTotals computes subtotal, tax and gross total for one document.
// Line amounts tagged for the non-active basis are ignored; negative amounts
// are rejected before aggregation. extraAmount is a flat addend carrying the
// same basis as the active mode. Under NOGST the rate is forced to zero.
func CalculateGstTotals(mode GstMode, gstRate decimal.Decimal, lines []LineAmount, extraAmount decimal.Decimal) (GstTotals, error) {
	if !mode.Valid() {
		return GstTotals{}, NewValidationError(CodeInvalidGstMode, "unknown gst mode "+string(mode))
	}
	if gstRate.IsNegative() || gstRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return GstTotals{}, NewValidationError(CodeInvalidGstRate, "gst rate must be a fraction in [0, 1)")
	}
	if extraAmount.IsNegative() {
		return GstTotals{}, NewValidationError(CodeInvalidAmount, "extra amount must not be negative")
	}
	if mode == GstModeNoGst {
		gstRate = decimal.Zero
	}

	basis := activeBasis(mode)
	sum := extraAmount
	for _, line := range lines {
		if line.Amount.IsNegative() {
			return GstTotals{}, NewValidationError(CodeInvalidLineAmount, "line amount must not be negative")
		}
		if line.Basis != basis {
			continue
		}
		sum = sum.Add(line.Amount)
	}

	switch mode {
	case GstModeExclusive:
		subtotal := Round2(sum)
		tax := Round2(subtotal.Mul(gstRate))
		return GstTotals{
			SubtotalExclGst: subtotal,
			GstRate:         gstRate,
			GstAmount:       tax,
			TotalInclGst:    Round2(subtotal.Add(tax)),
		}, nil

	case GstModeInclusive:
		gross := Round2(sum)
		subtotal := gross
		if gstRate.IsPositive() {
			subtotal = gross.DivRound(decimal.NewFromInt(1).Add(gstRate), 2)
		}
		return GstTotals{
			SubtotalExclGst: subtotal,
			GstRate:         gstRate,
			GstAmount:       Round2(gross.Sub(subtotal)),
			TotalInclGst:    gross,
		}, nil

	default: // NOGST
		subtotal := Round2(sum)
		return GstTotals{
			SubtotalExclGst: subtotal,
			GstRate:         decimal.Zero,
			GstAmount:       decimal.Zero,
			TotalInclGst:    subtotal,
		}, nil
	}
}
