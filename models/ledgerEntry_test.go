package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNextBalanceSignMapping(t *testing.T) {
	// DEBIT raises the balance, CREDIT lowers it, for both account kinds.
	assert.True(t, NextBalance(decimal.Zero, LedgerEntryTypeDebit, dec("1180")).Equal(dec("1180.00")))
	assert.True(t, NextBalance(dec("1180"), LedgerEntryTypeCredit, dec("2000")).Equal(dec("-820.00")))
	assert.True(t, NextBalance(dec("-500"), LedgerEntryTypeDebit, dec("1180")).Equal(dec("680.00")))
}

// replay folds a sequence of entries over a zero starting balance the same
// way posting does: each balanceAfter derives from the previous one.
func replay(t *testing.T, moves []struct {
	entryType LedgerEntryType
	amount    string
	want      string
}) {
	t.Helper()
	balance := decimal.Zero
	for i, m := range moves {
		balance = NextBalance(balance, m.entryType, dec(m.amount))
		assert.True(t, balance.Equal(dec(m.want)),
			"step %d: got %s want %s", i, balance, m.want)
	}
}

func TestLedgerReplayInvoiceNoAdvance(t *testing.T) {
	// Fresh client, one invoice of 1180. No advance to offset.
	replay(t, []struct {
		entryType LedgerEntryType
		amount    string
		want      string
	}{
		{LedgerEntryTypeDebit, "1180", "1180.00"},
	})
}

func TestLedgerReplayInvoiceAfterAdvance(t *testing.T) {
	// Client holds a 500 advance. Invoicing 1180 posts the DEBIT, then the
	// auto-offset CREDIT of min(500, 1180).
	replay(t, []struct {
		entryType LedgerEntryType
		amount    string
		want      string
	}{
		{LedgerEntryTypeCredit, "500", "-500.00"},
		{LedgerEntryTypeDebit, "1180", "680.00"},
		{LedgerEntryTypeCredit, "500", "180.00"},
	})

	// The invoice bookkeeping that accompanies those entries.
	inv := Invoice{TotalInclGst: dec("1180"), PendingAmount: dec("1180")}
	applied := inv.ApplyPaymentAmount(dec("500"))
	assert.True(t, applied.Equal(dec("500")))
	assert.True(t, inv.PendingAmount.Equal(dec("680.00")))
	assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
}

func TestLedgerReplayPaymentBecomesAdvance(t *testing.T) {
	// 2000 received against a balance of 1180 pushes the account negative.
	replay(t, []struct {
		entryType LedgerEntryType
		amount    string
		want      string
	}{
		{LedgerEntryTypeDebit, "1180", "1180.00"},
		{LedgerEntryTypeCredit, "2000", "-820.00"},
	})
}

func TestLedgerReplayStaffAdvanceAndSalary(t *testing.T) {
	// Advance 5000, then a salary run with netPay 8000 recovering the full
	// advance: DEBIT netPay, CREDIT recovery.
	replay(t, []struct {
		entryType LedgerEntryType
		amount    string
		want      string
	}{
		{LedgerEntryTypeDebit, "5000", "5000.00"},
		{LedgerEntryTypeDebit, "8000", "13000.00"},
		{LedgerEntryTypeCredit, "5000", "8000.00"},
	})
}

func TestLedgerReplayAdvanceNeverOverApplies(t *testing.T) {
	// Advance larger than the invoice: only the invoice total is applied,
	// the rest stays on the account.
	available := dec("2000")
	inv := Invoice{TotalInclGst: dec("1180"), PendingAmount: dec("1180")}
	applied := inv.ApplyPaymentAmount(available)

	assert.True(t, applied.Equal(dec("1180")))
	assert.Equal(t, InvoiceStatusPaid, inv.Status)

	replay(t, []struct {
		entryType LedgerEntryType
		amount    string
		want      string
	}{
		{LedgerEntryTypeCredit, "2000", "-2000.00"},
		{LedgerEntryTypeDebit, "1180", "-820.00"},
		{LedgerEntryTypeCredit, "1180", "-2000.00"},
	})
}
