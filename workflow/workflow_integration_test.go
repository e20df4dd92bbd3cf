package workflow

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/models"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// These tests run the full posting workflows against a real MySQL pointed
// at by the usual DB_* env vars. Enable with INTEGRATION_TESTS=1.

func setupIntegration(t *testing.T) context.Context {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run DB-backed workflow tests")
	}
	config.ConnectDatabaseWithRetry()
	require.NoError(t, models.Migrate(config.GetDB()))
	return context.Background()
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestClient(t *testing.T, ctx context.Context, opening string) *models.Client {
	t.Helper()
	client, err := models.CreateClient(ctx, &models.NewClient{
		Name:           "it-client-" + time.Now().Format("150405.000000000"),
		OpeningBalance: dec(opening),
	})
	require.NoError(t, err)
	return client
}

func simpleInvoiceInput(clientId int, priceExcl string) *models.NewInvoice {
	price := dec(priceExcl)
	rate := dec("0.18")
	return &models.NewInvoice{
		ClientId: clientId,
		GstMode:  utils.GstModeExclusive,
		GstRate:  &rate,
		LineItems: []models.NewInvoiceLineItem{
			{Description: "consulting", UnitPriceExclGst: &price},
		},
	}
}

func TestInvoicePostsDebit(t *testing.T) {
	ctx := setupIntegration(t)
	logger := config.GetLogger()
	client := newTestClient(t, ctx, "0")

	invoice, err := CreateInvoice(ctx, logger, simpleInvoiceInput(client.ID, "1000"))
	require.NoError(t, err)

	assert.True(t, invoice.TotalInclGst.Equal(dec("1180.00")))
	assert.Equal(t, models.InvoiceStatusDue, invoice.Status)

	balance, err := models.CurrentBalance(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("1180.00")), "balance %s", balance)
}

func TestInvoiceOffsetsExistingAdvance(t *testing.T) {
	ctx := setupIntegration(t)
	logger := config.GetLogger()
	client := newTestClient(t, ctx, "0")

	// Stand up a 500 advance first.
	_, err := RecordPayment(ctx, logger, &models.NewPayment{
		ClientId: client.ID,
		Amount:   dec("500"),
		Mode:     models.PaymentModeUpi,
	})
	require.NoError(t, err)

	invoice, err := CreateInvoice(ctx, logger, simpleInvoiceInput(client.ID, "1000"))
	require.NoError(t, err)

	assert.True(t, invoice.PaidAmount.Equal(dec("500.00")))
	assert.True(t, invoice.PendingAmount.Equal(dec("680.00")))
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, invoice.Status)

	balance, err := models.CurrentBalance(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("180.00")), "balance %s", balance)

	entries, err := models.AccountEntries(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.LedgerRefTypePayment, entries[0].RefType)
	assert.Equal(t, models.LedgerRefTypeInvoice, entries[1].RefType)
	assert.Equal(t, models.LedgerRefTypeAdjustment, entries[2].RefType)
}

func TestPaymentWithoutInvoiceBecomesAdvance(t *testing.T) {
	ctx := setupIntegration(t)
	logger := config.GetLogger()
	client := newTestClient(t, ctx, "0")

	_, err := CreateInvoice(ctx, logger, simpleInvoiceInput(client.ID, "1000"))
	require.NoError(t, err)

	result, err := RecordPayment(ctx, logger, &models.NewPayment{
		ClientId: client.ID,
		Amount:   dec("2000"),
	})
	require.NoError(t, err)

	assert.True(t, result.IsAdvance)
	assert.True(t, result.Applied.IsZero())

	balance, err := models.CurrentBalance(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("-820.00")), "balance %s", balance)
}

func TestPaymentAppliedToInvoice(t *testing.T) {
	ctx := setupIntegration(t)
	logger := config.GetLogger()
	client := newTestClient(t, ctx, "0")

	invoice, err := CreateInvoice(ctx, logger, simpleInvoiceInput(client.ID, "1000"))
	require.NoError(t, err)

	result, err := RecordPayment(ctx, logger, &models.NewPayment{
		ClientId:  client.ID,
		InvoiceId: &invoice.ID,
		Amount:    dec("500"),
	})
	require.NoError(t, err)

	assert.False(t, result.IsAdvance)
	assert.True(t, result.Applied.Equal(dec("500")))
	assert.True(t, result.PendingAfter.Equal(dec("680.00")))

	// One CREDIT entry only; applying to the invoice never double-posts.
	entries, err := models.AccountEntries(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.LedgerEntryTypeCredit, entries[1].Type)
}

func TestSalaryRunPostsNetPayAndRecovery(t *testing.T) {
	ctx := setupIntegration(t)
	logger := config.GetLogger()

	staff, err := models.CreateStaff(ctx, &models.NewStaff{
		Name: "it-staff-" + time.Now().Format("150405.000000000"),
	})
	require.NoError(t, err)

	_, err = RecordAdvance(ctx, logger, staff.ID, dec("5000"), time.Now(), "")
	require.NoError(t, err)

	salary, err := PaySalary(ctx, logger, staff.ID, &models.NewSalaryPayment{
		Month:           3,
		Year:            2025,
		Basic:           dec("8000"),
		AdvanceRecovery: dec("5000"),
	})
	require.NoError(t, err)
	assert.True(t, salary.NetPay.Equal(dec("3000.00")))

	// Second run for the same period must fail without touching the ledger.
	_, err = PaySalary(ctx, logger, staff.ID, &models.NewSalaryPayment{
		Month: 3,
		Year:  2025,
		Basic: dec("8000"),
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeAlreadyPaidForMonth, utils.CodeOf(err))

	entries, err := models.AccountEntries(ctx, models.AccountKindStaff, staff.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.LedgerRefTypeAdvance, entries[0].RefType)
	assert.Equal(t, models.LedgerRefTypeSalary, entries[1].RefType)
	assert.Equal(t, models.LedgerRefTypeRecovery, entries[2].RefType)

	balance, err := models.CurrentBalance(ctx, models.AccountKindStaff, staff.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("3000.00")), "balance %s", balance)
}

func TestConcurrentPaymentsSerializePerAccount(t *testing.T) {
	ctx := setupIntegration(t)
	logger := config.GetLogger()
	client := newTestClient(t, ctx, "0")

	// N simultaneous payments for one client. The posting lock must
	// serialize them so every entry's balanceAfter continues from the one
	// before; without it two appends can read the same stale balance.
	const workers = 8
	date := time.Now()
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := RecordPayment(ctx, logger, &models.NewPayment{
				ClientId: client.ID,
				Amount:   dec("100"),
				Date:     &date,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := models.CurrentBalance(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("-800.00")), "balance %s", balance)

	// The full chain must replay cleanly: no two entries may share a
	// predecessor.
	entries, err := models.AccountEntries(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	require.Len(t, entries, workers)
	running := decimal.Zero
	for i, entry := range entries {
		running = models.NextBalance(running, entry.Type, entry.Amount)
		assert.True(t, running.Equal(entry.BalanceAfter),
			"entry %d: stored %s, replayed %s", i, entry.BalanceAfter, running)
	}
}

func TestContendedPostingLockIsRetryableConflict(t *testing.T) {
	ctx := setupIntegration(t)
	client := newTestClient(t, ctx, "0")
	db := config.GetDB()

	prevTimeout := postingLockTimeoutSeconds
	postingLockTimeoutSeconds = 1
	defer func() { postingLockTimeoutSeconds = prevTimeout }()

	err := db.WithContext(ctx).Connection(func(holder *gorm.DB) error {
		require.NoError(t, AcquireAccountPostingLock(holder, models.AccountKindClient, client.ID))
		defer ReleaseAccountPostingLock(holder, models.AccountKindClient, client.ID)

		return db.WithContext(ctx).Connection(func(contender *gorm.DB) error {
			lockErr := AcquireAccountPostingLock(contender, models.AccountKindClient, client.ID)
			require.Error(t, lockErr)
			assert.Equal(t, utils.CodeLedgerConflict, utils.CodeOf(lockErr))
			assert.True(t, utils.IsRetryable(lockErr))
			return nil
		})
	})
	require.NoError(t, err)
}

func TestBackdatedPaymentRejected(t *testing.T) {
	ctx := setupIntegration(t)
	logger := config.GetLogger()
	client := newTestClient(t, ctx, "0")

	_, err := CreateInvoice(ctx, logger, simpleInvoiceInput(client.ID, "1000"))
	require.NoError(t, err)

	// An entry dated before the account's latest would be invisible to
	// CurrentBalance and break the reconcile replay; it must be rejected.
	backdated := time.Now().Add(-48 * time.Hour)
	_, err = RecordPayment(ctx, logger, &models.NewPayment{
		ClientId: client.ID,
		Amount:   dec("500"),
		Date:     &backdated,
	})
	require.Error(t, err)
	assert.Equal(t, utils.CodeLedgerDateOutOfOrder, utils.CodeOf(err))

	// Nothing was committed: neither the payment's CREDIT nor the row.
	entries, err := models.AccountEntries(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestOpeningBalanceSeedsLedger(t *testing.T) {
	ctx := setupIntegration(t)
	client := newTestClient(t, ctx, "750")

	balance, err := models.CurrentBalance(ctx, models.AccountKindClient, client.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("750.00")), "balance %s", balance)
}
