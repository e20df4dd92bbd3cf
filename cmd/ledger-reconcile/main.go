package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dodunsoft/billing_backend/appctx"
	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type accountRef struct {
	AccountKind models.AccountKind
	AccountId   int
}

// Replays every account's ledger from zero and compares the recomputed
// running balance with each entry's stored balanceAfter. A mismatch means
// an entry was posted outside the locked workflow or tampered with. Exits
// non-zero when any account fails.
func main() {
	verbose := flag.Bool("v", false, "print every account, not just failures")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	logger := config.GetLogger()

	ctx := appctx.Set(context.Background(), appctx.ContextKeyCorrelationId, appctx.CorrelationId(context.Background()))

	var accounts []accountRef
	err := db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Distinct("account_kind", "account_id").
		Order("account_kind, account_id").
		Find(&accounts).Error
	if err != nil {
		config.LogError(logger, "main.go", "main", "ListAccounts", nil, err)
		os.Exit(1)
	}

	var failed int
	for _, account := range accounts {
		entries, err := models.AccountEntries(ctx, account.AccountKind, account.AccountId)
		if err != nil {
			config.LogError(logger, "main.go", "main", "AccountEntries", account, err)
			failed++
			continue
		}

		running := decimal.Zero
		ok := true
		for _, entry := range entries {
			running = models.NextBalance(running, entry.Type, entry.Amount)
			if !running.Equal(entry.BalanceAfter) {
				ok = false
				logger.WithFields(logrus.Fields{
					"accountKind": account.AccountKind,
					"accountId":   account.AccountId,
					"entryId":     entry.ID,
					"stored":      entry.BalanceAfter.String(),
					"recomputed":  running.String(),
				}).Error("ledger balance chain broken")
				// Keep replaying from the stored value to surface every
				// broken link, not just the first.
				running = entry.BalanceAfter
			}
		}

		if !ok {
			failed++
		} else if *verbose {
			fmt.Printf("%s:%d ok (%d entries, balance %s)\n",
				account.AccountKind, account.AccountId, len(entries), running.String())
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "ledger-reconcile: %d of %d accounts failed\n", failed, len(accounts))
		os.Exit(1)
	}
	fmt.Printf("ledger-reconcile: %d accounts ok\n", len(accounts))
}
