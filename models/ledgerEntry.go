package models

import (
	"context"
	"errors"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is one immutable movement against an account's running
// balance. Entries are append-only: corrections are new ADJUSTMENT entries,
// never edits. BalanceAfter is computed from the previous entry at append
// time and is the single source of truth for the account balance.
type LedgerEntry struct {
	ID           int             `gorm:"primaryKey" json:"id"`
	AccountKind  AccountKind     `gorm:"size:10;not null;index:idx_ledger_account,priority:1" json:"account_kind"`
	AccountId    int             `gorm:"not null;index:idx_ledger_account,priority:2" json:"account_id"`
	Date         time.Time       `gorm:"not null;index:idx_ledger_account,priority:3" json:"date"`
	Type         LedgerEntryType `gorm:"size:10;not null" json:"type"`
	Amount       decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"balance_after"`
	RefType      LedgerRefType   `gorm:"size:20" json:"ref_type"`
	RefId        *int            `json:"ref_id"`
	Remarks      string          `gorm:"size:255" json:"remarks"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// NextBalance applies one entry to a prior balance. This is the only place
// the DEBIT/CREDIT sign mapping exists; see AccountKind for what the sign
// means per account kind.
func NextBalance(prev decimal.Decimal, entryType LedgerEntryType, amount decimal.Decimal) decimal.Decimal {
	if entryType == LedgerEntryTypeDebit {
		return prev.Add(amount).Round(2)
	}
	return prev.Sub(amount).Round(2)
}

// LatestEntryTx returns the chronologically-latest entry for the account
// (ties broken by creation order), or nil when the account has no entries.
func LatestEntryTx(tx *gorm.DB, kind AccountKind, accountId int) (*LedgerEntry, error) {
	var last LedgerEntry
	err := tx.Where("account_kind = ? AND account_id = ?", kind, accountId).
		Order("date DESC, created_at DESC, id DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &last, nil
}

// CurrentBalanceTx returns the latest entry's balanceAfter, or zero when the
// account has no entries. Always derived from the ledger itself; no
// separately maintained running total exists.
func CurrentBalanceTx(tx *gorm.DB, kind AccountKind, accountId int) (decimal.Decimal, error) {
	last, err := LatestEntryTx(tx, kind, accountId)
	if err != nil {
		return decimal.Zero, err
	}
	if last == nil {
		return decimal.Zero, nil
	}
	return last.BalanceAfter, nil
}

// CurrentBalance is the read-only variant for callers outside a posting
// transaction.
func CurrentBalance(ctx context.Context, kind AccountKind, accountId int) (decimal.Decimal, error) {
	db := config.GetDB()
	return CurrentBalanceTx(db.WithContext(ctx), kind, accountId)
}

// AccountBalance pairs an account id with its derived current balance.
type AccountBalance struct {
	AccountId    int             `json:"account_id"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// AccountBalancesByKind returns every account of one kind with its current
// balance, resolved in a single query instead of one latest-entry lookup
// per account.
func AccountBalancesByKind(ctx context.Context, kind AccountKind) (map[int]decimal.Decimal, error) {
	db := config.GetDB()
	var rows []AccountBalance
	err := db.WithContext(ctx).Raw(`
		SELECT account_id, balance_after FROM (
			SELECT account_id, balance_after,
			       ROW_NUMBER() OVER (
			           PARTITION BY account_id
			           ORDER BY date DESC, created_at DESC, id DESC
			       ) AS rn
			FROM ledger_entries
			WHERE account_kind = ?
		) latest WHERE rn = 1`, kind).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	balances := make(map[int]decimal.Decimal, len(rows))
	for _, r := range rows {
		balances[r.AccountId] = r.BalanceAfter
	}
	return balances, nil
}

// AccountEntries lists an account's full ledger in posting order.
func AccountEntries(ctx context.Context, kind AccountKind, accountId int) ([]LedgerEntry, error) {
	db := config.GetDB()
	var entries []LedgerEntry
	err := db.WithContext(ctx).
		Where("account_kind = ? AND account_id = ?", kind, accountId).
		Order("date ASC, created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
