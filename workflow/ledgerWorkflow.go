package workflow

import (
	"time"

	"github.com/dodunsoft/billing_backend/models"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AppendLedgerEntry posts one immutable entry: read the account's current
// balance, apply the DEBIT/CREDIT delta, write the row. The caller must
// hold the account's posting lock on tx (AcquireAccountPostingLock) so the
// read-modify-append cannot interleave with another append for the same
// account.
//
// Entry dates must not move backwards: each balanceAfter continues from the
// latest entry, so a date earlier than that entry's would make the date
// ordering disagree with the balance chain and hide the new amount from
// CurrentBalance. Such appends are rejected, not reordered.
func AppendLedgerEntry(tx *gorm.DB, kind models.AccountKind, accountId int, entryType models.LedgerEntryType, amount decimal.Decimal, refType models.LedgerRefType, refId *int, remarks string, date time.Time) (*models.LedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, utils.NewValidationError(utils.CodeInvalidAmount, "ledger amount must be positive")
	}

	last, err := models.LatestEntryTx(tx, kind, accountId)
	if err != nil {
		return nil, err
	}
	prev := decimal.Zero
	if last != nil {
		if date.Before(last.Date) {
			return nil, utils.NewValidationError(utils.CodeLedgerDateOutOfOrder,
				"entry date is earlier than the account's latest ledger entry")
		}
		prev = last.BalanceAfter
	}

	entry := models.LedgerEntry{
		AccountKind:  kind,
		AccountId:    accountId,
		Date:         date,
		Type:         entryType,
		Amount:       amount.Round(2),
		BalanceAfter: models.NextBalance(prev, entryType, amount),
		RefType:      refType,
		RefId:        refId,
		Remarks:      remarks,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
