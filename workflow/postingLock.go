package workflow

import (
	"fmt"

	"github.com/dodunsoft/billing_backend/models"
	"github.com/dodunsoft/billing_backend/utils"
	"gorm.io/gorm"
)

// AcquireAccountPostingLock serializes ledger appends per account using
// MySQL advisory locks. Each entry's balanceAfter is derived from the
// previous entry, so two concurrent appends reading the same prior balance
// would corrupt the running total; the lock makes read-balance + append one
// critical section.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB transaction that will do the posting.

// postingLockTimeoutSeconds is how long an append waits for a contended
// account before failing with a retryable LEDGER_CONFLICT.
var postingLockTimeoutSeconds = 10

func AcquireAccountPostingLock(tx *gorm.DB, kind models.AccountKind, accountId int) error {
	lockName := fmt.Sprintf("ledger:%s:%d", kind, accountId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, ?)", lockName, postingLockTimeoutSeconds).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return utils.NewConcurrencyError(utils.CodeLedgerConflict,
			fmt.Sprintf("could not acquire posting lock for %s account %d", kind, accountId))
	}
	return nil
}

func ReleaseAccountPostingLock(tx *gorm.DB, kind models.AccountKind, accountId int) {
	lockName := fmt.Sprintf("ledger:%s:%d", kind, accountId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
