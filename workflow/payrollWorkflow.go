package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/models"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecordAdvance hands money to a staff member ahead of payroll. On the
// staff ledger a DEBIT means the staff member owes the business, so the
// advance posts as a DEBIT for the full amount.
func RecordAdvance(ctx context.Context, logger *logrus.Logger, staffId int, amount decimal.Decimal, date time.Time, remarks string) (*models.LedgerEntry, error) {
	if !amount.IsPositive() {
		return nil, utils.NewValidationError(utils.CodeAmountRequired, "advance amount must be positive")
	}
	if _, err := models.GetStaff(ctx, staffId); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	if remarks == "" {
		remarks = "Salary advance"
	}

	var entry *models.LedgerEntry
	err := withAccountPosting(ctx, models.AccountKindStaff, staffId, func(tx *gorm.DB) error {
		var err error
		entry, err = AppendLedgerEntry(tx, models.AccountKindStaff, staffId,
			models.LedgerEntryTypeDebit, amount,
			models.LedgerRefTypeAdvance, nil, remarks, date)
		if err != nil {
			config.LogError(logger, "payrollWorkflow.go", "RecordAdvance", "AppendDebit", staffId, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PaySalary runs one salary period for a staff member: the salary row plus
// a DEBIT for net pay and, when an advance is being recovered, a CREDIT for
// the recovered amount, all in one transaction. The unique
// (staff, month, year) index is the real guard against a double run; the
// duplicate-key translation maps the race loser to the same conflict error
// as the pre-check.
func PaySalary(ctx context.Context, logger *logrus.Logger, staffId int, input *models.NewSalaryPayment) (*models.SalaryPayment, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if input.Month < 1 || input.Month > 12 || input.Year <= 0 {
		return nil, utils.NewValidationError(utils.CodeMonthYearRequired, "month and year are required")
	}
	if _, err := models.GetStaff(ctx, staffId); err != nil {
		return nil, err
	}

	totals, err := models.ComputeSalaryTotals(input)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var existing int64
	err = db.WithContext(ctx).Model(&models.SalaryPayment{}).
		Where("staff_id = ? AND month = ? AND year = ?", staffId, input.Month, input.Year).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, utils.NewConflictError(utils.CodeAlreadyPaidForMonth,
			fmt.Sprintf("salary already paid for %04d-%02d", input.Year, input.Month))
	}

	paidOn := time.Now()
	if input.PaidOn != nil {
		paidOn = *input.PaidOn
	}
	payMode := input.PayMode
	if payMode == "" {
		payMode = models.SalaryPayModeOther
	}

	salary := models.SalaryPayment{
		StaffId:         staffId,
		Month:           input.Month,
		Year:            input.Year,
		Basic:           input.Basic.Round(2),
		Hra:             input.Hra.Round(2),
		OtherAllowances: input.OtherAllowances.Round(2),
		Pf:              input.Pf.Round(2),
		Tds:             input.Tds.Round(2),
		AdvanceRecovery: input.AdvanceRecovery.Round(2),
		OtherDeductions: input.OtherDeductions.Round(2),
		Gross:           totals.Gross,
		TotalDeductions: totals.TotalDeductions,
		NetPay:          totals.NetPay,
		PaidOn:          paidOn,
		PayMode:         payMode,
		Remarks:         input.Remarks,
	}

	err = withAccountPosting(ctx, models.AccountKindStaff, staffId, func(tx *gorm.DB) error {
		slipNo, err := models.NextSalarySlipNumber(tx, input.Month, input.Year)
		if err != nil {
			config.LogError(logger, "payrollWorkflow.go", "PaySalary", "NextSalarySlipNumber", staffId, err)
			return err
		}
		salary.SlipNo = slipNo

		if err := tx.Create(&salary).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.NewConflictError(utils.CodeAlreadyPaidForMonth,
					fmt.Sprintf("salary already paid for %04d-%02d", input.Year, input.Month))
			}
			config.LogError(logger, "payrollWorkflow.go", "PaySalary", "CreateSalaryPayment", salary.SlipNo, err)
			return err
		}

		if salary.NetPay.IsPositive() {
			_, err = AppendLedgerEntry(tx, models.AccountKindStaff, staffId,
				models.LedgerEntryTypeDebit, salary.NetPay,
				models.LedgerRefTypeSalary, &salary.ID,
				fmt.Sprintf("Salary %s", salary.SlipNo), paidOn)
			if err != nil {
				config.LogError(logger, "payrollWorkflow.go", "PaySalary", "AppendNetPay", salary.SlipNo, err)
				return err
			}
		}

		if salary.AdvanceRecovery.IsPositive() {
			_, err = AppendLedgerEntry(tx, models.AccountKindStaff, staffId,
				models.LedgerEntryTypeCredit, salary.AdvanceRecovery,
				models.LedgerRefTypeRecovery, &salary.ID,
				fmt.Sprintf("Advance recovered in %s", salary.SlipNo), paidOn)
			if err != nil {
				config.LogError(logger, "payrollWorkflow.go", "PaySalary", "AppendRecovery", salary.SlipNo, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &salary, nil
}
