package models

import (
	"context"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
)

// SalaryPayment is one salary run. At most one exists per
// (staff, month, year); the unique index makes the rule race-safe, the
// workflow pre-check only gives the friendly error on the common path.
type SalaryPayment struct {
	ID      int `gorm:"primaryKey" json:"id"`
	StaffId int `gorm:"not null;uniqueIndex:idx_salary_staff_period,priority:1" json:"staff_id"`
	Month   int `gorm:"not null;uniqueIndex:idx_salary_staff_period,priority:2" json:"month"`
	Year    int `gorm:"not null;uniqueIndex:idx_salary_staff_period,priority:3" json:"year"`

	Basic           decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"basic"`
	Hra             decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"hra"`
	OtherAllowances decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"other_allowances"`

	Pf              decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"pf"`
	Tds             decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"tds"`
	AdvanceRecovery decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"advance_recovery"`
	OtherDeductions decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"other_deductions"`

	Gross           decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"gross"`
	TotalDeductions decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"total_deductions"`
	NetPay          decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"net_pay"`

	PaidOn  time.Time     `gorm:"not null" json:"paid_on"`
	PayMode SalaryPayMode `gorm:"size:10;not null;default:OTHER" json:"pay_mode"`
	SlipNo  string        `gorm:"size:30" json:"slip_no"`
	Remarks string        `gorm:"size:255" json:"remarks"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewSalaryPayment struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	Basic           decimal.Decimal `json:"basic"`
	Hra             decimal.Decimal `json:"hra"`
	OtherAllowances decimal.Decimal `json:"other_allowances"`

	Pf              decimal.Decimal `json:"pf"`
	Tds             decimal.Decimal `json:"tds"`
	AdvanceRecovery decimal.Decimal `json:"advance_recovery"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`

	PaidOn  *time.Time    `json:"paid_on"`
	PayMode SalaryPayMode `json:"pay_mode"`
	Remarks string        `json:"remarks"`
}

// SalaryTotals are the derived amounts of a salary run.
type SalaryTotals struct {
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
}

// ComputeSalaryTotals derives gross, total deductions and net pay.
// NetPay below zero is a business-rule failure, not a clamp.
func ComputeSalaryTotals(input *NewSalaryPayment) (SalaryTotals, error) {
	gross := utils.Round2(input.Basic.Add(input.Hra).Add(input.OtherAllowances))
	totalDeductions := utils.Round2(input.Pf.Add(input.Tds).Add(input.AdvanceRecovery).Add(input.OtherDeductions))
	netPay := utils.Round2(gross.Sub(totalDeductions))
	if netPay.IsNegative() {
		return SalaryTotals{}, utils.NewBusinessRuleError(utils.CodeNetPayNegative, "net pay must not be negative")
	}
	return SalaryTotals{Gross: gross, TotalDeductions: totalDeductions, NetPay: netPay}, nil
}

// ListStaffSalaryPayments returns a staff member's salary runs, newest
// period first.
func ListStaffSalaryPayments(ctx context.Context, staffId int) ([]SalaryPayment, error) {
	db := config.GetDB()
	var rows []SalaryPayment
	err := db.WithContext(ctx).
		Where("staff_id = ?", staffId).
		Order("year DESC, month DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
