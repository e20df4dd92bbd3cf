package models

import (
	"context"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
)

// Expense is a business outflow that is not payroll: ads, hosting bills,
// rent. It feeds the net-balance report only; no ledger account is touched.
type Expense struct {
	ID        int             `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Amount    decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"amount"`
	Mode      ExpenseMode     `gorm:"size:10;not null;default:OTHER" json:"mode"`
	PaymentTo string          `gorm:"size:100" json:"payment_to"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	Remarks   string          `gorm:"size:255" json:"remarks"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewExpense struct {
	Name      string          `json:"name" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Mode      ExpenseMode     `json:"mode"`
	PaymentTo string          `json:"payment_to"`
	Date      *time.Time      `json:"date"`
	Remarks   string          `json:"remarks"`
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, utils.NewValidationError(utils.CodeAmountRequired, "expense amount must be positive")
	}
	mode := input.Mode
	if mode == "" {
		mode = ExpenseModeOther
	}
	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	expense := Expense{
		Name:      input.Name,
		Amount:    input.Amount.Round(2),
		Mode:      mode,
		PaymentTo: input.PaymentTo,
		Date:      date,
		Remarks:   input.Remarks,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses returns expenses inside the optional [from, to] window, the
// 'to' bound inclusive of its whole day.
func ListExpenses(ctx context.Context, from *time.Time, to *time.Time) ([]Expense, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&Expense{})
	if from != nil {
		query = query.Where("date >= ?", *from)
	}
	if to != nil {
		endOfDay := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())
		query = query.Where("date <= ?", endOfDay)
	}
	var rows []Expense
	if err := query.Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func DeleteExpense(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Expense{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.NewNotFoundError("EXPENSE_NOT_FOUND", "expense not found")
	}
	return nil
}
