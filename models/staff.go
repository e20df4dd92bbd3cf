package models

import (
	"context"
	"errors"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Staff struct {
	ID          int             `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Phone       string          `gorm:"size:30" json:"phone"`
	Email       string          `gorm:"size:100" json:"email"`
	Designation string          `gorm:"size:100" json:"designation"`
	JoinDate    *time.Time      `json:"join_date"`
	SalaryBase  decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"salary_base"`
	BankName    string          `gorm:"size:100" json:"bank_name"`
	AccountNo   string          `gorm:"size:30" json:"account_no"`
	Ifsc        string          `gorm:"size:20" json:"ifsc"`
	HolderName  string          `gorm:"size:100" json:"holder_name"`
	UpiId       string          `gorm:"size:100" json:"upi_id"`
	Notes       string          `gorm:"size:255" json:"notes"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewStaff struct {
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Designation string          `json:"designation"`
	JoinDate    *time.Time      `json:"join_date"`
	SalaryBase  decimal.Decimal `json:"salary_base"`
	BankName    string          `json:"bank_name"`
	AccountNo   string          `json:"account_no"`
	Ifsc        string          `json:"ifsc"`
	HolderName  string          `json:"holder_name"`
	UpiId       string          `json:"upi_id"`
	Notes       string          `json:"notes"`
}

func CreateStaff(ctx context.Context, input *NewStaff) (*Staff, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	staff := Staff{
		Name:        input.Name,
		Phone:       input.Phone,
		Email:       input.Email,
		Designation: input.Designation,
		JoinDate:    input.JoinDate,
		SalaryBase:  input.SalaryBase.Round(2),
		BankName:    input.BankName,
		AccountNo:   input.AccountNo,
		Ifsc:        input.Ifsc,
		HolderName:  input.HolderName,
		UpiId:       input.UpiId,
		Notes:       input.Notes,
		IsActive:    true,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// UpdateStaff carries a partial update; nil fields are left untouched.
type UpdateStaff struct {
	Name        *string          `json:"name"`
	Phone       *string          `json:"phone"`
	Email       *string          `json:"email"`
	Designation *string          `json:"designation"`
	JoinDate    *time.Time       `json:"join_date"`
	SalaryBase  *decimal.Decimal `json:"salary_base"`
	BankName    *string          `json:"bank_name"`
	AccountNo   *string          `json:"account_no"`
	Ifsc        *string          `json:"ifsc"`
	HolderName  *string          `json:"holder_name"`
	UpiId       *string          `json:"upi_id"`
	Notes       *string          `json:"notes"`
	IsActive    *bool            `json:"is_active"`
}

func ModifyStaff(ctx context.Context, id int, input *UpdateStaff) (*Staff, error) {
	staff, err := GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		staff.Name = *input.Name
	}
	if input.Phone != nil {
		staff.Phone = *input.Phone
	}
	if input.Email != nil {
		staff.Email = *input.Email
	}
	if input.Designation != nil {
		staff.Designation = *input.Designation
	}
	if input.JoinDate != nil {
		staff.JoinDate = input.JoinDate
	}
	if input.SalaryBase != nil {
		staff.SalaryBase = input.SalaryBase.Round(2)
	}
	if input.BankName != nil {
		staff.BankName = *input.BankName
	}
	if input.AccountNo != nil {
		staff.AccountNo = *input.AccountNo
	}
	if input.Ifsc != nil {
		staff.Ifsc = *input.Ifsc
	}
	if input.HolderName != nil {
		staff.HolderName = *input.HolderName
	}
	if input.UpiId != nil {
		staff.UpiId = *input.UpiId
	}
	if input.Notes != nil {
		staff.Notes = *input.Notes
	}
	if input.IsActive != nil {
		staff.IsActive = *input.IsActive
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Save(staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func GetStaff(ctx context.Context, id int) (*Staff, error) {
	db := config.GetDB()
	return getStaff(db.WithContext(ctx), id)
}

func GetStaffTx(tx *gorm.DB, id int) (*Staff, error) {
	return getStaff(tx, id)
}

func getStaff(tx *gorm.DB, id int) (*Staff, error) {
	var staff Staff
	err := tx.First(&staff, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeStaffNotFound, "staff not found")
		}
		return nil, err
	}
	return &staff, nil
}

func ListStaff(ctx context.Context) ([]Staff, error) {
	db := config.GetDB()
	var rows []Staff
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
