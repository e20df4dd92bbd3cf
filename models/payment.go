package models

import (
	"context"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/shopspring/decimal"
)

// Payment is one received amount from a client. Immutable once recorded;
// the optional InvoiceId remembers which invoice it was taken against.
type Payment struct {
	ID             int             `gorm:"primaryKey" json:"id"`
	ClientId       int             `gorm:"not null;index" json:"client_id"`
	InvoiceId      *int            `gorm:"index" json:"invoice_id"`
	Date           time.Time       `gorm:"not null" json:"date"`
	Amount         decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"amount"`
	Mode           PaymentMode     `gorm:"size:10;not null;default:OTHER" json:"mode"`
	SlipRef        string          `gorm:"size:100" json:"slip_ref"`
	Notes          string          `gorm:"size:255" json:"notes"`
	AttachmentPath string          `gorm:"size:255" json:"attachment_path"`
	ReceiptNo      string          `gorm:"size:30;not null;uniqueIndex" json:"receipt_no"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewPayment struct {
	ClientId       int             `json:"client_id" binding:"required"`
	InvoiceId      *int            `json:"invoice_id"`
	Date           *time.Time      `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Mode           PaymentMode     `json:"mode"`
	SlipRef        string          `json:"slip_ref"`
	Notes          string          `json:"notes"`
	AttachmentPath string          `json:"attachment_path"`
}

// ListClientPayments returns a client's payments, most recent first.
func ListClientPayments(ctx context.Context, clientId int) ([]Payment, error) {
	db := config.GetDB()
	var payments []Payment
	err := db.WithContext(ctx).
		Where("client_id = ?", clientId).
		Order("date DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}
