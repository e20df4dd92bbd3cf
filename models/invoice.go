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

// InvoiceLineItem carries exactly one unit price depending on the invoice's
// GST mode: UnitPriceExclGst under EXCLUSIVE/NOGST, UnitPriceInclGst under
// INCLUSIVE. The other field stays nil.
type InvoiceLineItem struct {
	ID               int              `gorm:"primaryKey" json:"id"`
	InvoiceId        int              `gorm:"not null;index" json:"invoice_id"`
	Description      string           `gorm:"size:255" json:"description"`
	Qty              decimal.Decimal  `gorm:"type:decimal(13,2);not null;default:1" json:"qty"`
	UnitPriceExclGst *decimal.Decimal `gorm:"type:decimal(13,2)" json:"unit_price_excl_gst"`
	UnitPriceInclGst *decimal.Decimal `gorm:"type:decimal(13,2)" json:"unit_price_incl_gst"`
}

type Invoice struct {
	ID          int               `gorm:"primaryKey" json:"id"`
	ClientId    int               `gorm:"not null;index" json:"client_id"`
	InvoiceNo   string            `gorm:"size:30;not null;uniqueIndex" json:"invoice_no"`
	IssueDate   time.Time         `gorm:"not null" json:"issue_date"`
	PeriodStart *time.Time        `json:"period_start"`
	PeriodEnd   *time.Time        `json:"period_end"`
	BillingType BillingType       `gorm:"size:10;not null;default:ONE_TIME" json:"billing_type"`
	GstMode     utils.GstMode     `gorm:"size:10;not null;default:EXCLUSIVE" json:"gst_mode"`
	GstRate     decimal.Decimal   `gorm:"type:decimal(6,4);not null;default:0" json:"gst_rate"`
	LineItems   []InvoiceLineItem `gorm:"foreignKey:InvoiceId" json:"line_items"`
	ExtraAmount decimal.Decimal   `gorm:"type:decimal(13,2);not null;default:0" json:"extra_amount"`
	Remarks     string            `gorm:"size:255" json:"remarks"`

	SubtotalExclGst decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"subtotal_excl_gst"`
	GstAmount       decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"gst_amount"`
	TotalInclGst    decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"total_incl_gst"`

	PaidAmount    decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"paid_amount"`
	PendingAmount decimal.Decimal `gorm:"type:decimal(13,2);not null;default:0" json:"pending_amount"`
	Status        InvoiceStatus   `gorm:"size:20;not null;default:DUE" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoiceLineItem struct {
	Description      string           `json:"description"`
	Qty              decimal.Decimal  `json:"qty"`
	UnitPriceExclGst *decimal.Decimal `json:"unit_price_excl_gst"`
	UnitPriceInclGst *decimal.Decimal `json:"unit_price_incl_gst"`
}

type NewInvoice struct {
	ClientId    int                  `json:"client_id" binding:"required"`
	IssueDate   *time.Time           `json:"issue_date"`
	PeriodStart *time.Time           `json:"period_start"`
	PeriodEnd   *time.Time           `json:"period_end"`
	BillingType BillingType          `json:"billing_type"`
	GstMode     utils.GstMode        `json:"gst_mode"`
	GstRate     *decimal.Decimal     `json:"gst_rate"`
	LineItems   []NewInvoiceLineItem `json:"line_items"`
	ExtraAmount decimal.Decimal      `json:"extra_amount"`
	Remarks     string               `json:"remarks"`
}

// LineAmount selects the unit price matching the active mode, multiplies it
// out and tags it for the pricing engine. The unit price for the active mode
// must be present; the other field is ignored.
func (item *NewInvoiceLineItem) LineAmount(mode utils.GstMode) (utils.LineAmount, error) {
	qty := item.Qty
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	if qty.IsNegative() {
		return utils.LineAmount{}, utils.NewValidationError(utils.CodeInvalidLineAmount, "line qty must not be negative")
	}
	if mode == utils.GstModeInclusive {
		if item.UnitPriceInclGst == nil {
			return utils.LineAmount{}, utils.NewValidationError(utils.CodeInvalidLineAmount, "inclusive unit price required under INCLUSIVE mode")
		}
		return utils.InclusiveAmount(utils.Round2(item.UnitPriceInclGst.Mul(qty))), nil
	}
	if item.UnitPriceExclGst == nil {
		return utils.LineAmount{}, utils.NewValidationError(utils.CodeInvalidLineAmount, "exclusive unit price required under "+string(mode)+" mode")
	}
	return utils.ExclusiveAmount(utils.Round2(item.UnitPriceExclGst.Mul(qty))), nil
}

// DeriveInvoiceStatus is the only way an invoice status is produced: a pure
// function of paid/pending, never set directly.
func DeriveInvoiceStatus(paidAmount, pendingAmount decimal.Decimal) InvoiceStatus {
	if pendingAmount.LessThanOrEqual(decimal.Zero) {
		return InvoiceStatusPaid
	}
	if paidAmount.IsPositive() {
		return InvoiceStatusPartiallyPaid
	}
	return InvoiceStatusDue
}

// ApplyPaymentAmount applies up to amount against the invoice's pending
// balance and recomputes paid/pending/status. It returns how much was
// actually applied (zero when the invoice is already settled). The invariant
// paidAmount + pendingAmount == totalInclGst holds before and after.
func (inv *Invoice) ApplyPaymentAmount(amount decimal.Decimal) decimal.Decimal {
	apply := decimal.Min(inv.PendingAmount, amount)
	if !apply.IsPositive() {
		return decimal.Zero
	}
	inv.PaidAmount = utils.Round2(inv.PaidAmount.Add(apply))
	inv.PendingAmount = utils.Round2(inv.TotalInclGst.Sub(inv.PaidAmount))
	inv.Status = DeriveInvoiceStatus(inv.PaidAmount, inv.PendingAmount)
	return apply
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()
	return getInvoice(db.WithContext(ctx), id)
}

func GetInvoiceTx(tx *gorm.DB, id int) (*Invoice, error) {
	return getInvoice(tx, id)
}

func getInvoice(tx *gorm.DB, id int) (*Invoice, error) {
	var invoice Invoice
	err := tx.Preload("LineItems").First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeInvoiceNotFound, "invoice not found")
		}
		return nil, err
	}
	return &invoice, nil
}

// ListClientInvoices returns a client's invoices, most recent first.
func ListClientInvoices(ctx context.Context, clientId int) ([]Invoice, error) {
	db := config.GetDB()
	var invoices []Invoice
	err := db.WithContext(ctx).
		Where("client_id = ?", clientId).
		Preload("LineItems").
		Order("issue_date DESC, id DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
