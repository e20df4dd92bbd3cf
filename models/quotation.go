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

// QuotationLineItem mirrors the invoice line shape plus an optional flat
// per-unit discount applied before aggregation.
type QuotationLineItem struct {
	ID               int              `gorm:"primaryKey" json:"id"`
	QuotationId      int              `gorm:"not null;index" json:"quotation_id"`
	Description      string           `gorm:"size:255;not null" json:"description"`
	Qty              decimal.Decimal  `gorm:"type:decimal(13,2);not null;default:1" json:"qty"`
	UnitPriceExclGst *decimal.Decimal `gorm:"type:decimal(13,2)" json:"unit_price_excl_gst"`
	UnitPriceInclGst *decimal.Decimal `gorm:"type:decimal(13,2)" json:"unit_price_incl_gst"`
	BillingType      BillingType      `gorm:"size:10;not null;default:ONE_TIME" json:"billing_type"`
	Discount         decimal.Decimal  `gorm:"type:decimal(13,2);not null;default:0" json:"discount"`
}

// Quotation is a priced document with no ledger effect. Its status is a
// manually-driven lifecycle, unlike the derived invoice status.
type Quotation struct {
	ID         int        `gorm:"primaryKey" json:"id"`
	ClientId   *int       `gorm:"index" json:"client_id"`
	QuoteNo    string     `gorm:"size:30;not null;uniqueIndex" json:"quote_no"`
	IssueDate  time.Time  `gorm:"not null" json:"issue_date"`
	ValidUntil *time.Time `json:"valid_until"`

	RecipientName    string `gorm:"size:100" json:"recipient_name"`
	RecipientEmail   string `gorm:"size:100" json:"recipient_email"`
	RecipientPhone   string `gorm:"size:30" json:"recipient_phone"`
	RecipientCompany string `gorm:"size:100" json:"recipient_company"`
	RecipientAddress string `gorm:"size:255" json:"recipient_address"`

	LineItems   []QuotationLineItem `gorm:"foreignKey:QuotationId" json:"line_items"`
	ExtraAmount decimal.Decimal     `gorm:"type:decimal(13,2);not null;default:0" json:"extra_amount"`

	GstMode utils.GstMode   `gorm:"size:10;not null;default:EXCLUSIVE" json:"gst_mode"`
	GstRate decimal.Decimal `gorm:"type:decimal(6,4);not null;default:0" json:"gst_rate"`

	SubtotalExclGst decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"subtotal_excl_gst"`
	GstAmount       decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"gst_amount"`
	TotalInclGst    decimal.Decimal `gorm:"type:decimal(13,2);not null" json:"total_incl_gst"`

	Terms  string          `gorm:"size:1000" json:"terms"`
	Notes  string          `gorm:"size:1000" json:"notes"`
	Status QuotationStatus `gorm:"size:10;not null;default:DRAFT;index" json:"status"`

	SentTo []string   `gorm:"serializer:json" json:"sent_to"`
	SentAt *time.Time `json:"sent_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewQuotationLineItem struct {
	Description      string           `json:"description" binding:"required"`
	Qty              decimal.Decimal  `json:"qty"`
	UnitPriceExclGst *decimal.Decimal `json:"unit_price_excl_gst"`
	UnitPriceInclGst *decimal.Decimal `json:"unit_price_incl_gst"`
	BillingType      BillingType      `json:"billing_type"`
	Discount         decimal.Decimal  `json:"discount"`
}

type NewQuotation struct {
	ClientId   *int       `json:"client_id"`
	IssueDate  *time.Time `json:"issue_date"`
	ValidUntil *time.Time `json:"valid_until"`

	RecipientName    string `json:"recipient_name"`
	RecipientEmail   string `json:"recipient_email"`
	RecipientPhone   string `json:"recipient_phone"`
	RecipientCompany string `json:"recipient_company"`
	RecipientAddress string `json:"recipient_address"`

	GstMode     utils.GstMode          `json:"gst_mode"`
	GstRate     *decimal.Decimal       `json:"gst_rate"`
	LineItems   []NewQuotationLineItem `json:"line_items"`
	ExtraAmount decimal.Decimal        `json:"extra_amount"`

	Terms      string   `json:"terms"`
	Notes      string   `json:"notes"`
	MarkSentTo []string `json:"mark_sent_to"`
}

// LineAmount nets the discount off the unit price, multiplies out the qty
// and tags the result for the active mode.
func (item *NewQuotationLineItem) LineAmount(mode utils.GstMode) (utils.LineAmount, error) {
	qty := item.Qty
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	if qty.IsNegative() || item.Discount.IsNegative() {
		return utils.LineAmount{}, utils.NewValidationError(utils.CodeInvalidLineAmount, "line qty and discount must not be negative")
	}
	if mode == utils.GstModeInclusive {
		if item.UnitPriceInclGst == nil {
			return utils.LineAmount{}, utils.NewValidationError(utils.CodeInvalidLineAmount, "inclusive unit price required under INCLUSIVE mode")
		}
		net := item.UnitPriceInclGst.Sub(item.Discount)
		return utils.InclusiveAmount(utils.Round2(net.Mul(qty))), nil
	}
	if item.UnitPriceExclGst == nil {
		return utils.LineAmount{}, utils.NewValidationError(utils.CodeInvalidLineAmount, "exclusive unit price required under "+string(mode)+" mode")
	}
	net := item.UnitPriceExclGst.Sub(item.Discount)
	return utils.ExclusiveAmount(utils.Round2(net.Mul(qty))), nil
}

// CreateQuotation prices and stores a quotation. No ledger entry is posted;
// quotations have no financial effect until converted to an invoice.
func CreateQuotation(ctx context.Context, input *NewQuotation) (*Quotation, error) {
	if len(input.LineItems) == 0 {
		return nil, utils.NewValidationError(utils.CodeLineItemsRequired, "at least one line item is required")
	}
	mode := input.GstMode
	if mode == "" {
		mode = utils.GstModeExclusive
	}
	if !mode.Valid() {
		return nil, utils.NewValidationError(utils.CodeInvalidGstMode, "unknown gst mode "+string(mode))
	}

	rate := decimal.NewFromFloat(config.GstRate())
	if input.GstRate != nil {
		rate = *input.GstRate
	}
	if mode == utils.GstModeNoGst {
		rate = decimal.Zero
	}

	lines := make([]utils.LineAmount, 0, len(input.LineItems))
	for i := range input.LineItems {
		line, err := input.LineItems[i].LineAmount(mode)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	totals, err := utils.CalculateGstTotals(mode, rate, lines, input.ExtraAmount)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	if input.ClientId != nil {
		if _, err := GetClient(ctx, *input.ClientId); err != nil {
			return nil, err
		}
	}

	issueDate := time.Now()
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}

	quotation := Quotation{
		ClientId:         input.ClientId,
		IssueDate:        issueDate,
		ValidUntil:       input.ValidUntil,
		RecipientName:    input.RecipientName,
		RecipientEmail:   input.RecipientEmail,
		RecipientPhone:   input.RecipientPhone,
		RecipientCompany: input.RecipientCompany,
		RecipientAddress: input.RecipientAddress,
		ExtraAmount:      input.ExtraAmount.Round(2),
		GstMode:          mode,
		GstRate:          totals.GstRate,
		SubtotalExclGst:  totals.SubtotalExclGst,
		GstAmount:        totals.GstAmount,
		TotalInclGst:     totals.TotalInclGst,
		Terms:            input.Terms,
		Notes:            input.Notes,
		Status:           QuotationStatusDraft,
	}
	if len(input.MarkSentTo) > 0 {
		now := time.Now()
		quotation.Status = QuotationStatusSent
		quotation.SentTo = input.MarkSentTo
		quotation.SentAt = &now
	}
	for _, item := range input.LineItems {
		billingType := item.BillingType
		if billingType == "" {
			billingType = BillingTypeOneTime
		}
		quotation.LineItems = append(quotation.LineItems, QuotationLineItem{
			Description:      item.Description,
			Qty:              item.Qty,
			UnitPriceExclGst: item.UnitPriceExclGst,
			UnitPriceInclGst: item.UnitPriceInclGst,
			BillingType:      billingType,
			Discount:         item.Discount.Round(2),
		})
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quoteNo, err := NextQuoteNumber(tx)
		if err != nil {
			return err
		}
		quotation.QuoteNo = quoteNo
		return tx.Create(&quotation).Error
	})
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// quotationTransitions lists the allowed manual status moves. Terminal
// states have no exits.
var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationStatusDraft: {QuotationStatusSent, QuotationStatusExpired},
	QuotationStatusSent:  {QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired},
}

// CanTransitionQuotation reports whether a manual status move is allowed.
func CanTransitionQuotation(from, to QuotationStatus) bool {
	for _, allowed := range quotationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// UpdateQuotationStatus applies a manual lifecycle move.
func UpdateQuotationStatus(ctx context.Context, id int, to QuotationStatus, sentTo []string) (*Quotation, error) {
	db := config.GetDB()
	quotation, err := GetQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransitionQuotation(quotation.Status, to) {
		return nil, utils.NewBusinessRuleError(utils.CodeInvalidStatusChange,
			"cannot move quotation from "+string(quotation.Status)+" to "+string(to))
	}

	updates := map[string]interface{}{"status": to}
	if to == QuotationStatusSent {
		now := time.Now()
		quotation.SentAt = &now
		updates["sent_at"] = now
		if len(sentTo) > 0 {
			quotation.SentTo = append(quotation.SentTo, sentTo...)
			updates["sent_to"] = quotation.SentTo
		}
	}
	if err := db.WithContext(ctx).Model(quotation).Updates(updates).Error; err != nil {
		return nil, err
	}
	quotation.Status = to
	return quotation, nil
}

func GetQuotation(ctx context.Context, id int) (*Quotation, error) {
	db := config.GetDB()
	var quotation Quotation
	err := db.WithContext(ctx).Preload("LineItems").First(&quotation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError(utils.CodeQuotationNotFound, "quotation not found")
		}
		return nil, err
	}
	return &quotation, nil
}
