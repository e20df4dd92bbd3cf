package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/dodunsoft/billing_backend/config"
	"github.com/dodunsoft/billing_backend/models"
	"github.com/dodunsoft/billing_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// withAccountPosting runs fn inside one transaction while holding the
// account's advisory lock on the same connection. The lock is taken before
// the transaction starts and released after it commits or rolls back, so no
// other posting for this account can observe a stale balance in between.
func withAccountPosting(ctx context.Context, kind models.AccountKind, accountId int, fn func(tx *gorm.DB) error) error {
	db := config.GetDB()
	return db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := AcquireAccountPostingLock(conn, kind, accountId); err != nil {
			return err
		}
		defer ReleaseAccountPostingLock(conn, kind, accountId)
		return conn.Transaction(fn)
	})
}

// resolveGstRate applies the NOGST override and the configured default.
func resolveGstRate(mode utils.GstMode, override *decimal.Decimal) decimal.Decimal {
	if mode == utils.GstModeNoGst {
		return decimal.Zero
	}
	if override != nil {
		return *override
	}
	return decimal.NewFromFloat(config.GstRate())
}

// CreateInvoice prices the input, stores the invoice and posts its ledger
// effect: a DEBIT for the full total, then, when the client had an advance
// (negative balance before the DEBIT), an ADJUSTMENT CREDIT applying the
// advance against the new invoice up to its total. Invoice row and both
// ledger entries commit atomically; nothing is written on failure.
func CreateInvoice(ctx context.Context, logger *logrus.Logger, input *models.NewInvoice) (*models.Invoice, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
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
	rate := resolveGstRate(mode, input.GstRate)

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

	if _, err := models.GetClient(ctx, input.ClientId); err != nil {
		return nil, err
	}

	issueDate := time.Now()
	if input.IssueDate != nil {
		issueDate = *input.IssueDate
	}
	billingType := input.BillingType
	if billingType == "" {
		billingType = models.BillingTypeOneTime
	}

	invoice := models.Invoice{
		ClientId:        input.ClientId,
		IssueDate:       issueDate,
		PeriodStart:     input.PeriodStart,
		PeriodEnd:       input.PeriodEnd,
		BillingType:     billingType,
		GstMode:         mode,
		GstRate:         totals.GstRate,
		ExtraAmount:     input.ExtraAmount.Round(2),
		Remarks:         input.Remarks,
		SubtotalExclGst: totals.SubtotalExclGst,
		GstAmount:       totals.GstAmount,
		TotalInclGst:    totals.TotalInclGst,
		PaidAmount:      decimal.Zero,
		PendingAmount:   totals.TotalInclGst,
		Status:          models.InvoiceStatusDue,
	}
	for _, item := range input.LineItems {
		invoice.LineItems = append(invoice.LineItems, models.InvoiceLineItem{
			Description:      item.Description,
			Qty:              item.Qty,
			UnitPriceExclGst: item.UnitPriceExclGst,
			UnitPriceInclGst: item.UnitPriceInclGst,
		})
	}

	err = withAccountPosting(ctx, models.AccountKindClient, input.ClientId, func(tx *gorm.DB) error {
		invoiceNo, err := models.NextInvoiceNumber(tx, issueDate)
		if err != nil {
			config.LogError(logger, "invoiceWorkflow.go", "CreateInvoice", "NextInvoiceNumber", input.ClientId, err)
			return err
		}
		invoice.InvoiceNo = invoiceNo

		// Balance before the DEBIT decides the advance available below.
		prevBalance, err := models.CurrentBalanceTx(tx, models.AccountKindClient, input.ClientId)
		if err != nil {
			config.LogError(logger, "invoiceWorkflow.go", "CreateInvoice", "CurrentBalance", input.ClientId, err)
			return err
		}

		if err := tx.Create(&invoice).Error; err != nil {
			config.LogError(logger, "invoiceWorkflow.go", "CreateInvoice", "CreateInvoice", invoice.InvoiceNo, err)
			return err
		}

		_, err = AppendLedgerEntry(tx, models.AccountKindClient, input.ClientId,
			models.LedgerEntryTypeDebit, invoice.TotalInclGst,
			models.LedgerRefTypeInvoice, &invoice.ID,
			fmt.Sprintf("Invoice %s", invoice.InvoiceNo), issueDate)
		if err != nil {
			config.LogError(logger, "invoiceWorkflow.go", "CreateInvoice", "AppendDebit", invoice.InvoiceNo, err)
			return err
		}

		if prevBalance.IsNegative() {
			available := prevBalance.Neg()
			apply := invoice.ApplyPaymentAmount(available)
			if apply.IsPositive() {
				err = tx.Model(&invoice).Updates(map[string]interface{}{
					"paid_amount":    invoice.PaidAmount,
					"pending_amount": invoice.PendingAmount,
					"status":         invoice.Status,
				}).Error
				if err != nil {
					config.LogError(logger, "invoiceWorkflow.go", "CreateInvoice", "ApplyAdvance", invoice.InvoiceNo, err)
					return err
				}
				_, err = AppendLedgerEntry(tx, models.AccountKindClient, input.ClientId,
					models.LedgerEntryTypeCredit, apply,
					models.LedgerRefTypeAdjustment, &invoice.ID,
					fmt.Sprintf("Advance adjusted against %s", invoice.InvoiceNo), issueDate)
				if err != nil {
					config.LogError(logger, "invoiceWorkflow.go", "CreateInvoice", "AppendAdjustment", invoice.InvoiceNo, err)
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoiceFromServices derives line items from the client's services
// active in (month, year) and delegates to CreateInvoice. MONTHLY services
// are prorated over the real month length for the days their window
// overlaps the month; ONE_TIME services bill once when their start date
// falls inside the month.
func CreateInvoiceFromServices(ctx context.Context, logger *logrus.Logger, clientId int, month int, year int, gstMode utils.GstMode, gstRate *decimal.Decimal) (*models.Invoice, error) {
	if month < 1 || month > 12 || year <= 0 {
		return nil, utils.NewValidationError(utils.CodeMonthYearRequired, "month and year are required")
	}

	client, err := models.GetClient(ctx, clientId)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := utils.MonthWindow(month, year)
	lineItems := make([]models.NewInvoiceLineItem, 0, len(client.Services))

	for i := range client.Services {
		service := client.Services[i]
		switch service.BillingType {
		case models.BillingTypeMonthly:
			serviceEnd := monthEnd
			if service.ExpiryDate != nil {
				serviceEnd = *service.ExpiryDate
			}
			activeDays := utils.OverlapDays(service.StartDate, serviceEnd, monthStart, monthEnd)
			if activeDays <= 0 || !service.AmountMonthly.IsPositive() {
				continue
			}
			amount := utils.ProratedMonthly(service.AmountMonthly, activeDays, month, year)
			lineItems = append(lineItems, models.NewInvoiceLineItem{
				Description:      fmt.Sprintf("%s (%d days of %s)", service.Kind, activeDays, monthStart.Format("Jan 2006")),
				Qty:              decimal.NewFromInt(1),
				UnitPriceExclGst: &amount,
			})
		case models.BillingTypeOneTime:
			if service.StartDate.Before(monthStart) || !service.StartDate.Before(monthEnd.AddDate(0, 0, 1)) {
				continue
			}
			if !service.AmountOneTime.IsPositive() {
				continue
			}
			amount := service.AmountOneTime
			lineItems = append(lineItems, models.NewInvoiceLineItem{
				Description:      fmt.Sprintf("%s (one-time)", service.Kind),
				Qty:              decimal.NewFromInt(1),
				UnitPriceExclGst: &amount,
			})
		}
	}

	if len(lineItems) == 0 {
		return nil, utils.NewBusinessRuleError(utils.CodeNoActiveServicesInMonth,
			fmt.Sprintf("client %d has no services active in %04d-%02d", clientId, year, month))
	}

	issueDate := time.Now()
	return CreateInvoice(ctx, logger, &models.NewInvoice{
		ClientId:    clientId,
		IssueDate:   &issueDate,
		PeriodStart: &monthStart,
		PeriodEnd:   &monthEnd,
		BillingType: models.BillingTypeMonthly,
		GstMode:     gstMode,
		GstRate:     gstRate,
		LineItems:   lineItems,
		Remarks:     fmt.Sprintf("Services for %s", monthStart.Format("January 2006")),
	})
}

// ConvertQuotationToInvoice turns an accepted quotation into a real invoice
// through the normal invoice workflow (ledger DEBIT, advance offset). The
// per-line discount is folded into the unit price since invoices do not
// carry discounts.
func ConvertQuotationToInvoice(ctx context.Context, logger *logrus.Logger, quotationId int) (*models.Invoice, error) {
	quotation, err := models.GetQuotation(ctx, quotationId)
	if err != nil {
		return nil, err
	}
	if quotation.Status != models.QuotationStatusAccepted {
		return nil, utils.NewBusinessRuleError(utils.CodeInvalidStatusChange,
			"only an ACCEPTED quotation can be converted to an invoice")
	}
	if quotation.ClientId == nil {
		return nil, utils.NewValidationError(utils.CodeClientNotFound,
			"quotation has no client to invoice")
	}

	lineItems := make([]models.NewInvoiceLineItem, 0, len(quotation.LineItems))
	for i := range quotation.LineItems {
		item := quotation.LineItems[i]
		line := models.NewInvoiceLineItem{
			Description: item.Description,
			Qty:         item.Qty,
		}
		if item.UnitPriceExclGst != nil {
			net := item.UnitPriceExclGst.Sub(item.Discount)
			line.UnitPriceExclGst = &net
		}
		if item.UnitPriceInclGst != nil {
			net := item.UnitPriceInclGst.Sub(item.Discount)
			line.UnitPriceInclGst = &net
		}
		lineItems = append(lineItems, line)
	}

	rate := quotation.GstRate
	return CreateInvoice(ctx, logger, &models.NewInvoice{
		ClientId:    *quotation.ClientId,
		GstMode:     quotation.GstMode,
		GstRate:     &rate,
		LineItems:   lineItems,
		ExtraAmount: quotation.ExtraAmount,
		Remarks:     fmt.Sprintf("Converted from quotation %s", quotation.QuoteNo),
	})
}
