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

// PaymentResult reports what happened to a recorded payment: how much was
// applied to the targeted invoice and whether the money ended up (partly or
// fully) as an advance on the client's account.
type PaymentResult struct {
	Payment      *models.Payment `json:"payment"`
	IsAdvance    bool            `json:"is_advance"`
	Applied      decimal.Decimal `json:"applied"`
	PendingAfter decimal.Decimal `json:"pending_after"`
}

// RecordPayment posts exactly one CREDIT ledger entry for the full amount,
// regardless of whether an invoice is targeted. Invoice bookkeeping
// (paid/pending/status) is separate from the ledger; applying to an invoice
// never posts a second entry. A payment whose invoice is missing or already
// settled simply stays on the account as an advance.
func RecordPayment(ctx context.Context, logger *logrus.Logger, input *models.NewPayment) (*PaymentResult, error) {
	if err := utils.ValidateInput(input); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, utils.NewValidationError(utils.CodeAmountRequired, "payment amount must be positive")
	}

	if _, err := models.GetClient(ctx, input.ClientId); err != nil {
		return nil, err
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	mode := input.Mode
	if mode == "" {
		mode = models.PaymentModeOther
	}

	payment := models.Payment{
		ClientId:       input.ClientId,
		InvoiceId:      input.InvoiceId,
		Date:           date,
		Amount:         input.Amount.Round(2),
		Mode:           mode,
		SlipRef:        input.SlipRef,
		Notes:          input.Notes,
		AttachmentPath: input.AttachmentPath,
	}
	result := PaymentResult{Applied: decimal.Zero, PendingAfter: decimal.Zero}

	err := withAccountPosting(ctx, models.AccountKindClient, input.ClientId, func(tx *gorm.DB) error {
		receiptNo, err := models.NextReceiptNumber(tx)
		if err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordPayment", "NextReceiptNumber", input.ClientId, err)
			return err
		}
		payment.ReceiptNo = receiptNo

		if err := tx.Create(&payment).Error; err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordPayment", "CreatePayment", payment.ReceiptNo, err)
			return err
		}

		_, err = AppendLedgerEntry(tx, models.AccountKindClient, input.ClientId,
			models.LedgerEntryTypeCredit, payment.Amount,
			models.LedgerRefTypePayment, &payment.ID,
			fmt.Sprintf("Payment %s", payment.ReceiptNo), date)
		if err != nil {
			config.LogError(logger, "paymentWorkflow.go", "RecordPayment", "AppendCredit", payment.ReceiptNo, err)
			return err
		}

		matched := false
		if input.InvoiceId != nil {
			invoice, err := models.GetInvoiceTx(tx, *input.InvoiceId)
			if err != nil {
				if utils.KindOf(err) != utils.ErrorKindNotFound {
					return err
				}
				// Missing invoice: the money stays as an advance.
			} else if invoice.ClientId != input.ClientId {
				return utils.NewValidationError(utils.CodeInvoiceNotFound, "invoice does not belong to this client")
			} else {
				applied := invoice.ApplyPaymentAmount(payment.Amount)
				if applied.IsPositive() {
					err = tx.Model(invoice).Updates(map[string]interface{}{
						"paid_amount":    invoice.PaidAmount,
						"pending_amount": invoice.PendingAmount,
						"status":         invoice.Status,
					}).Error
					if err != nil {
						config.LogError(logger, "paymentWorkflow.go", "RecordPayment", "ApplyToInvoice", invoice.InvoiceNo, err)
						return err
					}
					matched = true
				}
				result.Applied = applied
				result.PendingAfter = invoice.PendingAmount
			}
		}
		result.IsAdvance = !matched
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Payment = &payment
	return &result, nil
}
