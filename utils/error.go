package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorKind classifies a failure so callers can map it to a response
// without parsing messages.
type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "VALIDATION"
	ErrorKindNotFound     ErrorKind = "NOT_FOUND"
	ErrorKindConflict     ErrorKind = "CONFLICT"
	ErrorKindBusinessRule ErrorKind = "BUSINESS_RULE"
	ErrorKindConcurrency  ErrorKind = "CONCURRENCY"
)

// Stable error codes surfaced to callers.
const (
	CodeClientNotFound          = "CLIENT_NOT_FOUND"
	CodeStaffNotFound           = "STAFF_NOT_FOUND"
	CodeInvoiceNotFound         = "INVOICE_NOT_FOUND"
	CodeQuotationNotFound       = "QUOTATION_NOT_FOUND"
	CodeAmountRequired          = "AMOUNT_REQUIRED"
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeInvalidLineAmount       = "INVALID_LINE_AMOUNT"
	CodeInvalidGstMode          = "INVALID_GST_MODE"
	CodeInvalidGstRate          = "INVALID_GST_RATE"
	CodeLedgerDateOutOfOrder    = "LEDGER_DATE_OUT_OF_ORDER"
	CodeCredentialNotFound      = "CREDENTIAL_NOT_FOUND"
	CodeMeetingNotFound         = "MEETING_NOT_FOUND"
	CodeActionItemNotFound      = "ACTION_ITEM_NOT_FOUND"
	CodeLineItemsRequired       = "LINE_ITEMS_REQUIRED"
	CodeMonthYearRequired       = "MONTH_YEAR_REQUIRED"
	CodeAlreadyPaidForMonth     = "ALREADY_PAID_FOR_MONTH"
	CodeNetPayNegative          = "NET_PAY_NEGATIVE"
	CodeNoActiveServicesInMonth = "NO_ACTIVE_SERVICES_IN_MONTH"
	CodeInvalidStatusChange     = "INVALID_STATUS_CHANGE"
	CodeLedgerConflict          = "LEDGER_CONFLICT"
)

// AppError carries the kind, a stable code and a human-readable message.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func NewValidationError(code string, message string) error {
	return &AppError{Kind: ErrorKindValidation, Code: code, Message: message}
}

func NewNotFoundError(code string, message string) error {
	return &AppError{Kind: ErrorKindNotFound, Code: code, Message: message}
}

func NewConflictError(code string, message string) error {
	return &AppError{Kind: ErrorKindConflict, Code: code, Message: message}
}

func NewBusinessRuleError(code string, message string) error {
	return &AppError{Kind: ErrorKindBusinessRule, Code: code, Message: message}
}

// NewConcurrencyError marks a retryable serialization failure, e.g. an
// account posting lock that could not be acquired in time.
func NewConcurrencyError(code string, message string) error {
	return &AppError{Kind: ErrorKindConcurrency, Code: code, Message: message}
}

// KindOf returns the classified kind, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// CodeOf returns the stable code, or "" for plain errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsRetryable reports whether the operation may be retried as-is.
func IsRetryable(err error) bool {
	return KindOf(err) == ErrorKindConcurrency
}

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
