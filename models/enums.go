package models

// AccountKind selects which running ledger an entry belongs to.
//
// The DEBIT/CREDIT arithmetic is identical for both kinds (DEBIT adds,
// CREDIT subtracts) but the sign means opposite things in the real world:
//
//   - CLIENT: positive balance = client owes the business (receivable);
//     negative = the business holds the client's money (advance/credit).
//   - STAFF: positive balance = money the business has paid out to staff
//     (advances given, salary dues settled); CREDIT entries are recoveries
//     that pull the balance back down.
//
// Both read as "net outflow from the business toward the account holder",
// which is why the same mapping is financially correct on both sides.
type AccountKind string

const (
	AccountKindClient AccountKind = "CLIENT"
	AccountKindStaff  AccountKind = "STAFF"
)

type LedgerEntryType string

const (
	LedgerEntryTypeDebit  LedgerEntryType = "DEBIT"
	LedgerEntryTypeCredit LedgerEntryType = "CREDIT"
)

// LedgerRefType tags what produced a ledger entry. INVOICE / PAYMENT /
// OPENING / ADJUSTMENT appear on client accounts; ADVANCE / SALARY /
// RECOVERY / OTHER on staff accounts.
type LedgerRefType string

const (
	LedgerRefTypeInvoice    LedgerRefType = "INVOICE"
	LedgerRefTypePayment    LedgerRefType = "PAYMENT"
	LedgerRefTypeOpening    LedgerRefType = "OPENING"
	LedgerRefTypeAdjustment LedgerRefType = "ADJUSTMENT"
	LedgerRefTypeAdvance    LedgerRefType = "ADVANCE"
	LedgerRefTypeSalary     LedgerRefType = "SALARY"
	LedgerRefTypeRecovery   LedgerRefType = "RECOVERY"
	LedgerRefTypeOther      LedgerRefType = "OTHER"
)

type InvoiceStatus string

const (
	InvoiceStatusDue           InvoiceStatus = "DUE"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
)

type BillingType string

const (
	BillingTypeOneTime BillingType = "ONE_TIME"
	BillingTypeMonthly BillingType = "MONTHLY"
)

type ServiceKind string

const (
	ServiceKindHosting          ServiceKind = "HOSTING"
	ServiceKindDigitalMarketing ServiceKind = "DIGITAL_MARKETING"
	ServiceKindOther            ServiceKind = "OTHER"
)

type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeUpi    PaymentMode = "UPI"
	PaymentModeNeft   PaymentMode = "NEFT"
	PaymentModeImps   PaymentMode = "IMPS"
	PaymentModeRtgs   PaymentMode = "RTGS"
	PaymentModeCard   PaymentMode = "CARD"
	PaymentModeCheque PaymentMode = "CHEQUE"
	PaymentModeOther  PaymentMode = "OTHER"
)

// SalaryPayMode is how a salary run was paid out.
type SalaryPayMode string

const (
	SalaryPayModeCash  SalaryPayMode = "CASH"
	SalaryPayModeBank  SalaryPayMode = "BANK"
	SalaryPayModeUpi   SalaryPayMode = "UPI"
	SalaryPayModeOther SalaryPayMode = "OTHER"
)

type ExpenseMode string

const (
	ExpenseModeCash  ExpenseMode = "CASH"
	ExpenseModeBank  ExpenseMode = "BANK"
	ExpenseModeUpi   ExpenseMode = "UPI"
	ExpenseModeCard  ExpenseMode = "CARD"
	ExpenseModeOther ExpenseMode = "OTHER"
)

// CredentialEnvironment is which deployment a stored credential unlocks.
type CredentialEnvironment string

const (
	CredentialEnvironmentProd    CredentialEnvironment = "PROD"
	CredentialEnvironmentStaging CredentialEnvironment = "STAGING"
	CredentialEnvironmentDev     CredentialEnvironment = "DEV"
	CredentialEnvironmentOther   CredentialEnvironment = "OTHER"
)

type ActionItemStatus string

const (
	ActionItemStatusOpen       ActionItemStatus = "OPEN"
	ActionItemStatusInProgress ActionItemStatus = "IN_PROGRESS"
	ActionItemStatusDone       ActionItemStatus = "DONE"
	ActionItemStatusBlocked    ActionItemStatus = "BLOCKED"
)

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusAccepted QuotationStatus = "ACCEPTED"
	QuotationStatusRejected QuotationStatus = "REJECTED"
	QuotationStatusExpired  QuotationStatus = "EXPIRED"
)
