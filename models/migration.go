package models

import "gorm.io/gorm"

// Migrate creates or updates the full schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Client{},
		&ClientService{},
		&ClientCredential{},
		&ClientMeeting{},
		&MeetingActionItem{},
		&Staff{},
		&LedgerEntry{},
		&Invoice{},
		&InvoiceLineItem{},
		&Payment{},
		&Quotation{},
		&QuotationLineItem{},
		&SalaryPayment{},
		&Expense{},
		&DocumentCounter{},
	)
}
