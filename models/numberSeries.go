package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DocumentCounter is one atomic sequence per document-number key. Every
// human-readable number (invoice, receipt, quote, salary slip) comes from
// here; nothing scans the last created document to derive the next number,
// which would race under concurrent creation.
type DocumentCounter struct {
	CounterKey string `gorm:"primaryKey;size:40;column:counter_key" json:"counter_key"`
	Seq        int64  `gorm:"not null;default:0" json:"seq"`
}

// nextSequence bumps and returns the counter for key. The upsert takes a
// row lock held until the surrounding transaction commits, so the follow-up
// read cannot observe another transaction's bump.
func nextSequence(tx *gorm.DB, key string) (int64, error) {
	err := tx.Exec(
		"INSERT INTO document_counters (counter_key, seq) VALUES (?, 1) ON DUPLICATE KEY UPDATE seq = seq + 1",
		key,
	).Error
	if err != nil {
		return 0, err
	}
	var seq int64
	err = tx.Raw("SELECT seq FROM document_counters WHERE counter_key = ?", key).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// NextInvoiceNumber yields INV-YYYYMM-0001 style numbers, counter scoped
// per calendar month.
func NextInvoiceNumber(tx *gorm.DB, at time.Time) (string, error) {
	key := fmt.Sprintf("INV-%s", at.Format("200601"))
	seq, err := nextSequence(tx, key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", key, seq), nil
}

// NextReceiptNumber yields PAY-000001 style numbers, one global counter.
func NextReceiptNumber(tx *gorm.DB) (string, error) {
	seq, err := nextSequence(tx, "PAY")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%06d", seq), nil
}

// NextQuoteNumber yields QTN-0001 style numbers, one global counter.
func NextQuoteNumber(tx *gorm.DB) (string, error) {
	seq, err := nextSequence(tx, "QTN")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("QTN-%04d", seq), nil
}

// NextSalarySlipNumber yields SAL-2025-03-0001 style numbers, counter
// scoped per payroll period.
func NextSalarySlipNumber(tx *gorm.DB, month int, year int) (string, error) {
	key := fmt.Sprintf("SAL-%04d-%02d", year, month)
	seq, err := nextSequence(tx, key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", key, seq), nil
}
