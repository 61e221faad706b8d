package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InvoiceStatus represents the payment status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice is the persisted invoice row. Amount is stored in minor units (cents).
type Invoice struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer      `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
	Amount     int64          `gorm:"not null" json:"amount"`
	Status     InvoiceStatus  `gorm:"size:20;not null" json:"status"`
	Date       datatypes.Date `gorm:"not null" json:"date"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (i *Invoice) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsPaid returns true if the invoice has been paid.
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// DateString formats the invoice date as an ISO calendar date.
func (i *Invoice) DateString() string {
	return time.Time(i.Date).Format(DateLayout)
}

// AmountMajor returns the amount in major units for display.
func (i *Invoice) AmountMajor() float64 {
	return float64(i.Amount) / 100
}

// DateLayout is the ISO calendar date layout used for invoice dates.
const DateLayout = "2006-01-02"

// Today returns the current date truncated to midnight UTC.
func Today(now time.Time) datatypes.Date {
	y, m, d := now.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
