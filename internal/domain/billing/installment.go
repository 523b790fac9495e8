package billing

import (
	"time"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the status of a payment installment
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING" // Nothing paid yet
	InstallmentStatusPartial InstallmentStatus = "PARTIAL" // 0 < paid < due
	InstallmentStatusPaid    InstallmentStatus = "PAID"    // paid >= due
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE" // Due date passed and not fully paid
)

// IsValid checks if the status is a valid InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPartial, InstallmentStatusPaid, InstallmentStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// Installment is one scheduled partial-payment obligation under an invoice.
// PaidAmount is derived by Invoice.Recalculate from the authoritative entry
// list; it is never updated incrementally. Status is derived at read time so
// OVERDUE never goes stale under delayed writes.
type Installment struct {
	shared.BaseEntity
	InvoiceID  uuid.UUID
	Sequence   int
	DueAmount  decimal.Decimal
	PaidAmount decimal.Decimal
	DueDate    time.Time
	PaidAt     *time.Time
}

// StatusAt derives the installment status at the given time
func (i *Installment) StatusAt(now time.Time) InstallmentStatus {
	switch {
	case i.PaidAmount.GreaterThanOrEqual(i.DueAmount):
		return InstallmentStatusPaid
	case now.After(i.DueDate):
		return InstallmentStatusOverdue
	case i.PaidAmount.IsPositive():
		return InstallmentStatusPartial
	default:
		return InstallmentStatusPending
	}
}

// Remaining returns the unpaid portion of the installment, never negative
func (i *Installment) Remaining() decimal.Decimal {
	r := i.DueAmount.Sub(i.PaidAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// IsFunded returns true if the installment is fully paid
func (i *Installment) IsFunded() bool {
	return i.PaidAmount.GreaterThanOrEqual(i.DueAmount)
}

// IsOverdueAt returns true if the due date has passed and the installment
// is not fully paid
func (i *Installment) IsOverdueAt(now time.Time) bool {
	return i.StatusAt(now) == InstallmentStatusOverdue
}
