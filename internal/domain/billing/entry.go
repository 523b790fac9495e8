package billing

import (
	"time"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the kind of financial event recorded against an invoice
type EntryType string

const (
	EntryTypePayment    EntryType = "PAYMENT"    // Money received from the student
	EntryTypeDiscount   EntryType = "DISCOUNT"   // Credit granted, reduces the amount owed
	EntryTypeRefund     EntryType = "REFUND"     // Money returned to the student
	EntryTypeAdjustment EntryType = "ADJUSTMENT" // Signed correction (compensating entry)
)

// IsValid checks if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypePayment, EntryTypeDiscount, EntryTypeRefund, EntryTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
	PaymentMethodCard         PaymentMethod = "CARD"
)

// IsValid checks if the payment method is valid (empty is allowed for
// non-payment entries)
func (m PaymentMethod) IsValid() bool {
	switch m {
	case "", PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodMobileMoney, PaymentMethodCard:
		return true
	}
	return false
}

// InvoiceEntry is one immutable row of the invoice ledger. Entries are
// append-only: corrections are recorded as new compensating entries, never
// edits. Soft delete marks logical removal while preserving the audit trail.
//
// Sign convention: amounts for PAYMENT, DISCOUNT and REFUND are always stored
// positive; the entry type carries the direction. ADJUSTMENT amounts are
// signed and must be non-zero.
type InvoiceEntry struct {
	shared.BaseEntity
	InvoiceID     uuid.UUID
	InstallmentID *uuid.UUID // Optional: the installment this entry targets
	Type          EntryType
	Amount        decimal.Decimal
	Method        PaymentMethod
	PaidAt        time.Time
	Notes         string
	RecordedBy    *uuid.UUID
	DeletedAt     *time.Time
}

// NewInvoiceEntry creates a new ledger entry after validating the amount
// against the sign convention for its type
func NewInvoiceEntry(invoiceID uuid.UUID, entryType EntryType, amount decimal.Decimal) (*InvoiceEntry, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Entry type is not valid")
	}
	switch entryType {
	case EntryTypeAdjustment:
		if amount.IsZero() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount must be non-zero")
		}
	default:
		if !amount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
		}
	}

	return &InvoiceEntry{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		Type:       entryType,
		Amount:     amount,
		PaidAt:     time.Now(),
	}, nil
}

// WithInstallment targets the entry at a specific installment
func (e *InvoiceEntry) WithInstallment(installmentID uuid.UUID) *InvoiceEntry {
	e.InstallmentID = &installmentID
	return e
}

// WithMethod sets the payment method
func (e *InvoiceEntry) WithMethod(method PaymentMethod) *InvoiceEntry {
	e.Method = method
	return e
}

// WithNotes sets the free-form notes
func (e *InvoiceEntry) WithNotes(notes string) *InvoiceEntry {
	e.Notes = notes
	return e
}

// WithRecordedBy sets the acting user for the audit trail
func (e *InvoiceEntry) WithRecordedBy(userID uuid.UUID) *InvoiceEntry {
	e.RecordedBy = &userID
	return e
}

// WithPaidAt overrides the effective time of the entry (e.g. backdated
// cash payments)
func (e *InvoiceEntry) WithPaidAt(t time.Time) *InvoiceEntry {
	e.PaidAt = t
	return e
}

// SettlementDelta returns the signed contribution of this entry towards
// settling the invoice total. Payments and discounts settle, refunds
// unsettle, adjustments carry their own sign.
func (e *InvoiceEntry) SettlementDelta() decimal.Decimal {
	switch e.Type {
	case EntryTypePayment, EntryTypeDiscount:
		return e.Amount
	case EntryTypeRefund:
		return e.Amount.Neg()
	case EntryTypeAdjustment:
		return e.Amount
	}
	return decimal.Zero
}

// CashDelta returns the signed contribution of this entry to net cash
// received. Only payments and refunds move cash.
func (e *InvoiceEntry) CashDelta() decimal.Decimal {
	switch e.Type {
	case EntryTypePayment:
		return e.Amount
	case EntryTypeRefund:
		return e.Amount.Neg()
	}
	return decimal.Zero
}

// IsDeleted returns true if the entry has been soft-deleted
func (e *InvoiceEntry) IsDeleted() bool {
	return e.DeletedAt != nil
}
