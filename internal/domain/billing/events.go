package billing

import (
	"time"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceCreatedEvent is raised when a new invoice is created
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	EnrollmentID     uuid.UUID       `json:"enrollment_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	InstallmentCount int             `json:"installment_count"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
}

// EventType returns the event type name
func (e *InvoiceCreatedEvent) EventType() string {
	return "InvoiceCreated"
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("InvoiceCreated", "Invoice", inv.ID),
		InvoiceID:        inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		EnrollmentID:     inv.EnrollmentID,
		TotalAmount:      inv.TotalAmount,
		InstallmentCount: len(inv.Installments),
		DueDate:          inv.DueDate,
	}
}

// EntryRecordedEvent is raised for every ledger entry appended to an invoice
type EntryRecordedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	EntryID       uuid.UUID       `json:"entry_id"`
	Type          EntryType       `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	InstallmentID *uuid.UUID      `json:"installment_id,omitempty"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
}

// EventType returns the event type name
func (e *EntryRecordedEvent) EventType() string {
	return "InvoiceEntryRecorded"
}

// NewEntryRecordedEvent creates a new EntryRecordedEvent
func NewEntryRecordedEvent(inv *Invoice, entry *InvoiceEntry) *EntryRecordedEvent {
	return &EntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceEntryRecorded", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		EntryID:         entry.ID,
		Type:            entry.Type,
		Amount:          entry.Amount,
		InstallmentID:   entry.InstallmentID,
		SettledAmount:   inv.SettledAmount,
	}
}

// InvoicePaidEvent is raised when an invoice becomes fully settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	EnrollmentID  uuid.UUID       `json:"enrollment_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaidAt        time.Time       `json:"paid_at"`
}

// EventType returns the event type name
func (e *InvoicePaidEvent) EventType() string {
	return "InvoicePaid"
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(inv *Invoice) *InvoicePaidEvent {
	paidAt := time.Now()
	if inv.PaidAt != nil {
		paidAt = *inv.PaidAt
	}
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePaid", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		EnrollmentID:    inv.EnrollmentID,
		TotalAmount:     inv.TotalAmount,
		PaidAmount:      inv.PaidAmount,
		PaidAt:          paidAt,
	}
}

// InvoicePartiallyPaidEvent is raised when an invoice moves into the
// partially paid state
type InvoicePartiallyPaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	EntryAmount   decimal.Decimal `json:"entry_amount"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// EventType returns the event type name
func (e *InvoicePartiallyPaidEvent) EventType() string {
	return "InvoicePartiallyPaid"
}

// NewInvoicePartiallyPaidEvent creates a new InvoicePartiallyPaidEvent
func NewInvoicePartiallyPaidEvent(inv *Invoice, entry *InvoiceEntry) *InvoicePartiallyPaidEvent {
	return &InvoicePartiallyPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoicePartiallyPaid", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		EntryAmount:     entry.Amount,
		SettledAmount:   inv.SettledAmount,
		Outstanding:     inv.Outstanding(),
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	EnrollmentID  uuid.UUID `json:"enrollment_id"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *InvoiceCancelledEvent) EventType() string {
	return "InvoiceCancelled"
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(inv *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("InvoiceCancelled", "Invoice", inv.ID),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		EnrollmentID:    inv.EnrollmentID,
		Reason:          inv.CancelReason,
	}
}
