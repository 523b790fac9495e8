package billing

import (
	"fmt"
	"sort"
	"time"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a course invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"          // Created but not issued
	InvoiceStatusPending       InvoiceStatus = "PENDING"        // Issued, nothing settled yet
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // 0 < settled < total
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // Fully settled
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"      // Cancelled before any settlement
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPending, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanAcceptEntries returns true if ledger entries may be recorded in this
// status. Paid invoices still accept entries so refunds and compensating
// adjustments remain possible.
func (s InvoiceStatus) CanAcceptEntries() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// Invoice is the billing aggregate for one course enrollment. It owns its
// installment schedule and its append-only entry ledger.
//
// PaidAmount (net cash) and SettledAmount (what drives status) are always
// recomputed from the full entry list inside Recalculate; they are never
// incrementally cached, so a partial or stale entry set can never leak into
// the aggregates.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	EnrollmentID  uuid.UUID
	Currency      valueobject.Currency
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal // Derived: sum(payments) - sum(refunds)
	SettledAmount decimal.Decimal // Derived: payments - refunds + discounts + adjustments
	Status        InvoiceStatus
	DueDate       *time.Time
	Notes         string
	Installments  []Installment
	Entries       []InvoiceEntry
	IssuedAt      *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
	CancelReason  string
	DeletedAt     *time.Time
}

// NewInvoice creates an issued invoice for an enrollment, building the
// installment schedule from the payment plan. Installment due amounts
// partition the total exactly; the rounding remainder goes to the first
// installment.
func NewInvoice(
	enrollmentID uuid.UUID,
	invoiceNumber string,
	total valueobject.Money,
	plan PaymentPlan,
) (*Invoice, error) {
	if enrollmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENROLLMENT", "Enrollment ID cannot be empty")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice total must be positive")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		EnrollmentID:      enrollmentID,
		Currency:          total.Currency(),
		TotalAmount:       total.Amount(),
		PaidAmount:        decimal.Zero,
		SettledAmount:     decimal.Zero,
		Status:            InvoiceStatusPending,
		Installments:      []Installment{},
		Entries:           []InvoiceEntry{},
		IssuedAt:          &now,
	}

	if plan.Type == PlanTypeInstallments {
		parts, err := total.Split(plan.InstallmentCount)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PLAN", err.Error())
		}
		inv.Installments = make([]Installment, len(parts))
		for i, part := range parts {
			inv.Installments[i] = Installment{
				BaseEntity: shared.NewBaseEntity(),
				InvoiceID:  inv.ID,
				Sequence:   i + 1,
				DueAmount:  part.Amount(),
				PaidAmount: decimal.Zero,
				DueDate:    plan.DueDateFor(i),
			}
		}
		lastDue := plan.DueDateFor(len(parts) - 1)
		inv.DueDate = &lastDue
	} else {
		due := plan.FirstDueDate
		inv.DueDate = &due
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// AppendEntry validates and appends one ledger entry, then recomputes all
// derived aggregates from the authoritative entry list
func (inv *Invoice) AppendEntry(entry *InvoiceEntry) error {
	if inv.IsDeleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot record entries on a deleted invoice")
	}
	if !inv.Status.CanAcceptEntries() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record entries on invoice in %s status", inv.Status))
	}
	if entry.InvoiceID != inv.ID {
		return shared.NewDomainError("INVALID_INVOICE", "Entry does not belong to this invoice")
	}
	if entry.InstallmentID != nil {
		if _, ok := inv.FindInstallment(*entry.InstallmentID); !ok {
			return shared.NewDomainError("INSTALLMENT_NOT_FOUND", "Targeted installment does not belong to this invoice")
		}
	}

	delta := entry.SettlementDelta()
	newSettled := inv.SettledAmount.Add(delta)
	if delta.IsPositive() && newSettled.GreaterThan(inv.TotalAmount) {
		return shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Entry would settle %s against a total of %s", newSettled, inv.TotalAmount))
	}
	if newSettled.IsNegative() {
		return shared.NewDomainError("EXCEEDS_SETTLED", "Entry would drive the settled amount negative")
	}
	if entry.Type == EntryTypeRefund && entry.Amount.GreaterThan(inv.PaidAmount) {
		return shared.NewDomainError("EXCEEDS_PAID",
			fmt.Sprintf("Refund %s exceeds net paid amount %s", entry.Amount, inv.PaidAmount))
	}

	previousStatus := inv.Status
	inv.Entries = append(inv.Entries, *entry)
	inv.Recalculate(time.Now())

	inv.AddDomainEvent(NewEntryRecordedEvent(inv, entry))
	if inv.Status != previousStatus {
		switch inv.Status {
		case InvoiceStatusPaid:
			inv.AddDomainEvent(NewInvoicePaidEvent(inv))
		case InvoiceStatusPartiallyPaid:
			inv.AddDomainEvent(NewInvoicePartiallyPaidEvent(inv, entry))
		}
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// Recalculate rederives PaidAmount, SettledAmount, installment funding and
// invoice status from the full entry list. It must be called after any
// change to the entry set and is safe to call repeatedly.
func (inv *Invoice) Recalculate(now time.Time) {
	paid := decimal.Zero
	settled := decimal.Zero

	entries := inv.activeEntriesChronological()
	for i := range entries {
		paid = paid.Add(entries[i].CashDelta())
		settled = settled.Add(entries[i].SettlementDelta())
	}

	inv.PaidAmount = paid
	inv.SettledAmount = settled
	inv.reallocateInstallments(entries)
	inv.deriveStatus(now)
}

// reallocateInstallments rebuilds installment funding from scratch by
// replaying settlement deltas in chronological order. Positive deltas fill
// the targeted installment first and spill over to remaining unfunded
// installments in sequence order; negative deltas unwind funding from the
// highest funded sequence down.
func (inv *Invoice) reallocateInstallments(entries []InvoiceEntry) {
	if len(inv.Installments) == 0 {
		return
	}

	sort.Slice(inv.Installments, func(a, b int) bool {
		return inv.Installments[a].Sequence < inv.Installments[b].Sequence
	})
	for i := range inv.Installments {
		inv.Installments[i].PaidAmount = decimal.Zero
		inv.Installments[i].PaidAt = nil
	}

	for idx := range entries {
		entry := &entries[idx]
		delta := entry.SettlementDelta()
		switch {
		case delta.IsPositive():
			inv.allocate(delta, entry.InstallmentID, entry.PaidAt)
		case delta.IsNegative():
			inv.deallocate(delta.Neg())
		}
	}
}

// allocate credits amount to installments: the targeted installment first,
// then remaining capacity in sequence order. Excess never silently vanishes.
func (inv *Invoice) allocate(amount decimal.Decimal, targetID *uuid.UUID, at time.Time) {
	fill := func(i *Installment, remaining decimal.Decimal) decimal.Decimal {
		capacity := i.Remaining()
		if !capacity.IsPositive() || !remaining.IsPositive() {
			return remaining
		}
		credited := decimal.Min(capacity, remaining)
		i.PaidAmount = i.PaidAmount.Add(credited)
		if i.IsFunded() && i.PaidAt == nil {
			paidAt := at
			i.PaidAt = &paidAt
		}
		return remaining.Sub(credited)
	}

	remaining := amount
	if targetID != nil {
		for i := range inv.Installments {
			if inv.Installments[i].ID == *targetID {
				remaining = fill(&inv.Installments[i], remaining)
				break
			}
		}
	}
	for i := range inv.Installments {
		if !remaining.IsPositive() {
			break
		}
		remaining = fill(&inv.Installments[i], remaining)
	}
}

// deallocate unwinds amount of funding starting from the highest funded
// sequence (refunds release the most recent obligations first)
func (inv *Invoice) deallocate(amount decimal.Decimal) {
	remaining := amount
	for i := len(inv.Installments) - 1; i >= 0 && remaining.IsPositive(); i-- {
		inst := &inv.Installments[i]
		if !inst.PaidAmount.IsPositive() {
			continue
		}
		released := decimal.Min(inst.PaidAmount, remaining)
		inst.PaidAmount = inst.PaidAmount.Sub(released)
		if !inst.IsFunded() {
			inst.PaidAt = nil
		}
		remaining = remaining.Sub(released)
	}
}

// deriveStatus maps the recomputed settlement onto the invoice status
func (inv *Invoice) deriveStatus(now time.Time) {
	switch {
	case inv.CancelledAt != nil:
		inv.Status = InvoiceStatusCancelled
	case inv.IssuedAt == nil:
		inv.Status = InvoiceStatusDraft
	case inv.SettledAmount.GreaterThanOrEqual(inv.TotalAmount) && inv.TotalAmount.IsPositive():
		inv.Status = InvoiceStatusPaid
		if inv.PaidAt == nil {
			paidAt := now
			inv.PaidAt = &paidAt
		}
	case inv.SettledAmount.IsPositive():
		inv.Status = InvoiceStatusPartiallyPaid
		inv.PaidAt = nil
	default:
		inv.Status = InvoiceStatusPending
		inv.PaidAt = nil
	}
}

// Cancel cancels the invoice. Only invoices with no recorded settlement can
// be cancelled; settled invoices are corrected with compensating entries.
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	if inv.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a fully paid invoice")
	}
	if inv.SettledAmount.IsPositive() {
		return shared.NewDomainError("HAS_SETTLEMENT", "Cannot cancel an invoice with recorded entries")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// SoftDelete marks the invoice logically removed. Deleting an already
// deleted invoice is a no-op.
func (inv *Invoice) SoftDelete() {
	if inv.DeletedAt != nil {
		return
	}
	now := time.Now()
	inv.DeletedAt = &now
	inv.UpdatedAt = now
	inv.IncrementVersion()
}

// Restore clears the soft-delete mark. Restoring an active invoice is a
// no-op.
func (inv *Invoice) Restore() {
	if inv.DeletedAt == nil {
		return
	}
	now := time.Now()
	inv.DeletedAt = nil
	inv.UpdatedAt = now
	inv.IncrementVersion()
}

// IsDeleted returns true if the invoice has been soft-deleted
func (inv *Invoice) IsDeleted() bool {
	return inv.DeletedAt != nil
}

// Outstanding returns the unsettled portion of the total, never negative
func (inv *Invoice) Outstanding() decimal.Decimal {
	o := inv.TotalAmount.Sub(inv.SettledAmount)
	if o.IsNegative() {
		return decimal.Zero
	}
	return o
}

// FindInstallment returns the installment with the given ID, if it belongs
// to this invoice
func (inv *Invoice) FindInstallment(id uuid.UUID) (*Installment, bool) {
	for i := range inv.Installments {
		if inv.Installments[i].ID == id {
			return &inv.Installments[i], true
		}
	}
	return nil, false
}

// IsOverdueAt returns true if any obligation is past due and unsettled
func (inv *Invoice) IsOverdueAt(now time.Time) bool {
	if inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled {
		return false
	}
	for i := range inv.Installments {
		if inv.Installments[i].IsOverdueAt(now) {
			return true
		}
	}
	if len(inv.Installments) == 0 && inv.DueDate != nil {
		return now.After(*inv.DueDate)
	}
	return false
}

// ActiveEntries returns all non-deleted entries, newest first
func (inv *Invoice) ActiveEntries() []InvoiceEntry {
	entries := inv.activeEntriesChronological()
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].PaidAt.After(entries[b].PaidAt)
	})
	return entries
}

// activeEntriesChronological returns non-deleted entries ordered oldest
// first, with creation time as the tiebreak so replay is deterministic
func (inv *Invoice) activeEntriesChronological() []InvoiceEntry {
	entries := make([]InvoiceEntry, 0, len(inv.Entries))
	for i := range inv.Entries {
		if !inv.Entries[i].IsDeleted() {
			entries = append(entries, inv.Entries[i])
		}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].PaidAt.Equal(entries[b].PaidAt) {
			return entries[a].CreatedAt.Before(entries[b].CreatedAt)
		}
		return entries[a].PaidAt.Before(entries[b].PaidAt)
	})
	return entries
}

// TotalAmountMoney returns the total as Money
func (inv *Invoice) TotalAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.TotalAmount, inv.Currency)
	return m
}

// OutstandingMoney returns the outstanding balance as Money
func (inv *Invoice) OutstandingMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.Outstanding(), inv.Currency)
	return m
}
