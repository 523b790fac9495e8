package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduplatform/backend/internal/domain/billing"
)

// CreateInvoiceRequest creates a standalone invoice for an enrollment
type CreateInvoiceRequest struct {
	EnrollmentID     uuid.UUID       `json:"enrollment_id" binding:"required"`
	TotalAmount      decimal.Decimal `json:"total_amount" binding:"required"`
	Currency         string          `json:"currency"`
	PlanType         string          `json:"plan_type" binding:"required,oneof=FULL INSTALLMENTS"`
	InstallmentCount int             `json:"installment_count"`
	FirstDueDate     time.Time       `json:"first_due_date" binding:"required"`
	Notes            string          `json:"notes" binding:"max=1000"`
}

// AddEntryRequest records one ledger entry against an invoice
type AddEntryRequest struct {
	Type          string          `json:"type" binding:"required,oneof=PAYMENT DISCOUNT REFUND ADJUSTMENT"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	InstallmentID *uuid.UUID      `json:"installment_id"`
	Method        string          `json:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER MOBILE_MONEY CARD"`
	PaidAt        *time.Time      `json:"paid_at"`
	Notes         string          `json:"notes" binding:"max=1000"`
}

// CancelInvoiceRequest cancels an unsettled invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	Search         string     `form:"search"`
	EnrollmentID   *uuid.UUID `form:"enrollment_id"`
	Status         string     `form:"status"`
	FromDate       *time.Time `form:"from_date"`
	ToDate         *time.Time `form:"to_date"`
	DueFrom        *time.Time `form:"due_from"`
	DueTo          *time.Time `form:"due_to"`
	Overdue        *bool      `form:"overdue"`
	IncludeDeleted bool       `form:"include_deleted"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size"`
}

// InvoiceResponse represents an invoice header in API responses
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	EnrollmentID  uuid.UUID       `json:"enrollment_id"`
	Currency      string          `json:"currency"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	SettledAmount decimal.Decimal `json:"settled_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Status        string          `json:"status"`
	Overdue       bool            `json:"overdue"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	IssuedAt      *time.Time      `json:"issued_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// InvoiceFullResponse represents an invoice with its installment schedule
// and ledger entries
type InvoiceFullResponse struct {
	InvoiceResponse
	Installments []InstallmentResponse `json:"installments"`
	Entries      []EntryResponse       `json:"entries"`
}

// InstallmentResponse represents one installment in API responses. Status
// is computed at read time against the current clock.
type InstallmentResponse struct {
	ID         uuid.UUID       `json:"id"`
	Sequence   int             `json:"sequence"`
	DueAmount  decimal.Decimal `json:"due_amount"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Remaining  decimal.Decimal `json:"remaining"`
	Status     string          `json:"status"`
	DueDate    time.Time       `json:"due_date"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
}

// EntryResponse represents one ledger entry in API responses
type EntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	InstallmentID *uuid.UUID      `json:"installment_id,omitempty"`
	Method        string          `json:"method,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
	Notes         string          `json:"notes,omitempty"`
	RecordedBy    *uuid.UUID      `json:"recorded_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toInvoiceResponse(inv *billing.Invoice, now time.Time) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		EnrollmentID:  inv.EnrollmentID,
		Currency:      string(inv.Currency),
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		SettledAmount: inv.SettledAmount,
		Outstanding:   inv.Outstanding(),
		Status:        string(inv.Status),
		Overdue:       inv.IsOverdueAt(now),
		DueDate:       inv.DueDate,
		Notes:         inv.Notes,
		IssuedAt:      inv.IssuedAt,
		PaidAt:        inv.PaidAt,
		CancelledAt:   inv.CancelledAt,
		CancelReason:  inv.CancelReason,
		DeletedAt:     inv.DeletedAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

func toInvoiceFullResponse(inv *billing.Invoice, now time.Time) *InvoiceFullResponse {
	resp := &InvoiceFullResponse{
		InvoiceResponse: *toInvoiceResponse(inv, now),
		Installments:    make([]InstallmentResponse, len(inv.Installments)),
		Entries:         make([]EntryResponse, 0, len(inv.Entries)),
	}
	for i := range inv.Installments {
		resp.Installments[i] = toInstallmentResponse(&inv.Installments[i], now)
	}
	for _, entry := range inv.ActiveEntries() {
		resp.Entries = append(resp.Entries, toEntryResponse(&entry))
	}
	return resp
}

func toInstallmentResponse(inst *billing.Installment, now time.Time) InstallmentResponse {
	return InstallmentResponse{
		ID:         inst.ID,
		Sequence:   inst.Sequence,
		DueAmount:  inst.DueAmount,
		PaidAmount: inst.PaidAmount,
		Remaining:  inst.Remaining(),
		Status:     string(inst.StatusAt(now)),
		DueDate:    inst.DueDate,
		PaidAt:     inst.PaidAt,
	}
}

func toEntryResponse(entry *billing.InvoiceEntry) EntryResponse {
	return EntryResponse{
		ID:            entry.ID,
		Type:          string(entry.Type),
		Amount:        entry.Amount,
		InstallmentID: entry.InstallmentID,
		Method:        string(entry.Method),
		PaidAt:        entry.PaidAt,
		Notes:         entry.Notes,
		RecordedBy:    entry.RecordedBy,
		CreatedAt:     entry.CreatedAt,
	}
}
