package billing

import (
	"context"
	"time"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceFilter defines filtering options for invoice queries. Soft-deleted
// invoices are excluded unless IncludeDeleted is set.
type InvoiceFilter struct {
	shared.Filter
	EnrollmentID   *uuid.UUID       // Filter by enrollment
	Status         *InvoiceStatus   // Filter by status
	FromDate       *time.Time       // Filter by creation date range start
	ToDate         *time.Time       // Filter by creation date range end
	DueFrom        *time.Time       // Filter by due date range start
	DueTo          *time.Time       // Filter by due date range end
	Overdue        *bool            // Filter only overdue invoices
	MinOutstanding *decimal.Decimal // Filter by minimum outstanding amount
	IncludeDeleted bool             // Include soft-deleted invoices
}

// InvoiceRepository defines the interface for invoice persistence. The
// aggregate is always loaded and saved whole: installments and ledger
// entries travel with the invoice.
type InvoiceRepository interface {
	// FindByID loads the full aggregate (installments + entries) by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByInvoiceNumber loads the full aggregate by invoice number
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindByEnrollment loads the invoice belonging to an enrollment
	FindByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*Invoice, error)

	// FindAll lists invoices matching the filter (headers only, no entries)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)

	// Save persists the invoice together with its installments atomically
	Save(ctx context.Context, invoice *Invoice) error

	// RecordEntry runs mutate against the full aggregate inside one
	// transaction holding a row lock on the invoice, then persists the
	// invoice, its installments and the appended entries. Concurrent
	// entries against the same invoice serialize on the lock, so derived
	// aggregates are never computed from a partial entry set.
	RecordEntry(ctx context.Context, invoiceID uuid.UUID, mutate func(*Invoice) error) (*Invoice, error)

	// SoftDelete marks the invoice deleted; deleting an already deleted
	// invoice is a no-op success
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Restore clears the soft-delete mark; restoring an active invoice is
	// a no-op success
	Restore(ctx context.Context, id uuid.UUID) error

	// GenerateInvoiceNumber generates the next unique invoice number
	GenerateInvoiceNumber(ctx context.Context) (string, error)
}
