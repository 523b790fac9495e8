package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
)

// InvoiceService provides application-level invoice and ledger operations
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo billing.InvoiceRepository) *InvoiceService {
	return &InvoiceService{invoiceRepo: invoiceRepo}
}

// invoiceNumberAttempts bounds regeneration when a concurrent creation
// claims the same generated number first.
const invoiceNumberAttempts = 3

func isDuplicateNumber(err error) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de.Code == "DUPLICATE_INVOICE_NUMBER"
}

// CreateInvoice creates an invoice with its payment plan for an existing
// enrollment. The installment schedule is derived from the plan and
// persisted atomically with the invoice header.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actorID uuid.UUID) (*InvoiceFullResponse, error) {
	existing, err := s.invoiceRepo.FindByEnrollment(ctx, req.EnrollmentID)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Enrollment already has an invoice")
	}

	plan, err := planFromRequest(req.PlanType, req.InstallmentCount, req.FirstDueDate)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = valueobject.IDR
	}
	total, err := valueobject.NewMoney(req.TotalAmount, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}

	var invoice *billing.Invoice
	for attempt := 1; ; attempt++ {
		number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}

		invoice, err = billing.NewInvoice(req.EnrollmentID, number, total, plan)
		if err != nil {
			return nil, err
		}
		invoice.Notes = req.Notes

		err = s.invoiceRepo.Save(ctx, invoice)
		if err == nil {
			break
		}
		if isDuplicateNumber(err) && attempt < invoiceNumberAttempts {
			continue
		}
		return nil, err
	}

	return toInvoiceFullResponse(invoice, time.Now()), nil
}

// AddEntry appends one ledger entry to an invoice. The mutation runs inside
// a repository transaction holding a row lock on the invoice, so concurrent
// entries serialize and derived aggregates stay consistent.
func (s *InvoiceService) AddEntry(ctx context.Context, invoiceID uuid.UUID, req AddEntryRequest, actorID uuid.UUID) (*InvoiceFullResponse, error) {
	invoice, err := s.invoiceRepo.RecordEntry(ctx, invoiceID, func(inv *billing.Invoice) error {
		entry, err := billing.NewInvoiceEntry(inv.ID, billing.EntryType(req.Type), req.Amount)
		if err != nil {
			return err
		}
		if req.InstallmentID != nil {
			entry.WithInstallment(*req.InstallmentID)
		}
		if req.Method != "" {
			method := billing.PaymentMethod(req.Method)
			if !method.IsValid() {
				return shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
			}
			entry.WithMethod(method)
		}
		if req.PaidAt != nil {
			entry.WithPaidAt(*req.PaidAt)
		}
		if req.Notes != "" {
			entry.WithNotes(req.Notes)
		}
		if actorID != uuid.Nil {
			entry.WithRecordedBy(actorID)
		}
		return inv.AppendEntry(entry)
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceFullResponse(invoice, time.Now()), nil
}

// GetInvoice loads the full aggregate: header, installment schedule with
// read-time statuses, and the active ledger entries.
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceFullResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceFullResponse(invoice, time.Now()), nil
}

// GetInvoiceByNumber loads the full aggregate by invoice number
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*InvoiceFullResponse, error) {
	invoice, err := s.invoiceRepo.FindByInvoiceNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return toInvoiceFullResponse(invoice, time.Now()), nil
}

// ListInvoices lists invoice headers with filtering and pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := billing.InvoiceFilter{
		EnrollmentID:   filter.EnrollmentID,
		FromDate:       filter.FromDate,
		ToDate:         filter.ToDate,
		DueFrom:        filter.DueFrom,
		DueTo:          filter.DueTo,
		Overdue:        filter.Overdue,
		IncludeDeleted: filter.IncludeDeleted,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Invoice status is not valid")
		}
		domainFilter.Status = &status
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = *toInvoiceResponse(&invoices[i], now)
	}

	return responses, total, nil
}

// CancelInvoice cancels an invoice that has no settlement activity
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, time.Now()), nil
}

// DeleteInvoice soft-deletes an invoice. Deleting an already deleted
// invoice succeeds without effect.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	return s.invoiceRepo.SoftDelete(ctx, id)
}

// RestoreInvoice clears the soft-delete mark. Restoring an active invoice
// succeeds without effect.
func (s *InvoiceService) RestoreInvoice(ctx context.Context, id uuid.UUID) error {
	return s.invoiceRepo.Restore(ctx, id)
}

func planFromRequest(planType string, installmentCount int, firstDueDate time.Time) (billing.PaymentPlan, error) {
	switch billing.PlanType(planType) {
	case billing.PlanTypeFull:
		return billing.FullPaymentPlan(firstDueDate), nil
	case billing.PlanTypeInstallments:
		return billing.InstallmentPlan(installmentCount, firstDueDate), nil
	default:
		return billing.PaymentPlan{}, shared.NewDomainError("INVALID_PLAN", "Plan type is not valid")
	}
}
