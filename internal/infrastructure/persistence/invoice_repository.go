package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/infrastructure/persistence/models"
)

// lockForUpdate adds a row lock to the query. SQLite has no FOR UPDATE
// syntax; its single-writer transaction lock covers the same guarantee.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// Postgres reports SQLSTATE 23505; the SQLite driver only exposes the
// message, so it is matched as text.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GormInvoiceRepository implements billing.InvoiceRepository using GORM.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository.
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads the full aggregate (installments + entries) by ID.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByInvoiceNumber loads the full aggregate by invoice number.
func (r *GormInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	return r.findOne(ctx, "invoice_number = ?", invoiceNumber)
}

// FindByEnrollment loads the invoice belonging to an enrollment.
func (r *GormInvoiceRepository) FindByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*billing.Invoice, error) {
	return r.findOne(ctx, "enrollment_id = ?", enrollmentID)
}

func (r *GormInvoiceRepository) findOne(ctx context.Context, query string, arg any) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at ASC, created_at ASC")
		}).
		First(&model, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists invoice headers matching the filter. Installments and
// entries are not loaded.
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter, true)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}

	invoices := make([]billing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// Count counts invoices matching the filter.
func (r *GormInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter, false)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the invoice together with its installments and entries in
// one transaction.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvoiceModel(tx, model)
	})
	if err != nil && isUniqueViolation(err) {
		// Concurrent creations can draw the same generated number; the
		// unique index catches the loser, and the caller regenerates.
		return shared.NewDomainError("DUPLICATE_INVOICE_NUMBER", "Invoice number already taken")
	}
	return err
}

// saveInvoiceModel upserts the invoice header and its children. Ledger
// entries are append-only so existing rows are never touched beyond the
// upsert of their own values.
func saveInvoiceModel(tx *gorm.DB, model *models.InvoiceModel) error {
	if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	if len(model.Installments) > 0 {
		if err := tx.Save(&model.Installments).Error; err != nil {
			return err
		}
	}
	if len(model.Entries) > 0 {
		if err := tx.Save(&model.Entries).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecordEntry loads the full aggregate under a row lock on the invoice,
// applies mutate, and persists the result in the same transaction.
// Concurrent entries against one invoice serialize on the lock, so derived
// amounts are never computed from a partial entry set.
func (r *GormInvoiceRepository) RecordEntry(ctx context.Context, invoiceID uuid.UUID, mutate func(*billing.Invoice) error) (*billing.Invoice, error) {
	var result *billing.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.InvoiceModel
		if err := lockForUpdate(tx).
			First(&model, "id = ?", invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := tx.Order("sequence ASC").
			Find(&model.Installments, "invoice_id = ?", invoiceID).Error; err != nil {
			return err
		}
		if err := tx.Order("paid_at ASC, created_at ASC").
			Find(&model.Entries, "invoice_id = ?", invoiceID).Error; err != nil {
			return err
		}

		invoice := model.ToDomain()
		if err := mutate(invoice); err != nil {
			return err
		}

		updated := models.InvoiceModelFromDomain(invoice)
		if err := saveInvoiceModel(tx, updated); err != nil {
			return err
		}

		result = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SoftDelete marks the invoice deleted. Deleting an already deleted
// invoice is a no-op success.
func (r *GormInvoiceRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.setDeletedAt(ctx, id, true)
}

// Restore clears the soft-delete mark. Restoring an active invoice is a
// no-op success.
func (r *GormInvoiceRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.setDeletedAt(ctx, id, false)
}

func (r *GormInvoiceRepository) setDeletedAt(ctx context.Context, id uuid.UUID, deleted bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.InvoiceModel
		if err := lockForUpdate(tx).
			First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if deleted == (model.DeletedAt != nil) {
			return nil
		}

		now := time.Now()
		var deletedAt *time.Time
		if deleted {
			deletedAt = &now
		}
		return tx.Model(&models.InvoiceModel{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"deleted_at": deletedAt,
				"updated_at": now,
				"version":    gorm.Expr("version + 1"),
			}).Error
	})
}

// GenerateInvoiceNumber generates the next invoice number.
// Format: INV-YYYY-NNNNN (e.g. INV-2026-00001).
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("INV-%d-", year)

	// The prefix is fixed-width, so ordering by length first keeps the
	// numeric maximum on top once the sequence grows past five digits.
	var last models.InvoiceModel
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("length(invoice_number) DESC, invoice_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.InvoiceNumber != "" {
		parts := strings.Split(last.InvoiceNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyFilter applies filter options to the query. Pagination and ordering
// are skipped for count queries.
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter billing.InvoiceFilter, paginate bool) *gorm.DB {
	if !filter.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}
	if filter.EnrollmentID != nil {
		query = query.Where("enrollment_id = ?", *filter.EnrollmentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND status NOT IN ?",
			time.Now(), []string{string(billing.InvoiceStatusPaid), string(billing.InvoiceStatusCancelled)})
	}
	if filter.MinOutstanding != nil {
		query = query.Where("total_amount - settled_amount >= ?", *filter.MinOutstanding)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR notes ILIKE ?", pattern, pattern)
	}

	if !paginate {
		return query
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
