package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
	"github.com/eduplatform/backend/internal/infrastructure/persistence/models"
)

// setupBillingTestDB creates an in-memory SQLite database with the billing
// tables migrated.
func setupBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.InvoiceModel{},
		&models.InstallmentModel{},
		&models.InvoiceEntryModel{},
	)
	require.NoError(t, err)

	return db
}

func mustMoney(t *testing.T, amount int64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoney(decimal.NewFromInt(amount), valueobject.IDR)
	require.NoError(t, err)
	return m
}

func newInstallmentInvoice(t *testing.T, total int64, count int) *billing.Invoice {
	t.Helper()
	firstDue := time.Now().AddDate(0, 1, 0)
	inv, err := billing.NewInvoice(
		uuid.New(),
		"INV-2026-"+uuid.NewString()[:5],
		mustMoney(t, total),
		billing.InstallmentPlan(count, firstDue),
	)
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository_SaveAndFindByID(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newInstallmentInvoice(t, 100000, 3)
	require.NoError(t, repo.Save(ctx, inv))

	loaded, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)

	assert.Equal(t, inv.InvoiceNumber, loaded.InvoiceNumber)
	assert.Equal(t, inv.EnrollmentID, loaded.EnrollmentID)
	assert.Equal(t, billing.InvoiceStatusPending, loaded.Status)
	require.Len(t, loaded.Installments, 3)
	// Rounding remainder goes to the first installment.
	assert.Equal(t, "33334", loaded.Installments[0].DueAmount.String())
	assert.Equal(t, "33333", loaded.Installments[1].DueAmount.String())
	assert.Equal(t, "33333", loaded.Installments[2].DueAmount.String())
	assert.Empty(t, loaded.Entries)
}

func TestGormInvoiceRepository_FindByID_NotFound(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_FindByEnrollment(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newInstallmentInvoice(t, 60000, 2)
	require.NoError(t, repo.Save(ctx, inv))

	loaded, err := repo.FindByEnrollment(ctx, inv.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, loaded.ID)

	_, err = repo.FindByEnrollment(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_RecordEntry(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newInstallmentInvoice(t, 100000, 2)
	require.NoError(t, repo.Save(ctx, inv))

	updated, err := repo.RecordEntry(ctx, inv.ID, func(i *billing.Invoice) error {
		entry, err := billing.NewInvoiceEntry(i.ID, billing.EntryTypePayment, decimal.NewFromInt(50000))
		if err != nil {
			return err
		}
		entry.WithMethod(billing.PaymentMethodCash)
		return i.AppendEntry(entry)
	})
	require.NoError(t, err)

	assert.Equal(t, billing.InvoiceStatusPartiallyPaid, updated.Status)
	assert.Equal(t, "50000", updated.PaidAmount.String())

	// The whole aggregate round-trips: entry and installment funding persist.
	loaded, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "50000", loaded.SettledAmount.String())
	assert.Equal(t, "50000", loaded.Installments[0].PaidAmount.String())
	assert.NotNil(t, loaded.Installments[0].PaidAt)
	assert.Greater(t, loaded.Version, inv.Version)
}

func TestGormInvoiceRepository_RecordEntry_MutateErrorRollsBack(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newInstallmentInvoice(t, 100000, 2)
	require.NoError(t, repo.Save(ctx, inv))

	// Overpayment is rejected by the aggregate; nothing may persist.
	_, err := repo.RecordEntry(ctx, inv.ID, func(i *billing.Invoice) error {
		entry, entryErr := billing.NewInvoiceEntry(i.ID, billing.EntryTypePayment, decimal.NewFromInt(200000))
		if entryErr != nil {
			return entryErr
		}
		return i.AppendEntry(entry)
	})
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "EXCEEDS_OUTSTANDING", de.Code)

	loaded, loadErr := repo.FindByID(ctx, inv.ID)
	require.NoError(t, loadErr)
	assert.Empty(t, loaded.Entries)
	assert.True(t, loaded.SettledAmount.IsZero())
	assert.Equal(t, billing.InvoiceStatusPending, loaded.Status)
}

func TestGormInvoiceRepository_RecordEntry_NotFound(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)

	_, err := repo.RecordEntry(context.Background(), uuid.New(), func(i *billing.Invoice) error {
		return nil
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormInvoiceRepository_SoftDeleteAndRestore(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newInstallmentInvoice(t, 50000, 2)
	require.NoError(t, repo.Save(ctx, inv))

	require.NoError(t, repo.SoftDelete(ctx, inv.ID))
	loaded, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsDeleted())

	// Deleting again is a no-op success and does not bump the version.
	versionAfterDelete := loaded.Version
	require.NoError(t, repo.SoftDelete(ctx, inv.ID))
	loaded, err = repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, versionAfterDelete, loaded.Version)

	require.NoError(t, repo.Restore(ctx, inv.ID))
	loaded, err = repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsDeleted())

	assert.ErrorIs(t, repo.SoftDelete(ctx, uuid.New()), shared.ErrNotFound)
}

func TestGormInvoiceRepository_FindAll(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	first := newInstallmentInvoice(t, 100000, 2)
	second := newInstallmentInvoice(t, 60000, 2)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.SoftDelete(ctx, second.ID))

	t.Run("excludes soft-deleted by default", func(t *testing.T) {
		invoices, err := repo.FindAll(ctx, billing.InvoiceFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, first.ID, invoices[0].ID)

		count, err := repo.Count(ctx, billing.InvoiceFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("includes soft-deleted on request", func(t *testing.T) {
		invoices, err := repo.FindAll(ctx, billing.InvoiceFilter{
			Filter:         shared.DefaultFilter(),
			IncludeDeleted: true,
		})
		require.NoError(t, err)
		assert.Len(t, invoices, 2)
	})

	t.Run("filters by enrollment", func(t *testing.T) {
		invoices, err := repo.FindAll(ctx, billing.InvoiceFilter{
			Filter:       shared.DefaultFilter(),
			EnrollmentID: &first.EnrollmentID,
		})
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, first.ID, invoices[0].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		paid := billing.InvoiceStatusPaid
		invoices, err := repo.FindAll(ctx, billing.InvoiceFilter{
			Filter: shared.DefaultFilter(),
			Status: &paid,
		})
		require.NoError(t, err)
		assert.Empty(t, invoices)
	})
}

func TestGormInvoiceRepository_GenerateInvoiceNumber(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	number, err := repo.GenerateInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{4}-00001$`, number)

	inv, err := billing.NewInvoice(
		uuid.New(),
		number,
		mustMoney(t, 10000),
		billing.FullPaymentPlan(time.Date(year, 12, 1, 0, 0, 0, 0, time.UTC)),
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, inv))

	next, err := repo.GenerateInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{4}-00002$`, next)
}

func TestGormInvoiceRepository_GenerateInvoiceNumber_PastFiveDigits(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	year := time.Now().Year()
	due := time.Date(year, 12, 1, 0, 0, 0, 0, time.UTC)
	for _, number := range []string{
		fmt.Sprintf("INV-%d-99999", year),
		fmt.Sprintf("INV-%d-100000", year),
	} {
		inv, err := billing.NewInvoice(uuid.New(), number, mustMoney(t, 10000), billing.FullPaymentPlan(due))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, inv))
	}

	next, err := repo.GenerateInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("INV-%d-100001", year), next)
}

func TestGormInvoiceRepository_Save_DuplicateNumber(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	number := "INV-2026-00042"
	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	first, err := billing.NewInvoice(uuid.New(), number, mustMoney(t, 10000), billing.FullPaymentPlan(due))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := billing.NewInvoice(uuid.New(), number, mustMoney(t, 20000), billing.FullPaymentPlan(due))
	require.NoError(t, err)

	err = repo.Save(ctx, second)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "DUPLICATE_INVOICE_NUMBER", de.Code)
}
