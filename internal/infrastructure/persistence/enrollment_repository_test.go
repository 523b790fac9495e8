package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/enrollment"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/infrastructure/persistence/models"
)

func setupEnrollmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.EnrollmentModel{},
		&models.InvoiceModel{},
		&models.InstallmentModel{},
		&models.InvoiceEntryModel{},
	)
	require.NoError(t, err)

	return db
}

func newActiveEnrollment(t *testing.T) *enrollment.Enrollment {
	t.Helper()
	plan := billing.InstallmentPlan(3, time.Now().AddDate(0, 1, 0))
	e, err := enrollment.NewEnrollment(uuid.New(), uuid.New(), plan)
	require.NoError(t, err)
	return e
}

func TestGormEnrollmentRepository_SaveAndFindByID(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	repo := NewGormEnrollmentRepository(db)
	ctx := context.Background()

	e := newActiveEnrollment(t)
	require.NoError(t, repo.Save(ctx, e))

	loaded, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.StudentID, loaded.StudentID)
	assert.Equal(t, e.CourseID, loaded.CourseID)
	assert.Equal(t, enrollment.StatusActive, loaded.Status)
	assert.Equal(t, billing.PlanTypeInstallments, loaded.PlanType)
	assert.Equal(t, 3, loaded.InstallmentCount)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEnrollmentRepository_ExistsActive(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	repo := NewGormEnrollmentRepository(db)
	ctx := context.Background()

	e := newActiveEnrollment(t)
	require.NoError(t, repo.Save(ctx, e))

	exists, err := repo.ExistsActive(ctx, e.StudentID, e.CourseID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsActive(ctx, e.StudentID, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)

	// Terminal enrollments do not block re-enrollment.
	require.NoError(t, e.Withdraw("moved away"))
	require.NoError(t, repo.Save(ctx, e))

	exists, err = repo.ExistsActive(ctx, e.StudentID, e.CourseID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormEnrollmentRepository_CreateWithInvoice(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	repo := NewGormEnrollmentRepository(db)
	invoiceRepo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	e := newActiveEnrollment(t)
	inv, err := billing.NewInvoice(
		e.ID,
		"INV-2026-00001",
		mustMoney(t, 100000),
		billing.InstallmentPlan(3, time.Now().AddDate(0, 1, 0)),
	)
	require.NoError(t, err)

	require.NoError(t, repo.CreateWithInvoice(ctx, e, inv))

	loadedEnrollment, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.StudentID, loadedEnrollment.StudentID)

	loadedInvoice, err := invoiceRepo.FindByEnrollment(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-2026-00001", loadedInvoice.InvoiceNumber)
	assert.Len(t, loadedInvoice.Installments, 3)
}

func TestGormEnrollmentRepository_CreateWithInvoice_RollsBackOnFailure(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	repo := NewGormEnrollmentRepository(db)
	ctx := context.Background()

	// Occupy the invoice number so the second insert violates the unique
	// index inside the transaction.
	existing := newActiveEnrollment(t)
	existingInvoice, err := billing.NewInvoice(
		existing.ID,
		"INV-2026-00042",
		mustMoney(t, 50000),
		billing.FullPaymentPlan(time.Now().AddDate(0, 1, 0)),
	)
	require.NoError(t, err)
	require.NoError(t, repo.CreateWithInvoice(ctx, existing, existingInvoice))

	e := newActiveEnrollment(t)
	inv, err := billing.NewInvoice(
		e.ID,
		"INV-2026-00042",
		mustMoney(t, 100000),
		billing.InstallmentPlan(3, time.Now().AddDate(0, 1, 0)),
	)
	require.NoError(t, err)

	require.Error(t, repo.CreateWithInvoice(ctx, e, inv))

	// The enrollment insert preceded the failing invoice insert; it must
	// not survive the rollback.
	_, err = repo.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormEnrollmentRepository_FindAllAndCount(t *testing.T) {
	db := setupEnrollmentTestDB(t)
	repo := NewGormEnrollmentRepository(db)
	ctx := context.Background()

	first := newActiveEnrollment(t)
	second := newActiveEnrollment(t)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, second.Complete())
	require.NoError(t, repo.Save(ctx, second))

	active := enrollment.StatusActive
	enrollments, err := repo.FindAll(ctx, enrollment.Filter{
		Filter: shared.DefaultFilter(),
		Status: &active,
	})
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, first.ID, enrollments[0].ID)

	count, err := repo.Count(ctx, enrollment.Filter{
		Filter:    shared.DefaultFilter(),
		StudentID: &second.StudentID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
