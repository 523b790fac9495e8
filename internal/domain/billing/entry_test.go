package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryType_IsValid(t *testing.T) {
	tests := []struct {
		typ     EntryType
		isValid bool
	}{
		{EntryTypePayment, true},
		{EntryTypeDiscount, true},
		{EntryTypeRefund, true},
		{EntryTypeAdjustment, true},
		{EntryType("TRANSFER"), false},
		{EntryType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.typ.IsValid())
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethod("").IsValid(), "empty method is allowed for non-payment entries")
	assert.True(t, PaymentMethodCash.IsValid())
	assert.True(t, PaymentMethodBankTransfer.IsValid())
	assert.False(t, PaymentMethod("CHEQUE").IsValid())
}

func TestNewInvoiceEntry(t *testing.T) {
	invoiceID := uuid.New()

	t.Run("creates a valid payment entry", func(t *testing.T) {
		entry, err := NewInvoiceEntry(invoiceID, EntryTypePayment, decimal.NewFromInt(5000))
		require.NoError(t, err)
		assert.Equal(t, invoiceID, entry.InvoiceID)
		assert.Equal(t, EntryTypePayment, entry.Type)
		assert.False(t, entry.PaidAt.IsZero())
		assert.Nil(t, entry.InstallmentID)
	})

	t.Run("rejects empty invoice ID", func(t *testing.T) {
		_, err := NewInvoiceEntry(uuid.Nil, EntryTypePayment, decimal.NewFromInt(5000))
		assert.Error(t, err)
	})

	t.Run("rejects invalid entry type", func(t *testing.T) {
		_, err := NewInvoiceEntry(invoiceID, EntryType("BONUS"), decimal.NewFromInt(5000))
		assert.Error(t, err)
	})

	t.Run("positive amount enforced for directional types", func(t *testing.T) {
		for _, typ := range []EntryType{EntryTypePayment, EntryTypeDiscount, EntryTypeRefund} {
			_, err := NewInvoiceEntry(invoiceID, typ, decimal.Zero)
			assert.Error(t, err, "zero amount for %s", typ)
			_, err = NewInvoiceEntry(invoiceID, typ, decimal.NewFromInt(-100))
			assert.Error(t, err, "negative amount for %s", typ)
		}
	})

	t.Run("adjustments may be negative but not zero", func(t *testing.T) {
		_, err := NewInvoiceEntry(invoiceID, EntryTypeAdjustment, decimal.NewFromInt(-100))
		assert.NoError(t, err)
		_, err = NewInvoiceEntry(invoiceID, EntryTypeAdjustment, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("builder methods set optional fields", func(t *testing.T) {
		installmentID := uuid.New()
		userID := uuid.New()
		paidAt := time.Now().AddDate(0, 0, -3)

		entry, err := NewInvoiceEntry(invoiceID, EntryTypePayment, decimal.NewFromInt(5000))
		require.NoError(t, err)
		entry.WithInstallment(installmentID).
			WithMethod(PaymentMethodBankTransfer).
			WithNotes("September tuition").
			WithRecordedBy(userID).
			WithPaidAt(paidAt)

		require.NotNil(t, entry.InstallmentID)
		assert.Equal(t, installmentID, *entry.InstallmentID)
		assert.Equal(t, PaymentMethodBankTransfer, entry.Method)
		assert.Equal(t, "September tuition", entry.Notes)
		assert.Equal(t, userID, *entry.RecordedBy)
		assert.Equal(t, paidAt, entry.PaidAt)
	})
}

func TestInvoiceEntry_Deltas(t *testing.T) {
	invoiceID := uuid.New()

	tests := []struct {
		name       string
		typ        EntryType
		amount     int64
		wantSettle int64
		wantCash   int64
	}{
		{"payment settles and moves cash", EntryTypePayment, 1000, 1000, 1000},
		{"discount settles without cash", EntryTypeDiscount, 1000, 1000, 0},
		{"refund unsettles and returns cash", EntryTypeRefund, 1000, -1000, -1000},
		{"positive adjustment settles", EntryTypeAdjustment, 500, 500, 0},
		{"negative adjustment unsettles", EntryTypeAdjustment, -500, -500, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewInvoiceEntry(invoiceID, tt.typ, decimal.NewFromInt(tt.amount))
			require.NoError(t, err)
			assert.True(t, entry.SettlementDelta().Equal(decimal.NewFromInt(tt.wantSettle)))
			assert.True(t, entry.CashDelta().Equal(decimal.NewFromInt(tt.wantCash)))
		})
	}
}

func TestPaymentPlan_Validate(t *testing.T) {
	due := time.Now().AddDate(0, 1, 0)

	tests := []struct {
		name    string
		plan    PaymentPlan
		wantErr bool
	}{
		{"full plan", FullPaymentPlan(due), false},
		{"three installments", InstallmentPlan(3, due), false},
		{"max installments", InstallmentPlan(MaxInstallmentCount, due), false},
		{"too many installments", InstallmentPlan(MaxInstallmentCount+1, due), true},
		{"single installment plan", InstallmentPlan(1, due), true},
		{"missing due date", PaymentPlan{Type: PlanTypeFull}, true},
		{"invalid type", PaymentPlan{Type: "WEEKLY", FirstDueDate: due}, true},
		{"full plan with count", PaymentPlan{Type: PlanTypeFull, InstallmentCount: 3, FirstDueDate: due}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
