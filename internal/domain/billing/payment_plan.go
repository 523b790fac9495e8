package billing

import (
	"time"

	"github.com/eduplatform/backend/internal/domain/shared"
)

// PlanType represents how an invoice is expected to be settled
type PlanType string

const (
	PlanTypeFull         PlanType = "FULL"         // Single payment of the whole total
	PlanTypeInstallments PlanType = "INSTALLMENTS" // N scheduled installments
)

// IsValid checks if the plan type is valid
func (t PlanType) IsValid() bool {
	return t == PlanTypeFull || t == PlanTypeInstallments
}

// MaxInstallmentCount bounds installment plans to something a school would
// actually offer
const MaxInstallmentCount = 36

// PaymentPlan describes the settlement schedule requested at enrollment time
type PaymentPlan struct {
	Type             PlanType
	InstallmentCount int
	FirstDueDate     time.Time
}

// FullPaymentPlan returns a plan settled in a single payment due at the
// given date
func FullPaymentPlan(dueDate time.Time) PaymentPlan {
	return PaymentPlan{
		Type:             PlanTypeFull,
		InstallmentCount: 1,
		FirstDueDate:     dueDate,
	}
}

// InstallmentPlan returns a plan of count monthly installments starting at
// firstDueDate
func InstallmentPlan(count int, firstDueDate time.Time) PaymentPlan {
	return PaymentPlan{
		Type:             PlanTypeInstallments,
		InstallmentCount: count,
		FirstDueDate:     firstDueDate,
	}
}

// Validate checks the plan shape
func (p PaymentPlan) Validate() error {
	if !p.Type.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Payment plan type is not valid")
	}
	if p.FirstDueDate.IsZero() {
		return shared.NewDomainError("INVALID_PLAN", "Payment plan requires a first due date")
	}
	switch p.Type {
	case PlanTypeFull:
		if p.InstallmentCount > 1 {
			return shared.NewDomainError("INVALID_PLAN", "Full payment plan cannot have multiple installments")
		}
	case PlanTypeInstallments:
		if p.InstallmentCount < 2 {
			return shared.NewDomainError("INVALID_PLAN", "Installment plan requires at least 2 installments")
		}
		if p.InstallmentCount > MaxInstallmentCount {
			return shared.NewDomainError("INVALID_PLAN", "Installment plan exceeds the maximum installment count")
		}
	}
	return nil
}

// DueDateFor returns the due date of the installment at the given zero-based
// index. Installments fall monthly after the first due date.
func (p PaymentPlan) DueDateFor(index int) time.Time {
	return p.FirstDueDate.AddDate(0, index, 0)
}
