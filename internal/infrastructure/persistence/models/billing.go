package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Installments and entries are children of the aggregate and always travel
// with it.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	EnrollmentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SettledAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	DueDate       *time.Time      `gorm:"index"`
	Notes         string          `gorm:"type:text"`
	IssuedAt      *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
	CancelReason  string     `gorm:"type:varchar(500)"`
	DeletedAt     *time.Time `gorm:"index"`

	Installments []InstallmentModel  `gorm:"foreignKey:InvoiceID"`
	Entries      []InvoiceEntryModel `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to an Invoice aggregate.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		EnrollmentID:      m.EnrollmentID,
		Currency:          valueobject.Currency(m.Currency),
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		SettledAmount:     m.SettledAmount,
		Status:            billing.InvoiceStatus(m.Status),
		DueDate:           m.DueDate,
		Notes:             m.Notes,
		IssuedAt:          m.IssuedAt,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		DeletedAt:         m.DeletedAt,
		Installments:      make([]billing.Installment, len(m.Installments)),
		Entries:           make([]billing.InvoiceEntry, len(m.Entries)),
	}
	for i := range m.Installments {
		inv.Installments[i] = *m.Installments[i].ToDomain()
	}
	for i := range m.Entries {
		inv.Entries[i] = *m.Entries[i].ToDomain()
	}
	return inv
}

// FromDomain populates the persistence model from an Invoice aggregate.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.EnrollmentID = inv.EnrollmentID
	m.Currency = string(inv.Currency)
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.SettledAmount = inv.SettledAmount
	m.Status = string(inv.Status)
	m.DueDate = inv.DueDate
	m.Notes = inv.Notes
	m.IssuedAt = inv.IssuedAt
	m.PaidAt = inv.PaidAt
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
	m.DeletedAt = inv.DeletedAt

	m.Installments = make([]InstallmentModel, len(inv.Installments))
	for i := range inv.Installments {
		m.Installments[i].FromDomain(&inv.Installments[i])
	}
	m.Entries = make([]InvoiceEntryModel, len(inv.Entries))
	for i := range inv.Entries {
		m.Entries[i].FromDomain(&inv.Entries[i])
	}
}

// InvoiceModelFromDomain creates a persistence model from an Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InstallmentModel is the persistence model for one scheduled installment.
type InstallmentModel struct {
	BaseModel
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence   int             `gorm:"not null"`
	DueAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DueDate    time.Time       `gorm:"not null;index"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM.
func (InstallmentModel) TableName() string {
	return "invoice_installments"
}

// ToDomain converts the persistence model to a domain Installment.
func (m *InstallmentModel) ToDomain() *billing.Installment {
	return &billing.Installment{
		BaseEntity: m.BaseModel.ToDomain(),
		InvoiceID:  m.InvoiceID,
		Sequence:   m.Sequence,
		DueAmount:  m.DueAmount,
		PaidAmount: m.PaidAmount,
		DueDate:    m.DueDate,
		PaidAt:     m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Installment.
func (m *InstallmentModel) FromDomain(i *billing.Installment) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.InvoiceID = i.InvoiceID
	m.Sequence = i.Sequence
	m.DueAmount = i.DueAmount
	m.PaidAmount = i.PaidAmount
	m.DueDate = i.DueDate
	m.PaidAt = i.PaidAt
}

// InvoiceEntryModel is the persistence model for one immutable ledger row.
type InvoiceEntryModel struct {
	BaseModel
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentID *uuid.UUID      `gorm:"type:uuid;index"`
	Type          string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method        string          `gorm:"type:varchar(20)"`
	PaidAt        time.Time       `gorm:"not null;index"`
	Notes         string          `gorm:"type:text"`
	RecordedBy    *uuid.UUID      `gorm:"type:uuid"`
	DeletedAt     *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM.
func (InvoiceEntryModel) TableName() string {
	return "invoice_entries"
}

// ToDomain converts the persistence model to a domain InvoiceEntry.
func (m *InvoiceEntryModel) ToDomain() *billing.InvoiceEntry {
	return &billing.InvoiceEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		InvoiceID:     m.InvoiceID,
		InstallmentID: m.InstallmentID,
		Type:          billing.EntryType(m.Type),
		Amount:        m.Amount,
		Method:        billing.PaymentMethod(m.Method),
		PaidAt:        m.PaidAt,
		Notes:         m.Notes,
		RecordedBy:    m.RecordedBy,
		DeletedAt:     m.DeletedAt,
	}
}

// FromDomain populates the persistence model from a domain InvoiceEntry.
func (m *InvoiceEntryModel) FromDomain(e *billing.InvoiceEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.InvoiceID = e.InvoiceID
	m.InstallmentID = e.InstallmentID
	m.Type = string(e.Type)
	m.Amount = e.Amount
	m.Method = string(e.Method)
	m.PaidAt = e.PaidAt
	m.Notes = e.Notes
	m.RecordedBy = e.RecordedBy
	m.DeletedAt = e.DeletedAt
}
