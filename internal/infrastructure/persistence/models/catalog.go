package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduplatform/backend/internal/domain/catalog"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
)

// CourseModel is the persistence model for the Course aggregate.
type CourseModel struct {
	AggregateModel
	Code        string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	TeacherID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Capacity    int             `gorm:"not null;default:0"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	PublishedAt *time.Time
	ArchivedAt  *time.Time
}

// TableName returns the table name for GORM.
func (CourseModel) TableName() string {
	return "courses"
}

// ToDomain converts the persistence model to a Course aggregate.
func (m *CourseModel) ToDomain() *catalog.Course {
	return &catalog.Course{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		TeacherID:         m.TeacherID,
		Price:             m.Price,
		Currency:          valueobject.Currency(m.Currency),
		Capacity:          m.Capacity,
		Status:            catalog.CourseStatus(m.Status),
		PublishedAt:       m.PublishedAt,
		ArchivedAt:        m.ArchivedAt,
	}
}

// FromDomain populates the persistence model from a Course aggregate.
func (m *CourseModel) FromDomain(c *catalog.Course) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Description = c.Description
	m.TeacherID = c.TeacherID
	m.Price = c.Price
	m.Currency = string(c.Currency)
	m.Capacity = c.Capacity
	m.Status = string(c.Status)
	m.PublishedAt = c.PublishedAt
	m.ArchivedAt = c.ArchivedAt
}

// CourseModelFromDomain creates a persistence model from a Course.
func CourseModelFromDomain(c *catalog.Course) *CourseModel {
	m := &CourseModel{}
	m.FromDomain(c)
	return m
}
