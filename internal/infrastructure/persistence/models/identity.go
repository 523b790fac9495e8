package models

import (
	"time"

	"github.com/eduplatform/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate.
type UserModel struct {
	AggregateModel
	Email         string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash  string `gorm:"type:varchar(255);not null"`
	FullName      string `gorm:"type:varchar(200);not null"`
	Phone         string `gorm:"type:varchar(50)"`
	Role          string `gorm:"type:varchar(20);not null;index"`
	Status        string `gorm:"type:varchar(20);not null;index"`
	LastLoginAt   *time.Time
	DeactivatedAt *time.Time
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a User aggregate.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		FullName:          m.FullName,
		Phone:             m.Phone,
		Role:              identity.Role(m.Role),
		Status:            identity.UserStatus(m.Status),
		LastLoginAt:       m.LastLoginAt,
		DeactivatedAt:     m.DeactivatedAt,
	}
}

// FromDomain populates the persistence model from a User aggregate.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FullName = u.FullName
	m.Phone = u.Phone
	m.Role = string(u.Role)
	m.Status = string(u.Status)
	m.LastLoginAt = u.LastLoginAt
	m.DeactivatedAt = u.DeactivatedAt
}

// UserModelFromDomain creates a persistence model from a User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
