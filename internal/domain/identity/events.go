package identity

import (
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRegisteredEvent is raised when a new user account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// EventType returns the event type name
func (e *UserRegisteredEvent) EventType() string {
	return "UserRegistered"
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserRegistered", "User", u.ID),
		UserID:          u.ID,
		Email:           u.Email,
		Role:            u.Role,
	}
}

// UserDeactivatedEvent is raised when an account is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// EventType returns the event type name
func (e *UserDeactivatedEvent) EventType() string {
	return "UserDeactivated"
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserDeactivated", "User", u.ID),
		UserID:          u.ID,
		Email:           u.Email,
	}
}
