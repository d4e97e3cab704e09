package model

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the users/{uid} document.
type UserProfile struct {
	ID          uuid.UUID
	DisplayName string
	Email       string
	Phone       string
	PhotoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Group is a shared expense group. Erasure never removes it.
type Group struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	CreatedAt time.Time
}

// GroupMember is a membership record inside a group.
type GroupMember struct {
	GroupID  uuid.UUID
	UserID   uuid.UUID
	Role     string
	JoinedAt time.Time
}

// Expense is a shared financial record.
type Expense struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	PayerID     uuid.UUID
	Description string
	AmountCents int64
	IsDeleted   bool
	DeletedAt   *time.Time
}

// Settlement is a payment between two members.
type Settlement struct {
	ID          uuid.UUID
	GroupID     uuid.UUID
	PayerID     uuid.UUID
	ReceiverID  uuid.UUID
	AmountCents int64
	IsDeleted   bool
	DeletedAt   *time.Time
}
