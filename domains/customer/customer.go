package customer

import (
	"context"
	"errors"
	"time"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Customer is the identity anchor: exactly one row per normalized phone
// number. Created on the first inbound event from a new number, never
// deleted by the webhook pipeline.
type Customer struct {
	ID            uint      `json:"id"`
	PhoneNumber   string    `json:"phone_number"`
	DisplayName   string    `json:"display_name"`
	AssignedAgent string    `json:"assigned_agent,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Name returns the display name, falling back to the phone number.
func (c Customer) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.PhoneNumber
}

// Overview is a Customer plus the chat-list preview the dashboard polls for.
type Overview struct {
	Customer
	UnreadCount     int64      `json:"unread_count"`
	LastMessage     string     `json:"last_message"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
}

type ICustomerUsecase interface {
	// Resolve finds or creates the customer for a normalized phone number.
	// profileName, when non-empty, may replace a stored name that is empty
	// or phone-shaped; a human-set name is never clobbered.
	Resolve(ctx context.Context, normalizedPhone, profileName string) (Customer, error)
	GetByID(ctx context.Context, id uint) (Customer, error)
	List(ctx context.Context) ([]Overview, error)
	AssignAgent(ctx context.Context, id uint, agent string) (Customer, error)
	Delete(ctx context.Context, id uint) error
}
