package message

import (
	"context"
	"time"
)

type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
	StatusFailed    Status = "failed"
)

// Message is one communication unit, inbound or outbound. ProviderMessageID
// is the idempotency key: at most one row per non-empty value.
type Message struct {
	ID                uint      `json:"id"`
	CustomerID        uint      `json:"customer_id"`
	Content           string    `json:"content"`
	MediaReference    string    `json:"media_reference,omitempty"`
	MediaContentType  string    `json:"media_content_type,omitempty"`
	Direction         Direction `json:"direction"`
	Status            Status    `json:"status"`
	ProviderMessageID string    `json:"provider_message_id,omitempty"`
	IsRead            bool      `json:"is_read"`
	CreatedAt         time.Time `json:"created_at"`
}

// InboundMessage carries everything the reconciler needs to create a
// received-message row.
type InboundMessage struct {
	CustomerID        uint
	ProviderMessageID string
	Content           string
	MediaReference    string
	MediaContentType  string
}

// OutboundMessage is created by the send path after the provider accepted
// the request.
type OutboundMessage struct {
	CustomerID        uint
	ProviderMessageID string
	Content           string
	MediaReference    string
	MediaContentType  string
}

type Stats struct {
	TotalCustomers   int64 `json:"total_customers"`
	TotalMessages    int64 `json:"total_messages"`
	SentMessages     int64 `json:"sent_messages"`
	ReceivedMessages int64 `json:"received_messages"`
}

type IMessageUsecase interface {
	// RecordInbound creates the row for a received message. Re-delivery of
	// the same provider message id is a successful no-op; created reports
	// whether a new row was written.
	RecordInbound(ctx context.Context, in InboundMessage) (created bool, err error)
	// RecordOutbound creates the row for a message the send path submitted.
	RecordOutbound(ctx context.Context, out OutboundMessage) (Message, error)
	// ApplyStatus updates status on the zero-or-one rows matching the
	// provider message id and returns how many rows were touched. Zero is a
	// valid, silent outcome.
	ApplyStatus(ctx context.Context, providerMessageID string, status Status) (int64, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]Message, error)
	MarkReceivedRead(ctx context.Context, customerID uint) (int64, error)
	Stats(ctx context.Context) (Stats, error)
}
