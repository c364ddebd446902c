package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Event kinds.
const (
	EventStudentSelected = "coop.student_selected"
)

// Event statuses.
const (
	EventPending = "Pending"
	EventSent    = "Sent"
	EventFailed  = "Failed"
)

// Event is a notification staged in the outbox during a state transition
// and delivered after the transaction commits. Delivery is best-effort:
// a failed dispatch is logged and marked, never retried.
type Event struct {
	ID        string    `db:"id" json:"id"`
	Kind      string    `db:"kind" json:"kind"`
	Recipient string    `db:"recipient" json:"recipient"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	SentAt    null.Time `db:"sent_at" json:"sent_at"`
}

func NewEvent(kind, recipient, subject, body string) Event {
	return Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Status:    EventPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Outbox is the read/ack side of the notification outbox, consumed by the
// dispatcher outside any business transaction.
type Outbox interface {
	PendingEvents(ctx context.Context, limit int) ([]Event, error)
	MarkEventSent(ctx context.Context, id string) error
	MarkEventFailed(ctx context.Context, id string) error
}
