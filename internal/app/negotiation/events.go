package negotiation

import (
	"time"

	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/role"
)

type EventType string

const (
	EventRequestCreated   EventType = "request_created"
	EventQuoteIssued      EventType = "quote_issued"
	EventCounterAccepted  EventType = "counter_offer_accepted"
	EventRequestDeclined  EventType = "request_declined"
	EventQuoteAccepted    EventType = "quote_accepted"
	EventCounterOffered   EventType = "counter_offered"
	EventRequestCancelled EventType = "request_cancelled"
	EventServiceCompleted EventType = "service_completed"
	EventPaymentSubmitted EventType = "payment_submitted"
	EventPaymentConfirmed EventType = "payment_confirmed"
	EventBillDisputed     EventType = "bill_disputed"
	EventBillRevised      EventType = "bill_revised"
	EventMessagePosted    EventType = "message_posted"
)

// Event изменение заявки, о котором стоит сообщить другой стороне
type Event struct {
	Type       EventType       `json:"event_type"`
	RequestID  uint            `json:"request_id"`
	ClientID   uint            `json:"client_id"`
	State      ds.RequestState `json:"state"`
	Actor      role.Role       `json:"actor"`
	Amount     *float64        `json:"amount,omitempty"`
	Message    string          `json:"message,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
