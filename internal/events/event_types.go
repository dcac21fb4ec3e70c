package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventSubmissionFailed EventType = "submission_failed"
)

// Event represents a gateway event emitted by the ticket pipeline.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CallerID  string      `json:"caller_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RemoteID      int    `json:"remote_id"`
	GeneratedName string `json:"generated_name"`
	StatusID      int    `json:"status_id"`
}

// SubmissionFailedPayload payload.
type SubmissionFailedPayload struct {
	GeneratedName string `json:"generated_name"`
	Reason        string `json:"reason"`
}
