package dto

import (
	"time"

	"github.com/spec-kit/glpi-gateway/internal/domain"
	"github.com/spec-kit/glpi-gateway/internal/repository"
)

// CreateTicketRequest payload. Field names follow the caller contract:
// requester is optional and forwarded to GLPI only when numeric.
type CreateTicketRequest struct {
	Description   string `json:"description"`
	Status        string `json:"status"`
	OpeningDate   string `json:"opening_date"`
	Requester     string `json:"requester"`
	RequestSource string `json:"request_source"`
}

// TicketResponse is the stable normalized ticket view.
type TicketResponse struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Status          int    `json:"status"`
	Urgency         int    `json:"urgency"`
	OpeningDate     string `json:"opening_date"`
	RequestSourceID int    `json:"request_source_id"`
	CategoryID      *int   `json:"category_id,omitempty"`
	RequesterID     *int   `json:"requester_id,omitempty"`
}

// FromTicket maps the domain view onto the response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Status:          t.Status,
		Urgency:         t.Urgency,
		OpeningDate:     t.OpeningDate,
		RequestSourceID: t.RequestSourceID,
		CategoryID:      t.CategoryID,
		RequesterID:     t.RequesterID,
	}
}

// SubmissionResponse is one journaled creation attempt.
type SubmissionResponse struct {
	GeneratedName string    `json:"generated_name"`
	RemoteID      *int      `json:"remote_id,omitempty"`
	Outcome       string    `json:"outcome"`
	FailureCode   *string   `json:"failure_code,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromSubmission maps a journal record onto the response shape.
func FromSubmission(rec repository.SubmissionRecord) SubmissionResponse {
	return SubmissionResponse{
		GeneratedName: rec.GeneratedName,
		RemoteID:      rec.RemoteID,
		Outcome:       rec.Outcome,
		FailureCode:   rec.FailureCode,
		CreatedAt:     rec.CreatedAt,
	}
}
