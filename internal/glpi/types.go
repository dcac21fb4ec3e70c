package glpi

import (
	"encoding/json"
	"strconv"
)

// InitSessionResponse is the body of GET /initSession.
type InitSessionResponse struct {
	SessionToken string `json:"session_token"`
}

// TicketRecord is the raw ticket shape returned by GET /Ticket/{id}. GLPI
// mixes value types for dropdown references depending on server settings, so
// those fields decode as any and are coerced during normalization.
type TicketRecord struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Content          string `json:"content"`
	Status           int    `json:"status"`
	Urgency          int    `json:"urgency"`
	Date             string `json:"date"`
	BeginDate        string `json:"begin_date"`
	RequestTypeID    int    `json:"requesttypes_id"`
	CategoryID       any    `json:"itilcategories_id"`
	UsersIDRecipient any    `json:"users_id_recipient"`
}

// CreateTicketInput is the payload wrapped in GLPI's {"input": ...} envelope
// for POST /Ticket.
type CreateTicketInput struct {
	Name             string `json:"name"`
	Content          string `json:"content"`
	Status           int    `json:"status"`
	Urgency          int    `json:"urgency"`
	BeginDate        string `json:"begin_date"`
	RequestTypeID    int    `json:"requesttypes_id"`
	UsersIDRecipient *int   `json:"users_id_recipient,omitempty"`
}

// createEnvelope wraps a payload in the {"input": ...} envelope required by
// GLPI POST/PUT endpoints.
type createEnvelope struct {
	Input CreateTicketInput `json:"input"`
}

// createResponse is the body of a successful POST /Ticket.
type createResponse struct {
	ID int `json:"id"`
}

// SearchResult is the envelope returned by GET /search/Ticket.
type SearchResult struct {
	TotalCount int              `json:"totalcount"`
	Data       []map[string]any `json:"data"`
}

// FirstID extracts the ticket id of the first search row. Search ordering is
// whatever GLPI returns; the gateway imposes no additional sorting.
func (r *SearchResult) FirstID() (int, bool) {
	if r == nil || len(r.Data) == 0 {
		return 0, false
	}
	return coerceID(r.Data[0]["id"])
}

func coerceID(v any) (int, bool) {
	switch id := v.(type) {
	case float64:
		return int(id), true
	case int:
		return id, true
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(id)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
