package service

import (
	"strconv"

	"github.com/spec-kit/glpi-gateway/internal/domain"
	"github.com/spec-kit/glpi-gateway/internal/glpi"
)

// normalizeTicket maps a raw GLPI record onto the stable caller-facing view.
// Pure field mapping: status and request source stay as the remote numeric
// codes, and optional remote fields may be absent without failing.
func normalizeTicket(rec *glpi.TicketRecord) *domain.Ticket {
	ticket := &domain.Ticket{
		ID:              rec.ID,
		Title:           rec.Name,
		Description:     rec.Content,
		Status:          rec.Status,
		Urgency:         rec.Urgency,
		OpeningDate:     rec.BeginDate,
		RequestSourceID: rec.RequestTypeID,
	}

	if ticket.OpeningDate == "" {
		ticket.OpeningDate = rec.Date
	}
	if id, ok := optionalID(rec.CategoryID); ok {
		ticket.CategoryID = &id
	}
	if id, ok := optionalID(rec.UsersIDRecipient); ok {
		ticket.RequesterID = &id
	}

	return ticket
}

// optionalID coerces GLPI's loosely typed dropdown references. Zero means
// "unset" in GLPI and is treated as absent.
func optionalID(v any) (int, bool) {
	var id int
	switch val := v.(type) {
	case float64:
		id = int(val)
	case int:
		id = val
	case string:
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return 0, false
		}
		id = parsed
	default:
		return 0, false
	}
	if id == 0 {
		return 0, false
	}
	return id, true
}
