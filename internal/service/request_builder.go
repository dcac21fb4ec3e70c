package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/glpi-gateway/internal/domain"
	apperrors "github.com/spec-kit/glpi-gateway/pkg/util/errorutil"
)

// CreateTicketInput describes the caller-provided creation fields. Requester
// is optional; it is forwarded to GLPI only when it holds a numeric user id.
type CreateTicketInput struct {
	Description   string
	Status        string
	OpeningDate   string
	Requester     string
	RequestSource string
}

const defaultOpeningTime = "00:00:00"

// buildTicketRequest validates required fields, resolves enum labels,
// normalizes the opening timestamp and assigns a fresh generated name. It
// performs no I/O: a request that cannot pass here never costs a remote
// authentication round trip.
func buildTicketRequest(input CreateTicketInput, tables domain.EnumTables) (*domain.TicketRequest, error) {
	var missing []string
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.Status) == "" {
		missing = append(missing, "status")
	}
	if strings.TrimSpace(input.OpeningDate) == "" {
		missing = append(missing, "opening_date")
	}
	if strings.TrimSpace(input.RequestSource) == "" {
		missing = append(missing, "request_source")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError(
			"missing required fields: "+strings.Join(missing, ", "),
			map[string]any{"missing": missing})
	}

	var resolveErrs []error
	statusID, err := tables.Statuses.Resolve("status", input.Status)
	if err != nil {
		resolveErrs = append(resolveErrs, err)
	}
	sourceID, err := tables.RequestSources.Resolve("request_source", input.RequestSource)
	if err != nil {
		resolveErrs = append(resolveErrs, err)
	}
	if len(resolveErrs) > 0 {
		return nil, errors.Join(resolveErrs...)
	}

	req := &domain.TicketRequest{
		Name:            uuid.NewString(),
		Content:         input.Description,
		StatusID:        statusID,
		OpeningDate:     normalizeOpeningDate(input.OpeningDate),
		RequestSourceID: sourceID,
	}

	if trimmed := strings.TrimSpace(input.Requester); trimmed != "" {
		if id, err := strconv.Atoi(trimmed); err == nil {
			req.RequesterID = &id
		}
	}

	return req, nil
}

// normalizeOpeningDate appends a fixed midnight time to date-only inputs.
// Anything already carrying a time component passes through unchanged; no
// timezone conversion is performed.
func normalizeOpeningDate(ts string) string {
	ts = strings.TrimSpace(ts)
	if len(strings.Fields(ts)) == 1 {
		return ts + " " + defaultOpeningTime
	}
	return ts
}
