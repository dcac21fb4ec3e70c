package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/glpi-gateway/internal/domain"
	"github.com/spec-kit/glpi-gateway/internal/events"
	"github.com/spec-kit/glpi-gateway/internal/glpi"
	"github.com/spec-kit/glpi-gateway/internal/repository"
	apperrors "github.com/spec-kit/glpi-gateway/pkg/util/errorutil"
)

// TicketService orchestrates the ticket pipeline against the remote GLPI API:
// validate, authenticate, submit, fetch, normalize. Every operation acquires
// its own session, uses it for exactly one logical invocation and releases it.
// No step retries; the first failure aborts the operation.
type TicketService struct {
	api        glpi.API
	tables     domain.EnumTables
	recent     repository.RecentTicketStore
	journal    repository.SubmissionJournal
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	API        glpi.API
	Tables     domain.EnumTables
	Recent     repository.RecentTicketStore
	Journal    repository.SubmissionJournal
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		api:        deps.API,
		tables:     deps.Tables,
		recent:     deps.Recent,
		journal:    deps.Journal,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CheckConnection verifies the gateway can authenticate against GLPI.
func (s *TicketService) CheckConnection(ctx context.Context) error {
	return s.withSession(ctx, func(string) error { return nil })
}

// StatusOptions returns the remote status option list unmodified.
func (s *TicketService) StatusOptions(ctx context.Context) (json.RawMessage, error) {
	return s.listOptions(ctx, "TicketStatus")
}

// RequestSourceOptions returns the remote request-source option list unmodified.
func (s *TicketService) RequestSourceOptions(ctx context.Context) (json.RawMessage, error) {
	return s.listOptions(ctx, "TicketType")
}

func (s *TicketService) listOptions(ctx context.Context, itemType string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := s.withSession(ctx, func(session string) error {
		var err error
		raw, err = s.api.ListOptions(ctx, session, itemType)
		return err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateTicket runs the full creation pipeline and returns the normalized view
// of the freshly created remote record. The generated name becomes the
// ticket's title and the caller's recent-ticket key.
func (s *TicketService) CreateTicket(ctx context.Context, callerID string, input CreateTicketInput) (*domain.Ticket, error) {
	req, err := buildTicketRequest(input, s.tables)
	if err != nil {
		return nil, err
	}

	var ticket *domain.Ticket
	err = s.withSession(ctx, func(session string) error {
		remoteID, err := s.api.CreateTicket(ctx, session, glpi.CreateTicketInput{
			Name:             req.Name,
			Content:          req.Content,
			Status:           req.StatusID,
			Urgency:          domain.DefaultUrgency,
			BeginDate:        req.OpeningDate,
			RequestTypeID:    req.RequestSourceID,
			UsersIDRecipient: req.RequesterID,
		})
		if err != nil {
			s.recordSubmission(ctx, callerID, req, nil, err)
			s.publishEvent(ctx, events.Event{
				Type:     events.EventSubmissionFailed,
				CallerID: callerID,
				Payload: events.SubmissionFailedPayload{
					GeneratedName: req.Name,
					Reason:        err.Error(),
				},
			})
			return err
		}
		s.recordSubmission(ctx, callerID, req, &remoteID, nil)

		rec, err := s.api.GetTicket(ctx, session, remoteID)
		if err != nil {
			return err
		}
		ticket = normalizeTicket(rec)

		if s.recent != nil {
			if err := s.recent.Set(ctx, callerID, req.Name); err != nil {
				s.logger.Warn("record recent ticket", zap.Error(err))
			}
		}

		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketCreated,
			CallerID: callerID,
			Payload: events.TicketCreatedPayload{
				RemoteID:      remoteID,
				GeneratedName: req.Name,
				StatusID:      req.StatusID,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicket fetches and normalizes a ticket by its remote identifier.
func (s *TicketService) GetTicket(ctx context.Context, id int) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := s.withSession(ctx, func(session string) error {
		rec, err := s.api.GetTicket(ctx, session, id)
		if err != nil {
			return err
		}
		ticket = normalizeTicket(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicketByName searches on the generated name with a contains match and
// fetches the first hit. The remote service defines the result ordering; an
// empty result set is a distinct not-found failure, not an upstream error.
func (s *TicketService) GetTicketByName(ctx context.Context, name string) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := s.withSession(ctx, func(session string) error {
		result, err := s.api.SearchTicketsByName(ctx, session, name)
		if err != nil {
			return err
		}
		id, ok := result.FirstID()
		if !ok {
			return apperrors.NewNotFound("ticket", map[string]any{"name": name})
		}
		rec, err := s.api.GetTicket(ctx, session, id)
		if err != nil {
			return err
		}
		ticket = normalizeTicket(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// RecentTicket returns the caller's most recently created ticket, looked up by
// its generated name.
func (s *TicketService) RecentTicket(ctx context.Context, callerID string) (*domain.Ticket, error) {
	if s.recent == nil {
		return nil, apperrors.NewNotFound("recent ticket", map[string]any{"caller_id": callerID})
	}
	name, err := s.recent.Get(ctx, callerID)
	if err != nil {
		if err == repository.ErrNoRecentTicket {
			return nil, apperrors.NewNotFound("recent ticket", map[string]any{"caller_id": callerID})
		}
		return nil, err
	}
	return s.GetTicketByName(ctx, name)
}

// RecentSubmissions lists the caller's journaled creation attempts.
func (s *TicketService) RecentSubmissions(ctx context.Context, callerID string, limit int) ([]repository.SubmissionRecord, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ListByCaller(ctx, callerID, limit)
}

// withSession wraps one logical operation in a fresh session. The token is
// never cached or shared; release is best effort since GLPI expires sessions
// on its own.
func (s *TicketService) withSession(ctx context.Context, fn func(session string) error) error {
	session, err := s.api.InitSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.api.KillSession(ctx, session); err != nil {
			s.logger.Debug("release session", zap.Error(err))
		}
	}()
	return fn(session)
}

// recordSubmission journals a creation attempt. The journal is an audit
// side-channel: a write failure is logged and never fails the pipeline.
func (s *TicketService) recordSubmission(ctx context.Context, callerID string, req *domain.TicketRequest, remoteID *int, cause error) {
	rec := &repository.SubmissionRecord{
		CallerID:      callerID,
		GeneratedName: req.Name,
		RemoteID:      remoteID,
		Outcome:       repository.OutcomeCreated,
	}
	if remoteID != nil {
		statusID := req.StatusID
		rec.StatusID = &statusID
	}
	if cause != nil {
		rec.Outcome = repository.OutcomeSubmitFailed
		code := failureCode(cause)
		rec.FailureCode = &code
	}
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(ctx, rec); err != nil {
		s.logger.Warn("journal submission", zap.Error(err))
	}
}

func failureCode(err error) string {
	switch cause := err.(type) {
	case *glpi.APIError:
		return fmt.Sprintf("upstream_status_%d", cause.StatusCode)
	case *glpi.TransportError:
		return "transport"
	default:
		return "error"
	}
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
