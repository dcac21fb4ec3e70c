package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/glpi-gateway/internal/api/http"
	"github.com/spec-kit/glpi-gateway/internal/api/http/handlers"
	"github.com/spec-kit/glpi-gateway/internal/auth"
	"github.com/spec-kit/glpi-gateway/internal/domain"
	"github.com/spec-kit/glpi-gateway/internal/glpi"
	"github.com/spec-kit/glpi-gateway/internal/observability"
	"github.com/spec-kit/glpi-gateway/internal/persistence"
	"github.com/spec-kit/glpi-gateway/internal/repository"
	"github.com/spec-kit/glpi-gateway/internal/service"
)

// stubAPI is a minimal in-memory GLPI for handler tests.
type stubAPI struct {
	initErr error
	records map[int]*glpi.TicketRecord
	nextID  int
	last    glpi.CreateTicketInput
}

func newStubAPI() *stubAPI {
	return &stubAPI{records: map[int]*glpi.TicketRecord{}, nextID: 42}
}

func (s *stubAPI) InitSession(ctx context.Context) (string, error) {
	if s.initErr != nil {
		return "", s.initErr
	}
	return "sess", nil
}

func (s *stubAPI) KillSession(ctx context.Context, session string) error { return nil }

func (s *stubAPI) ListOptions(ctx context.Context, session, itemType string) (json.RawMessage, error) {
	return json.RawMessage(`[{"id":1,"name":"New"}]`), nil
}

func (s *stubAPI) GetTicket(ctx context.Context, session string, id int) (*glpi.TicketRecord, error) {
	if rec, ok := s.records[id]; ok {
		return rec, nil
	}
	return nil, &glpi.APIError{Op: fmt.Sprintf("get Ticket/%d", id), StatusCode: 404}
}

func (s *stubAPI) SearchTicketsByName(ctx context.Context, session, name string) (*glpi.SearchResult, error) {
	for id, rec := range s.records {
		if rec.Name == name {
			return &glpi.SearchResult{TotalCount: 1, Data: []map[string]any{{"id": float64(id)}}}, nil
		}
	}
	return &glpi.SearchResult{}, nil
}

func (s *stubAPI) CreateTicket(ctx context.Context, session string, input glpi.CreateTicketInput) (int, error) {
	s.last = input
	id := s.nextID
	rec := &glpi.TicketRecord{
		ID:            id,
		Name:          input.Name,
		Content:       input.Content,
		Status:        input.Status,
		Urgency:       input.Urgency,
		BeginDate:     input.BeginDate,
		RequestTypeID: input.RequestTypeID,
	}
	if input.UsersIDRecipient != nil {
		rec.UsersIDRecipient = float64(*input.UsersIDRecipient)
	}
	s.records[id] = rec
	return id, nil
}

type memoryRecent map[string]string

func (m memoryRecent) Set(ctx context.Context, callerID, name string) error {
	m[callerID] = name
	return nil
}

func (m memoryRecent) Get(ctx context.Context, callerID string) (string, error) {
	name, ok := m[callerID]
	if !ok {
		return "", repository.ErrNoRecentTicket
	}
	return name, nil
}

func newTestApp(t *testing.T, api glpi.API) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	ticketService := service.NewTicketService(service.TicketDependencies{
		API:    api,
		Tables: domain.DefaultEnumTables(),
		Recent: memoryRecent{},
	})

	tokenManager := auth.NewTokenManager("test-secret", 5)
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", ticketService, &persistence.Postgres{}, &persistence.Redis{}, metrics),
		Auth:           handlers.NewAuthHandler(tokenManager, "gateway-key"),
		Options:        handlers.NewOptionsHandler(ticketService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenManager),
	})
	return app, tokenManager
}

func bearerToken(t *testing.T, tm *auth.TokenManager) string {
	t.Helper()
	token, _, err := tm.GenerateToken("caller-1")
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestTicketRoutesRequireAuth(t *testing.T) {
	app, _ := newTestApp(t, newStubAPI())

	resp, body := doJSON(t, app, http.MethodPost, "/v1/tickets", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "UNAUTHORIZED", errBody["code"])
}

func TestCreateTicketEndpoint(t *testing.T) {
	api := newStubAPI()
	app, tm := newTestApp(t, api)
	token := bearerToken(t, tm)

	t.Run("missing fields yield a validation error", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/v1/tickets", token, map[string]any{
			"status": "New",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "VALIDATION_FAILED", errBody["code"])
	})

	t.Run("valid payload creates and returns the normalized ticket", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/v1/tickets", token, map[string]any{
			"description":    "printer jam",
			"status":         "New",
			"opening_date":   "2024-03-01",
			"request_source": "Phone",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		data := body["data"].(map[string]any)
		assert.Equal(t, api.last.Name, data["title"])
		assert.Equal(t, "printer jam", data["description"])
		assert.Equal(t, float64(1), data["status"])
		assert.Equal(t, "2024-03-01 00:00:00", data["opening_date"])
	})

	t.Run("upstream auth failure surfaces as bad gateway", func(t *testing.T) {
		failing := newStubAPI()
		failing.initErr = &glpi.APIError{Op: "initSession", StatusCode: 401, Body: []byte(`["ERROR_GLPI_LOGIN"]`)}
		failApp, failTM := newTestApp(t, failing)

		resp, body := doJSON(t, failApp, http.MethodPost, "/v1/tickets", bearerToken(t, failTM), map[string]any{
			"description":    "printer jam",
			"status":         "New",
			"opening_date":   "2024-03-01",
			"request_source": "Phone",
		})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "UPSTREAM_AUTH_FAILED", errBody["code"])
	})
}

func TestGetTicketEndpoint(t *testing.T) {
	api := newStubAPI()
	api.records[7] = &glpi.TicketRecord{ID: 7, Name: "abc", Content: "hello", Status: 1}
	app, tm := newTestApp(t, api)
	token := bearerToken(t, tm)

	t.Run("non-numeric id is a client error", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/v1/tickets/abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("fetch by id", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/v1/tickets/7", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := body["data"].(map[string]any)
		assert.Equal(t, "hello", data["description"])
	})

	t.Run("fetch by name miss is 404", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/v1/tickets/by-name/nope", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "NOT_FOUND", errBody["code"])
	})
}

func TestTokenIssuance(t *testing.T) {
	app, _ := newTestApp(t, newStubAPI())

	t.Run("valid API key issues a token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, "/auth/token",
			bytes.NewReader([]byte(`{"caller_id":"caller-1"}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Api-Key", "gateway-key")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong API key is rejected", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, "/auth/token",
			bytes.NewReader([]byte(`{"caller_id":"caller-1"}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Api-Key", "wrong")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestOptionsEndpoints(t *testing.T) {
	app, tm := newTestApp(t, newStubAPI())
	token := bearerToken(t, tm)

	resp, body := doJSON(t, app, http.MethodGet, "/v1/options/statuses", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	assert.Equal(t, "New", first["name"])
}
