package glpi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spec-kit/glpi-gateway/internal/config"
)

// API is the surface of the GLPI REST API consumed by the gateway. The session
// token returned by InitSession is passed explicitly to every call; sessions
// are never cached or shared across operations.
type API interface {
	InitSession(ctx context.Context) (string, error)
	KillSession(ctx context.Context, session string) error
	ListOptions(ctx context.Context, session, itemType string) (json.RawMessage, error)
	GetTicket(ctx context.Context, session string, id int) (*TicketRecord, error)
	SearchTicketsByName(ctx context.Context, session, name string) (*SearchResult, error)
	CreateTicket(ctx context.Context, session string, input CreateTicketInput) (int, error)
}

// Client talks to a GLPI REST API endpoint. Every call is attempted exactly
// once; retries are the caller's concern and the gateway deliberately has none.
type Client struct {
	baseURL  string
	apiToken string
	appToken string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient builds a client with an explicit request timeout.
func NewClient(cfg config.GLPIConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		appToken: cfg.AppToken,
		http:     &http.Client{Timeout: cfg.Timeout()},
		logger:   logger,
	}
}

// InitSession acquires a short-lived session token using the static
// credentials. The token is scoped to one logical gateway operation.
func (c *Client) InitSession(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/initSession", "", nil, http.StatusOK, "initSession")
	if err != nil {
		return "", err
	}
	var resp InitSessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &TransportError{Op: "initSession", Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return resp.SessionToken, nil
}

// KillSession releases a session token. Best effort; the gateway logs and
// moves on when it fails since GLPI expires sessions on its own.
func (c *Client) KillSession(ctx context.Context, session string) error {
	_, err := c.do(ctx, http.MethodGet, "/killSession", session, nil, http.StatusOK, "killSession")
	return err
}

// ListOptions fetches a dropdown item type (TicketStatus, TicketType) and
// returns the body unmodified.
func (c *Client) ListOptions(ctx context.Context, session, itemType string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/"+itemType, session, nil, http.StatusOK, "list "+itemType)
}

// GetTicket retrieves the raw ticket record by remote identifier.
func (c *Client) GetTicket(ctx context.Context, session string, id int) (*TicketRecord, error) {
	op := fmt.Sprintf("get Ticket/%d", id)
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Ticket/%d", id), session, nil, http.StatusOK, op)
	if err != nil {
		return nil, err
	}
	var rec TicketRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return &rec, nil
}

// SearchTicketsByName issues a contains search on the ticket name field
// (search option 1).
func (c *Client) SearchTicketsByName(ctx context.Context, session, name string) (*SearchResult, error) {
	query := url.Values{}
	query.Set("criteria[0][field]", "1")
	query.Set("criteria[0][searchtype]", "contains")
	query.Set("criteria[0][value]", name)

	body, err := c.do(ctx, http.MethodGet, "/search/Ticket?"+query.Encode(), session, nil, http.StatusOK, "search Ticket")
	if err != nil {
		return nil, err
	}
	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TransportError{Op: "search Ticket", Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return &result, nil
}

// CreateTicket submits a creation payload and returns the remote-assigned id.
func (c *Client) CreateTicket(ctx context.Context, session string, input CreateTicketInput) (int, error) {
	payload, err := json.Marshal(createEnvelope{Input: input})
	if err != nil {
		return 0, fmt.Errorf("marshal ticket input: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/Ticket", session, payload, http.StatusCreated, "create Ticket")
	if err != nil {
		return 0, err
	}
	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &TransportError{Op: "create Ticket", Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return resp.ID, nil
}

func (c *Client) do(ctx context.Context, method, path, session string, payload []byte, wantStatus int, op string) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "user_token "+c.apiToken)
	req.Header.Set("App-Token", c.appToken)
	if session != "" {
		req.Header.Set("Session-Token", session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode != wantStatus {
		c.logger.Debug("glpi call failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: json.RawMessage(body)}
	}

	return json.RawMessage(body), nil
}
