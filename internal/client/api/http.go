package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sumit8974/fintrack-cli/internal/client/models"
	"github.com/sumit8974/fintrack-cli/internal/client/token"
	"github.com/sumit8974/fintrack-cli/internal/common"
	"github.com/sumit8974/fintrack-cli/internal/logging"
)

// HTTPClient is the concrete Client over net/http with a fixed base URL and
// request timeout.
type HTTPClient struct {
	baseURL        string
	http           *http.Client
	tokens         *token.Store
	logger         logging.Logger
	onUnauthorized func()
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens *token.Store, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// SetUnauthorizedHandler registers the callback fired after any 401
// response, once the stored token has been cleared. The app uses it to drop
// the session back to the login prompt.
func (c *HTTPClient) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// errorBody is the failure envelope returned by the API.
type errorBody struct {
	Error string `json:"error"`
}

// do runs one request: marshals body (if any), attaches the bearer token,
// executes, maps failures onto the error taxonomy, and decodes a 2xx
// response into out (if non-nil). overrideToken, when non-empty, is used
// instead of the token store for this single call.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any, overrideToken string) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	tok := overrideToken
	if tok == "" {
		tok, _ = c.tokens.Get(ctx)
	}
	if tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, common.ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)

		if resp.StatusCode == http.StatusUnauthorized {
			c.handleUnauthorized(ctx)
		}

		return &APIError{Status: resp.StatusCode, Message: eb.Error, Err: sentinelFor(resp.StatusCode)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// handleUnauthorized enforces the global 401 policy: clear the persisted
// token, then hand control to the app-level handler.
func (c *HTTPClient) handleUnauthorized(ctx context.Context) {
	if err := c.tokens.Remove(ctx); err != nil {
		c.logger.Error(ctx, "failed to clear token after 401", "error", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return common.ErrValidation
	default:
		return common.ErrorInternal
	}
}

// ---- auth ----

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp, "")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", registerRequest{Username: username, Email: email, Password: password}, nil, "")
}

type userPayload struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	RoleID   json.Number `json:"role_id"`
	Avatar   string      `json:"avatar"`
}

type profileResponse struct {
	User userPayload `json:"user"`
}

func (c *HTTPClient) Profile(ctx context.Context, tok string) (*models.User, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodGet, "/users/token", nil, &resp, tok); err != nil {
		return nil, err
	}
	u := resp.User
	return &models.User{
		ID:     u.ID.String(),
		Name:   u.Username,
		Email:  u.Email,
		RoleID: u.RoleID.String(),
		Avatar: u.Avatar,
	}, nil
}

// ---- transactions ----

type transactionPayload struct {
	ID              json.Number `json:"id"`
	UserID          json.Number `json:"userId"`
	Amount          float64     `json:"amount"`
	Description     string      `json:"description"`
	CategoryName    string      `json:"categoryName"`
	TransactionType string      `json:"transactionType"`
	GroupID         json.Number `json:"groupId"`
	CreatedAt       string      `json:"createdAt"`
	UpdatedAt       string      `json:"updatedAt"`
}

// toModel converts the wire record using ts as the authoritative date.
func (p transactionPayload) toModel(ts string) models.Transaction {
	return models.Transaction{
		ID:          p.ID.String(),
		Amount:      p.Amount,
		Description: p.Description,
		Category:    p.CategoryName,
		Date:        parseTimestamp(ts),
		Type:        models.TransactionType(p.TransactionType),
		GroupID:     p.GroupID.String(),
		CreatedBy:   p.UserID.String(),
	}
}

// parseTimestamp accepts the formats the API has been observed to emit.
// An unparseable value yields the zero time rather than an error; the date
// is display data, not a correctness anchor.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func (c *HTTPClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var payload []transactionPayload
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &payload, ""); err != nil {
		return nil, err
	}

	result := make([]models.Transaction, 0, len(payload))
	for _, p := range payload {
		result = append(result, p.toModel(p.CreatedAt))
	}
	return result, nil
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, req TransactionRequest) (*models.Transaction, error) {
	var p transactionPayload
	if err := c.do(ctx, http.MethodPost, "/transactions", req, &p, ""); err != nil {
		return nil, err
	}
	m := p.toModel(canonicalTimestamp(p))
	return &m, nil
}

func (c *HTTPClient) UpdateTransaction(ctx context.Context, id string, req TransactionPatchRequest) (*models.Transaction, error) {
	var p transactionPayload
	if err := c.do(ctx, http.MethodPatch, "/transactions/"+url.PathEscape(id), req, &p, ""); err != nil {
		return nil, err
	}
	m := p.toModel(canonicalTimestamp(p))
	return &m, nil
}

func (c *HTTPClient) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil, "")
}

// canonicalTimestamp picks the server's authoritative date for a mutated
// record: updatedAt when present, createdAt otherwise.
func canonicalTimestamp(p transactionPayload) string {
	if p.UpdatedAt != "" {
		return p.UpdatedAt
	}
	return p.CreatedAt
}

// ---- categories ----

type categoryPayload struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
	Type string      `json:"type"`
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var payload []categoryPayload
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &payload, ""); err != nil {
		return nil, err
	}

	result := make([]models.Category, 0, len(payload))
	for _, p := range payload {
		result = append(result, models.Category{
			ID:   p.ID.String(),
			Name: p.Name,
			Type: models.TransactionType(p.Type),
		})
	}
	return result, nil
}

// ---- account lifecycle ----

func (c *HTTPClient) ActivateAccount(ctx context.Context, activationToken string) error {
	return c.do(ctx, http.MethodPut, "/users/activate/"+url.PathEscape(activationToken), nil, nil, "")
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", forgotPasswordRequest{Email: email}, nil, "")
}

func (c *HTTPClient) ValidateResetToken(ctx context.Context, resetToken string) error {
	return c.do(ctx, http.MethodGet, "/auth/validate-reset-token/"+url.PathEscape(resetToken), nil, nil, "")
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (c *HTTPClient) ResetPassword(ctx context.Context, resetToken, password string) error {
	return c.do(ctx, http.MethodPut, "/auth/reset-password", resetPasswordRequest{Token: resetToken, Password: password}, nil, "")
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
