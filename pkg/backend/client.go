package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/icevibe/pos-terminal/pkg/config"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/logger"
)

var errBaseURLRequired = errors.New("backend base url is required")

// Client is the typed HTTP client for the venue's REST backend. Every
// response passes through a strict decode step; ambiguous or malformed
// payloads fail with a DECODE_ERROR instead of being silently defaulted.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the configuration and builds the backend client.
func NewClient(cfg config.BackendConfig, logg *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}, nil
}

// Login authenticates a user by venue code and password.
func (c *Client) Login(ctx context.Context, code, password string) (*User, error) {
	body := map[string]string{"codigo": code, "password": password}

	raw, err := c.do(ctx, http.MethodPost, "/login", body)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			// Backends answer bad credentials with a 4xx; keep it an auth failure.
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials")
		}
		return nil, err
	}

	var payload struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		User    *User  `json:"usuario"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode login response")
	}
	if payload.Success != nil && !*payload.Success {
		msg := payload.Message
		if msg == "" {
			msg = "invalid credentials"
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, msg)
	}

	user := payload.User
	if user == nil {
		// Older backend builds return the user at the top level.
		var flat User
		if err := json.Unmarshal(raw, &flat); err != nil || flat.Role == "" {
			return nil, pkgerrors.New(pkgerrors.CodeDecode, "login response missing user")
		}
		user = &flat
	}
	if user.Role == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "login response missing role")
	}

	c.log(ctx, "login", map[string]any{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// RecoverPassword asks the backend to start password recovery for the user.
func (c *Client) RecoverPassword(ctx context.Context, code, email string) error {
	body := map[string]string{"codigo": code, "email": email}

	raw, err := c.do(ctx, http.MethodPost, "/recuperar-contrasena", body)
	if err != nil {
		return err
	}

	var payload statusEnvelope
	if err := json.Unmarshal(raw, &payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode recovery response")
	}
	if payload.Success != nil && !*payload.Success {
		msg := payload.Message
		if msg == "" {
			msg = "user not found for code and email"
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	}
	return nil
}

// ActiveProducts returns the catalog entries currently offered for sale.
func (c *Client) ActiveProducts(ctx context.Context) ([]Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/productos/activos", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Product](raw)
}

// Products returns every catalog entry, active or not.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/productos", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Product](raw)
}

// CreateSale posts a finalized sale and returns its identifier.
func (c *Client) CreateSale(ctx context.Context, payload SalePayload) (int64, error) {
	raw, err := c.do(ctx, http.MethodPost, "/ventas", payload)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode sale response")
	}
	if resp.Success == nil || !*resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = "sale was rejected by the backend"
		}
		return 0, pkgerrors.New(pkgerrors.CodeSubmission, msg)
	}
	if resp.ID == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeDecode, "sale response missing id")
	}

	c.log(ctx, "sale.created", map[string]any{"sale_id": resp.ID, "table": payload.TableNumber})
	return resp.ID, nil
}

// Sales lists the recorded sales.
func (c *Client) Sales(ctx context.Context) ([]Sale, error) {
	raw, err := c.do(ctx, http.MethodGet, "/ventas", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Sale](raw)
}

// SaleDetail fetches one sale with its line items.
func (c *Client) SaleDetail(ctx context.Context, saleID int64) (*SaleDetail, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/ventas/%d", saleID), nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Success *bool            `json:"success"`
		Message string           `json:"message"`
		Sale    *Sale            `json:"venta"`
		Lines   []SaleDetailLine `json:"detalles"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode sale detail")
	}
	if payload.Success != nil && !*payload.Success {
		msg := payload.Message
		if msg == "" {
			msg = "sale not found"
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msg)
	}
	if payload.Sale == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "sale detail missing venta")
	}
	return &SaleDetail{Sale: *payload.Sale, Lines: payload.Lines}, nil
}

type statusEnvelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend request timed out")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backend unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read backend response")
	}

	if resp.StatusCode >= 400 {
		msg := extractMessage(raw)
		if msg == "" {
			msg = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return nil, pkgerrors.New(codeForStatus(resp.StatusCode), msg).
			WithDetails(map[string]any{"status": resp.StatusCode, "path": path})
	}

	return raw, nil
}

// decodeList accepts the two shapes the backend serves for collections:
// a bare JSON array, or an envelope carrying the array under "data".
// Anything else is a decode failure, never an empty default.
func decodeList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "empty list payload")
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode list payload")
		}
		return items, nil
	}

	var envelope struct {
		Success *bool           `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode list envelope")
	}
	if envelope.Success != nil && !*envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "backend reported failure"
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
	if len(envelope.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "list envelope missing data")
	}

	var items []T
	if err := json.Unmarshal(envelope.Data, &items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode list data")
	}
	return items, nil
}

func extractMessage(raw []byte) string {
	var payload statusEnvelope
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Message
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func (c *Client) log(ctx context.Context, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{"operation": op}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	c.logger.Info(ctx, "backend "+op)
}
