// Package gateway is the HTTP client a POS terminal uses to talk to the
// restaurant backend. It implements pos.Gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-pos/pos"
)

var _ pos.Gateway = (*Client)(nil)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// envelope mirrors utils.JSONResponse on the server side.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithToken sets a bearer token, e.g. one obtained by an earlier Login.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges staff credentials for a token and keeps it for the
// following calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token    string `json:"token"`
		UserRole string `json:"user_role"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", body, &out); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return errors.New("login: empty token in response")
	}

	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"email": email, "role": out.UserRole}).Info("logged in to backend")
	return nil
}

func (c *Client) FetchTables(ctx context.Context) ([]pos.Table, error) {
	var records []TableRecord
	if err := c.do(ctx, http.MethodGet, "/admin/tables", nil, &records); err != nil {
		return nil, fmt.Errorf("fetch tables: %w", err)
	}
	tables := make([]pos.Table, 0, len(records))
	for _, r := range records {
		t, err := r.Table()
		if err != nil {
			return nil, fmt.Errorf("fetch tables: table %d: %w", r.ID, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// UpdateTable persists table, status included.
func (c *Client) UpdateTable(ctx context.Context, table pos.Table) error {
	record, err := NewTableRecord(table)
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/admin/tables/%d", table.ID)
	if err := c.do(ctx, http.MethodPatch, path, record, nil); err != nil {
		return fmt.Errorf("update table %d: %w", table.ID, err)
	}
	return nil
}

func (c *Client) FetchProducts(ctx context.Context) ([]pos.Product, error) {
	var records []ProductRecord
	if err := c.do(ctx, http.MethodGet, "/products", nil, &records); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	products := make([]pos.Product, 0, len(records))
	for _, r := range records {
		products = append(products, r.Product())
	}
	return products, nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]pos.Category, error) {
	var records []CategoryRecord
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &records); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	categories := make([]pos.Category, 0, len(records))
	for _, r := range records {
		categories = append(categories, pos.Category{ID: r.ID, Name: r.Name})
	}
	return categories, nil
}

// SubmitOrder posts the order and returns the id the backend stored it
// under. Resubmitting the same reference returns the existing order.
func (c *Client) SubmitOrder(ctx context.Context, order pos.OrderSubmission) (uint, error) {
	var out OrderRecord
	if err := c.do(ctx, http.MethodPost, "/admin/orders", NewOrderRequest(order), &out); err != nil {
		return 0, fmt.Errorf("submit order %s: %w", order.Reference, err)
	}
	if out.ID == 0 {
		return 0, fmt.Errorf("submit order %s: response has no order id", order.Reference)
	}
	return out.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("backend call")

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if decodeErr != nil {
			msg = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("error unmarshaling response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("error unmarshaling data: %w", err)
	}
	return nil
}
