// Package api is the JSON/HTTP client for the bookstore backend. One method
// per endpoint; the authoritative price and stock checks live server-side, so
// order placement sends only (bookId, quantity) pairs.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/and161185/bookstore/internal/errs"
	"github.com/and161185/bookstore/internal/model"
)

// TokenSource yields the current bearer token, or ok=false when the client
// should call unauthenticated.
type TokenSource func() (token string, ok bool)

// RemoteError is a non-2xx response decoded from the server's error body.
type RemoteError struct {
	Status    int
	Message   string // server-provided; may be empty
	RequestID string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (HTTP %d)", e.Status)
}

// Client talks to one bookstore backend.
type Client struct {
	base  *url.URL
	httpc *http.Client
	token TokenSource
	log   *zap.Logger
}

// New constructs a Client. token may be nil for an always-anonymous client.
func New(baseURL string, timeout time.Duration, token TokenSource, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if token == nil {
		token = func() (string, bool) { return "", false }
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:  u,
		httpc: &http.Client{Timeout: timeout},
		token: token,
		log:   log,
	}, nil
}

// do performs one request. body (if non-nil) is marshaled as JSON; out (if
// non-nil) receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	if tok, ok := c.token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("requestId", reqID),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("requestId", reqID),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp, reqID)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) remoteError(resp *http.Response, reqID string) error {
	var eb struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(b, &eb)
	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	return &RemoteError{Status: resp.StatusCode, Message: msg, RequestID: reqID}
}

// ---- auth ----

// RegisterRequest creates an account. Role defaults to CUSTOMER server-side.
type RegisterRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role,omitempty"`
}

type authResponse struct {
	Token string     `json:"token"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  model.Role `json:"role"`
}

func (r authResponse) identity() model.Identity {
	return model.Identity{
		Token:       r.Token,
		Email:       r.Email,
		DisplayName: r.Name,
		Role:        r.Role,
	}
}

// Register creates an account and returns the authenticated identity.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (model.Identity, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return model.Identity{}, err
	}
	return out.identity(), nil
}

// Login authenticates and returns the identity.
func (c *Client) Login(ctx context.Context, email, password string) (model.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return model.Identity{}, err
	}
	return out.identity(), nil
}

// ---- catalog ----

// ListBooksParams filters a catalog listing. Search and Genre are mutually
// exclusive; the catalog controller guarantees at most one is set.
type ListBooksParams struct {
	Search string
	Genre  string
	Page   int
	Size   int
}

// ListBooks fetches one catalog page.
func (c *Client) ListBooks(ctx context.Context, p ListBooksParams) (model.BookPage, error) {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	} else if p.Genre != "" {
		q.Set("genre", p.Genre)
	}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))

	var out model.BookPage
	if err := c.do(ctx, http.MethodGet, "/api/books", q, nil, &out); err != nil {
		return model.BookPage{}, err
	}
	return out, nil
}

// GetBook fetches a single book. A 404 maps to errs.ErrNotFound.
func (c *Client) GetBook(ctx context.Context, id int64) (model.Book, error) {
	var out model.Book
	err := c.do(ctx, http.MethodGet, "/api/books/"+strconv.FormatInt(id, 10), nil, nil, &out)
	var re *RemoteError
	if asRemote(err, &re) && re.Status == http.StatusNotFound {
		return model.Book{}, fmt.Errorf("book %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return model.Book{}, err
	}
	return out, nil
}

// BookRequest is the admin create/update payload.
type BookRequest struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre,omitempty"`
	ISBN          string  `json:"isbn,omitempty"`
	Price         float64 `json:"price"`
	Description   string  `json:"description,omitempty"`
	StockQuantity int     `json:"stockQuantity"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// CreateBook adds a catalog entry (admin only).
func (c *Client) CreateBook(ctx context.Context, req BookRequest) (model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodPost, "/api/books", nil, req, &out); err != nil {
		return model.Book{}, err
	}
	return out, nil
}

// UpdateBook replaces a catalog entry (admin only).
func (c *Client) UpdateBook(ctx context.Context, id int64, req BookRequest) (model.Book, error) {
	var out model.Book
	if err := c.do(ctx, http.MethodPut, "/api/books/"+strconv.FormatInt(id, 10), nil, req, &out); err != nil {
		return model.Book{}, err
	}
	return out, nil
}

// DeleteBook removes a catalog entry (admin only).
func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/books/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// ---- orders ----

// OrderItemRequest is one (bookId, quantity) pair of a placement request.
type OrderItemRequest struct {
	BookID   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

// PlaceOrder submits the order and returns the created order.
func (c *Client) PlaceOrder(ctx context.Context, items []OrderItemRequest) (model.Order, error) {
	body := map[string][]OrderItemRequest{"items": items}
	var out model.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, body, &out); err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// GetOrder fetches a single order.
func (c *Client) GetOrder(ctx context.Context, id int64) (model.Order, error) {
	var out model.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, nil, &out)
	var re *RemoteError
	if asRemote(err, &re) && re.Status == http.StatusNotFound {
		return model.Order{}, fmt.Errorf("order %d: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

// MyOrders fetches one page of the caller's order history.
func (c *Client) MyOrders(ctx context.Context, page, size int) (model.OrderPage, error) {
	var out model.OrderPage
	if err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", pageQuery(page, size), nil, &out); err != nil {
		return model.OrderPage{}, err
	}
	return out, nil
}

// AllOrders fetches one page of every order (admin only).
func (c *Client) AllOrders(ctx context.Context, page, size int) (model.OrderPage, error) {
	var out model.OrderPage
	if err := c.do(ctx, http.MethodGet, "/api/orders", pageQuery(page, size), nil, &out); err != nil {
		return model.OrderPage{}, err
	}
	return out, nil
}

// UpdateOrderStatus transitions an order's lifecycle state (admin only).
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) (model.Order, error) {
	body := map[string]model.OrderStatus{"status": status}
	var out model.Order
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+strconv.FormatInt(id, 10)+"/status", nil, body, &out); err != nil {
		return model.Order{}, err
	}
	return out, nil
}

func asRemote(err error, target **RemoteError) bool {
	return err != nil && errors.As(err, target)
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}
