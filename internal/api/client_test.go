package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/and161185/bookstore/internal/errs"
	"github.com/and161185/bookstore/internal/model"
)

func newClient(t *testing.T, h http.HandlerFunc, token TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, token, nil)
	require.NoError(t, err)
	return c
}

func TestLogin_OK(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.c", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"token": "tok123", "email": "a@b.c", "name": "Ann", "role": "CUSTOMER",
		})
	}, nil)

	id, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	require.Equal(t, "tok123", id.Token)
	require.Equal(t, "Ann", id.DisplayName)
	require.Equal(t, model.RoleCustomer, id.Role)
}

func TestBearerAttached(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(model.BookPage{})
	}, func() (string, bool) { return "tok123", true })

	_, err := c.ListBooks(context.Background(), ListBooksParams{Page: 0, Size: 12})
	require.NoError(t, err)
}

func TestListBooks_SearchWinsOverGenre(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "dune", q.Get("search"))
		require.Empty(t, q.Get("genre"))
		require.Equal(t, "2", q.Get("page"))
		require.Equal(t, "12", q.Get("size"))
		_ = json.NewEncoder(w).Encode(model.BookPage{TotalPages: 3, TotalElements: 30})
	}, nil)

	page, err := c.ListBooks(context.Background(), ListBooksParams{Search: "dune", Genre: "Fantasy", Page: 2, Size: 12})
	require.NoError(t, err)
	require.Equal(t, 3, page.TotalPages)
	require.EqualValues(t, 30, page.TotalElements)
}

func TestGetBook_NotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Book not found"})
	}, nil)

	_, err := c.GetBook(context.Background(), 99)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRemoteError_ServerMessage(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Insufficient stock for book: Dune"})
	}, nil)

	_, err := c.PlaceOrder(context.Background(), []OrderItemRequest{{BookID: 1, Quantity: 2}})
	var re *RemoteError
	require.True(t, errors.As(err, &re))
	require.Equal(t, http.StatusConflict, re.Status)
	require.Equal(t, "Insufficient stock for book: Dune", re.Error())
}

func TestRemoteError_FallbackMessage(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	_, err := c.MyOrders(context.Background(), 0, 10)
	var re *RemoteError
	require.True(t, errors.As(err, &re))
	require.Equal(t, "request failed (HTTP 500)", re.Error())
}

func TestPlaceOrder_SendsOnlyIDAndQuantity(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orders", r.URL.Path)
		var body map[string][]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body["items"], 1)
		item := body["items"][0]
		require.Len(t, item, 2) // no price fields on the wire
		require.EqualValues(t, 7, item["bookId"])
		require.EqualValues(t, 2, item["quantity"])
		_ = json.NewEncoder(w).Encode(model.Order{ID: 42, Status: model.OrderPending})
	}, nil)

	order, err := c.PlaceOrder(context.Background(), []OrderItemRequest{{BookID: 7, Quantity: 2}})
	require.NoError(t, err)
	require.EqualValues(t, 42, order.ID)
}

func TestUpdateOrderStatus(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/orders/5/status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "SHIPPED", body["status"])
		_ = json.NewEncoder(w).Encode(model.Order{ID: 5, Status: model.OrderShipped})
	}, nil)

	order, err := c.UpdateOrderStatus(context.Background(), 5, model.OrderShipped)
	require.NoError(t, err)
	require.Equal(t, model.OrderShipped, order.Status)
}

func TestNewRejectsBadScheme(t *testing.T) {
	_, err := New("ftp://example.com", time.Second, nil, nil)
	require.Error(t, err)
}
