package httptransport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/storelane/order-svc/internal/service/models/order"
	"github.com/storelane/order-svc/internal/service/services/ordersvc"
	httptransport "github.com/storelane/order-svc/internal/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	createErr error
	created   order.Order

	gotQuery order.QueryOrdersModel
	page     order.OrderPage

	statusErr error
	updated   order.Order
	gotStatus order.Status
	gotPath   string

	bulkErr    error
	bulkCount  int64
	gotBulkIDs []uuid.UUID

	fieldsErr error
	gotPatch  order.FieldPatch

	operator string
}

func (s *stubService) CreateOrder(_ context.Context, model order.CreateOrderModel) (order.Order, error) {
	if s.createErr != nil {
		return order.Order{}, s.createErr
	}
	return s.created, nil
}

func (s *stubService) GetOrders(_ context.Context, query order.QueryOrdersModel) (order.OrderPage, error) {
	s.gotQuery = query
	return s.page, nil
}

func (s *stubService) UpdateOrderStatus(ctx context.Context, _ uuid.UUID, newStatus order.Status, path string) (order.Order, error) {
	s.operator, _ = ordersvc.OperatorFromContext(ctx)
	s.gotStatus = newStatus
	s.gotPath = path
	if s.statusErr != nil {
		return order.Order{}, s.statusErr
	}
	return s.updated, nil
}

func (s *stubService) UpdateOrderStatuses(_ context.Context, orderIDs []uuid.UUID, newStatus order.Status, path string) (int64, error) {
	s.gotBulkIDs = orderIDs
	s.gotStatus = newStatus
	if s.bulkErr != nil {
		return 0, s.bulkErr
	}
	return s.bulkCount, nil
}

func (s *stubService) UpdateOrderFields(_ context.Context, _ uuid.UUID, patch order.FieldPatch, path string) (order.Order, error) {
	s.gotPatch = patch
	if s.fieldsErr != nil {
		return order.Order{}, s.fieldsErr
	}
	return s.updated, nil
}

func newTestServer(t *testing.T, svc *stubService) *httptest.Server {
	t.Helper()

	viper.Set("service.name", "order-svc")
	viper.Set("server.http.operators", map[string]string{"test-token": "tester"})
	viper.Set("server.http.cors.allowed_origins", []string{"*"})

	transport := httptransport.NewHTTPTransport(svc)
	transport.RegisterRoutes()

	server := httptest.NewServer(transport.Handler())
	t.Cleanup(server.Close)

	return server
}

func doRequest(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func TestCreateOrder(t *testing.T) {
	svc := &stubService{
		created: order.Order{
			ID:           uuid.New(),
			CustomerName: "Yasmine El Amrani",
			Status:       order.StatusPending,
			TotalAmount:  decimal.NewFromInt(390),
		},
	}
	server := newTestServer(t, svc)

	body := `{"customerName":"Yasmine El Amrani","phone":"0612345678","city":"Casablanca","quantity":2,"totalAmount":"390"}`
	resp := doRequest(t, http.MethodPost, server.URL+"/api/orders", "", body)

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got order.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, svc.created.ID, got.ID)
	assert.Equal(t, order.StatusPending, got.Status)
}

func TestCreateOrderValidationError(t *testing.T) {
	svc := &stubService{
		createErr: &order.ValidationError{Field: "phone", Reason: "must be 10-13 characters"},
	}
	server := newTestServer(t, svc)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/orders", "", `{"phone":"061"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListOrdersRequiresAuth(t *testing.T) {
	server := newTestServer(t, &stubService{})

	resp := doRequest(t, http.MethodGet, server.URL+"/api/admin/orders/", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, server.URL+"/api/admin/orders/", "wrong-token", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListOrders(t *testing.T) {
	svc := &stubService{
		page: order.OrderPage{
			Orders:      []order.Order{{ID: uuid.New()}},
			IsNext:      true,
			TotalOrders: 25,
		},
	}
	server := newTestServer(t, svc)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/admin/orders/?page=2&pageSize=10&filter=pending", "test-token", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got order.OrderPage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.IsNext)
	assert.Equal(t, 25, got.TotalOrders)

	assert.Equal(t, 2, svc.gotQuery.Page)
	assert.Equal(t, 10, svc.gotQuery.PageSize)
	require.NotNil(t, svc.gotQuery.Filter)
	assert.Equal(t, order.StatusPending, *svc.gotQuery.Filter)
}

func TestListOrdersAllSentinel(t *testing.T) {
	svc := &stubService{}
	server := newTestServer(t, svc)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/admin/orders/?pageSize=all", "test-token", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, order.PageSizeAll, svc.gotQuery.PageSize)
}

func TestListOrdersBadFilter(t *testing.T) {
	server := newTestServer(t, &stubService{})

	resp := doRequest(t, http.MethodGet, server.URL+"/api/admin/orders/?filter=shipped", "test-token", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := &stubService{
		updated: order.Order{ID: uuid.New(), Status: order.StatusConfirmed},
	}
	server := newTestServer(t, svc)

	url := server.URL + "/api/admin/orders/" + uuid.NewString() + "/status"
	resp := doRequest(t, http.MethodPatch, url, "test-token", `{"newStatus":"confirmed","path":"/admin"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, order.StatusConfirmed, svc.gotStatus)
	assert.Equal(t, "/admin", svc.gotPath)
	assert.Equal(t, "tester", svc.operator)
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	svc := &stubService{statusErr: order.ErrNotFound}
	server := newTestServer(t, svc)

	url := server.URL + "/api/admin/orders/" + uuid.NewString() + "/status"
	resp := doRequest(t, http.MethodPatch, url, "test-token", `{"newStatus":"exported","path":"/admin"}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateOrderStatusInvalid(t *testing.T) {
	svc := &stubService{statusErr: order.ErrInvalidStatus}
	server := newTestServer(t, svc)

	url := server.URL + "/api/admin/orders/" + uuid.NewString() + "/status"
	resp := doRequest(t, http.MethodPatch, url, "test-token", `{"newStatus":"shipped","path":"/admin"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateOrderStatuses(t *testing.T) {
	svc := &stubService{bulkCount: 2}
	server := newTestServer(t, svc)

	a, b := uuid.NewString(), uuid.NewString()
	body := `{"orderIds":["` + a + `","` + b + `"],"newStatus":"exported","path":"/admin"}`
	resp := doRequest(t, http.MethodPost, server.URL+"/api/admin/orders/status", "test-token", body)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Updated int64 `json:"updated"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.EqualValues(t, 2, got.Updated)
	assert.Len(t, svc.gotBulkIDs, 2)
}

func TestUpdateOrderStatusesBadID(t *testing.T) {
	server := newTestServer(t, &stubService{})

	body := `{"orderIds":["not-a-uuid"],"newStatus":"exported","path":"/admin"}`
	resp := doRequest(t, http.MethodPost, server.URL+"/api/admin/orders/status", "test-token", body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEditOrder(t *testing.T) {
	svc := &stubService{
		updated: order.Order{ID: uuid.New(), City: "Casablanca"},
	}
	server := newTestServer(t, svc)

	url := server.URL + "/api/admin/orders/" + uuid.NewString()
	resp := doRequest(t, http.MethodPatch, url, "test-token", `{"city":"Casablanca","path":"/admin"}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.gotPatch.City)
	assert.Equal(t, "Casablanca", *svc.gotPatch.City)
	assert.Nil(t, svc.gotPatch.Color)
}

func TestEditOrderBadID(t *testing.T) {
	server := newTestServer(t, &stubService{})

	resp := doRequest(t, http.MethodPatch, server.URL+"/api/admin/orders/not-a-uuid", "test-token", `{"city":"Rabat"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
