package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisscruza/variantbox/internal/catalog"
	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/notify"
)

type serverFixture struct {
	router  http.Handler
	dbMock  sqlmock.Sqlmock
	service *notify.Service
	tokens  *notify.TokenIssuer
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	log := logger.NewTestLogger(t)
	catalogStore := catalog.NewStore(db, log)
	adapter := catalog.NewAdapter(catalogStore, rdb, time.Minute, log)
	tokens := notify.NewTokenIssuer(rdb, time.Minute, log)
	service := notify.NewService(notify.NewStore(db), tokens, catalogStore, nil, nil, log)
	t.Cleanup(service.Close)

	router := New(Deps{
		Catalog:  adapter,
		Products: catalogStore,
		Notify:   service,
		Tokens:   tokens,
		Logger:   log,
	})

	return &serverFixture{router: router, dbMock: dbMock, service: service, tokens: tokens}
}

func (f *serverFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (f *serverFixture) fetchToken(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/api/notify-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	token, _ := resp.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRouter_Healthz(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_SubmitNotifyRequest(t *testing.T) {
	f := newServerFixture(t)

	f.dbMock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	f.dbMock.ExpectQuery("INSERT INTO variant_notify_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))

	rec := f.do(t, http.MethodPost, "/api/notify-requests", map[string]interface{}{
		"securityToken": f.fetchToken(t),
		"email":         "customer@example.com",
		"productId":     42,
		"variationId":   7,
		"attribute":     "attribute_color",
		"value":         "blue",
		"label":         "Blue",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Registration successful", resp.Message)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestRouter_SubmitNotifyRequest_Duplicate(t *testing.T) {
	f := newServerFixture(t)

	f.dbMock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rec := f.do(t, http.MethodPost, "/api/notify-requests", map[string]interface{}{
		"securityToken": f.fetchToken(t),
		"email":         "customer@example.com",
		"productId":     42,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "You are already registered for notifications", resp.Message)
}

func TestRouter_SubmitNotifyRequest_SchemaRejections(t *testing.T) {
	f := newServerFixture(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name: "missing email",
			payload: map[string]interface{}{
				"securityToken": "tok",
				"productId":     42,
			},
		},
		{
			name: "missing token",
			payload: map[string]interface{}{
				"email":     "customer@example.com",
				"productId": 42,
			},
		},
		{
			name: "product id below minimum",
			payload: map[string]interface{}{
				"securityToken": "tok",
				"email":         "customer@example.com",
				"productId":     0,
			},
		},
		{
			name: "unknown field",
			payload: map[string]interface{}{
				"securityToken": "tok",
				"email":         "customer@example.com",
				"productId":     42,
				"unexpected":    true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/notify-requests", tt.payload)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRouter_SubmitNotifyRequest_InvalidToken(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/notify-requests", map[string]interface{}{
		"securityToken": "never-issued",
		"email":         "customer@example.com",
		"productId":     42,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Security verification failed", resp.Message)
}

func TestRouter_SubmitNotifyRequest_MalformedBody(t *testing.T) {
	f := newServerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/notify-requests", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RenderBoxes(t *testing.T) {
	f := newServerFixture(t)

	f.dbMock.ExpectQuery("SELECT id, name FROM products").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(42), "Wool Sweater"))
	f.dbMock.ExpectQuery("FROM product_attributes").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "label", "value"}).
			AddRow("attribute_color", "Red", "red").
			AddRow("attribute_color", "Blue", "blue"))
	f.dbMock.ExpectQuery("FROM product_variations").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "attributes", "in_stock"}).
			AddRow(int64(1), []byte(`{"attribute_color":"red"}`), true))

	rec := f.do(t, http.MethodGet, "/api/products/42/boxes", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	assert.Equal(t, float64(42), resp.Data["productId"])
	assert.Equal(t, true, resp.Data["hideNativeSelector"], "single attribute hides the native selector")

	attrs, ok := resp.Data["attributes"].([]interface{})
	require.True(t, ok)
	require.Len(t, attrs, 1)
	html := fmt.Sprintf("%v", attrs[0].(map[string]interface{})["html"])
	assert.Contains(t, html, "out-of-stock")
	assert.Contains(t, html, `data-value="red"`)
}

func TestRouter_RenderBoxes_UnknownProduct(t *testing.T) {
	f := newServerFixture(t)

	f.dbMock.ExpectQuery("SELECT id, name FROM products").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	rec := f.do(t, http.MethodGet, "/api/products/999/boxes", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RenderBoxes_BadProductID(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/products/abc/boxes", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
