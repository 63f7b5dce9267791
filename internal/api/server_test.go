package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopwidget/internal/cartstore"
	"shopwidget/internal/config"
	"shopwidget/internal/images"
	"shopwidget/internal/logger"
	"shopwidget/internal/models"
	"shopwidget/internal/widget"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	dealers  []models.Dealer
	products []models.Product
}

func (s *stubSource) FetchDealers(context.Context) ([]models.Dealer, error) {
	return s.dealers, nil
}

func (s *stubSource) FetchProducts(context.Context, []string) ([]models.Product, error) {
	return s.products, nil
}

const placeholder = "https://via.placeholder.com/400x300?text=No+Image"

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := &stubSource{
		dealers: []models.Dealer{
			{ID: "d1", Name: "First"},
			{ID: "d2", Name: "Second"},
		},
		products: []models.Product{
			{ID: 1, Name: "Cheap", Price: 5, Image: "/img/1.png", Dealer: "d1"},
			{ID: 2, Name: "Mid", Price: 15, Image: "", Dealer: "d2"},
			{ID: 3, Name: "Dear", Price: 30, Image: "https://cdn.example.com/3.png", Dealer: "d1"},
		},
	}

	log := logger.New("error")
	store := widget.New(src, cartstore.NewMemory(cartstore.DefaultTTL), "cart:test", log)
	store.Initialize(context.Background(), nil)

	cfg := &config.Config{Env: "test", APIHost: "127.0.0.1", APIPort: "0"}
	resolver := images.NewResolver("https://assets.example.com", placeholder)

	return New(cfg, log, store, resolver).GetRouter()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]json.RawMessage
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func decodeProducts(t *testing.T, raw json.RawMessage) []models.Product {
	t.Helper()
	var products []models.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	return products
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t)
	w, _ := doJSON(t, router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCatalogHydratesFiltersFromQuery(t *testing.T) {
	router := newTestServer(t)

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/widget/catalog?dealers=d1&sort=desc", "")
	require.Equal(t, http.StatusOK, w.Code)

	products := decodeProducts(t, resp["data"])
	require.Len(t, products, 2)
	assert.Equal(t, int64(3), products[0].ID)
	assert.Equal(t, int64(1), products[1].ID)

	var query string
	require.NoError(t, json.Unmarshal(resp["query"], &query))
	assert.Equal(t, "dealers=d1&sort=desc", query)
}

func TestCatalogResolvesImages(t *testing.T) {
	router := newTestServer(t)

	_, resp := doJSON(t, router, http.MethodGet, "/api/v1/widget/catalog", "")
	products := decodeProducts(t, resp["data"])
	require.Len(t, products, 3)

	assert.Equal(t, "https://assets.example.com/img/1.png", products[0].Image)
	assert.Equal(t, placeholder, products[1].Image)
	assert.Equal(t, "https://cdn.example.com/3.png", products[2].Image)
}

func TestHomeEndpoint(t *testing.T) {
	router := newTestServer(t)

	w, resp := doJSON(t, router, http.MethodGet, "/api/v1/widget/home", "")
	require.Equal(t, http.StatusOK, w.Code)

	// Only two products clear the price threshold, so the carousel falls
	// back to the full (three item) list.
	products := decodeProducts(t, resp["data"])
	assert.Len(t, products, 3)
}

func TestCartLifecycle(t *testing.T) {
	router := newTestServer(t)

	body := `{"id":2,"name":"Mid","price":15,"image":"","dealer":"d2"}`
	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/widget/cart/items", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/widget/cart/items", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var count int
	require.NoError(t, json.Unmarshal(resp["count"], &count))
	assert.Equal(t, 2, count)

	var total float64
	require.NoError(t, json.Unmarshal(resp["total"], &total))
	assert.Equal(t, 30.0, total)

	// Decrementing an absent product changes nothing.
	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/widget/cart/items/99/decrement", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp["count"], &count))
	assert.Equal(t, 2, count)

	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/widget/cart/items/2/decrement", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp["count"], &count))
	assert.Equal(t, 1, count)

	w, resp = doJSON(t, router, http.MethodDelete, "/api/v1/widget/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp["count"], &count))
	assert.Equal(t, 0, count)
}

func TestRemoveItemDropsWholeLine(t *testing.T) {
	router := newTestServer(t)

	body := `{"id":1,"name":"Cheap","price":5,"image":"/img/1.png","dealer":"d1"}`
	doJSON(t, router, http.MethodPost, "/api/v1/widget/cart/items", body)
	doJSON(t, router, http.MethodPost, "/api/v1/widget/cart/items", body)

	w, resp := doJSON(t, router, http.MethodDelete, "/api/v1/widget/cart/items/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var count int
	require.NoError(t, json.Unmarshal(resp["count"], &count))
	assert.Equal(t, 0, count)
}

func TestToggleDealerFilterRoundTrip(t *testing.T) {
	router := newTestServer(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/v1/widget/filters/dealers/d1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var query string
	require.NoError(t, json.Unmarshal(resp["query"], &query))
	assert.Equal(t, "dealers=d1", query)

	w, resp = doJSON(t, router, http.MethodPost, "/api/v1/widget/filters/dealers/d1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(resp["query"], &query))
	assert.Empty(t, query)
}

func TestSetSort(t *testing.T) {
	router := newTestServer(t)

	w, resp := doJSON(t, router, http.MethodPut, "/api/v1/widget/filters/sort", `{"sort":"asc"}`)
	require.Equal(t, http.StatusOK, w.Code)

	products := decodeProducts(t, resp["data"])
	require.Len(t, products, 3)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(3), products[2].ID)

	// Values outside the enumeration mean natural order, not an error.
	w, resp = doJSON(t, router, http.MethodPut, "/api/v1/widget/filters/sort", `{"sort":"sideways"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var query string
	require.NoError(t, json.Unmarshal(resp["query"], &query))
	assert.Empty(t, query)
}

func TestBadProductIDRejected(t *testing.T) {
	router := newTestServer(t)

	w, _ := doJSON(t, router, http.MethodDelete, "/api/v1/widget/cart/items/banana", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
