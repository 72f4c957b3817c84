package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/router"
)

type cartEnvelope struct {
	Status int `json:"status"`
	Data   struct {
		Items     []models.CartItem `json:"items"`
		Total     float64           `json:"total"`
		ItemCount int               `json:"itemCount"`
	} `json:"data"`
	Message string `json:"message"`
}

func newCartRig() http.Handler {
	cart := services.NewCartService(kv.NewMemory())
	c := NewCartController(cart)

	r := router.New()
	r.Use(middleware.Subject)
	grp := r.Group("/api/cart")
	grp.Get("", "", c.Show)
	grp.Post("", "", c.Add)
	grp.Delete("", "", c.Clear)
	grp.Put("/items/{id}", "", c.UpdateQuantity)
	grp.Delete("/items/{id}", "", c.Remove)
	return r.Handler()
}

func doCart(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, cartEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(middleware.DeviceHeader, "test-device")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env cartEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestCartEndpointsRoundTrip(t *testing.T) {
	h := newCartRig()

	rec, env := doCart(t, h, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data.Items)

	item := models.CartItem{ID: "p1", Name: "Desi Tomato", Price: 40, InStock: true, Quantity: 2}
	rec, env = doCart(t, h, http.MethodPost, "/api/cart", item)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.Data.Items, 1)
	assert.InDelta(t, 80, env.Data.Total, 0.001)
	assert.Equal(t, 2, env.Data.ItemCount)

	rec, env = doCart(t, h, http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, env.Data.Items[0].Quantity)

	rec, env = doCart(t, h, http.MethodDelete, "/api/cart/items/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data.Items)
}

func TestCartAddOutOfStockConflict(t *testing.T) {
	h := newCartRig()

	item := models.CartItem{ID: "p1", Name: "Desi Tomato", Price: 40, InStock: false, Quantity: 1}
	rec, env := doCart(t, h, http.MethodPost, "/api/cart", item)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, env.Message, "out of stock")
}

func TestCartAddRequiresProductID(t *testing.T) {
	h := newCartRig()

	rec, _ := doCart(t, h, http.MethodPost, "/api/cart", models.CartItem{Name: "No ID", InStock: true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartQuantityZeroRemovesViaEndpoint(t *testing.T) {
	h := newCartRig()

	doCart(t, h, http.MethodPost, "/api/cart", models.CartItem{ID: "p1", Price: 40, InStock: true, Quantity: 1})
	rec, env := doCart(t, h, http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 0})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data.Items)
}

func TestCartClearEndpoint(t *testing.T) {
	h := newCartRig()

	doCart(t, h, http.MethodPost, "/api/cart", models.CartItem{ID: "p1", Price: 40, InStock: true, Quantity: 3})
	rec, env := doCart(t, h, http.MethodDelete, "/api/cart", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.Data.Items)
	assert.Zero(t, env.Data.ItemCount)
}

func TestCartSubjectsSeparatedByDeviceHeader(t *testing.T) {
	h := newCartRig()

	doCart(t, h, http.MethodPost, "/api/cart", models.CartItem{ID: "p1", Price: 40, InStock: true, Quantity: 1})

	// A different device sees an empty cart.
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(middleware.DeviceHeader, "other-device")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env cartEnvelope
	json.Unmarshal(rec.Body.Bytes(), &env)
	assert.Empty(t, env.Data.Items)
}
