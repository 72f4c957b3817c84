package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenjaivik/jaivik/app/models"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "Desi Tomato", Category: "Vegetables", SubCategory: "Daily Veggies", FarmerName: "Ramesh Kumar", InStock: true},
		{ID: "p2", Name: "Alphonso Mango", Category: "Fruits", SubCategory: "Seasonal", FarmerName: "Sita Devi", InStock: true},
		{ID: "p3", Name: "Black Rice", Category: "Grains", SubCategory: "Rice", FarmerName: "Ramesh Kumar", InStock: false},
		{ID: "p4", Name: "Spinach", Category: "Vegetables", SubCategory: "Leafy Greens", FarmerName: "Anil Singh", InStock: true},
	}
}

func TestSearchMatchesAcrossFields(t *testing.T) {
	products := sampleProducts()

	assert.Len(t, Search(products, "tomato"), 1)
	assert.Len(t, Search(products, "VEGETABLES"), 2)
	assert.Len(t, Search(products, "ramesh"), 2)
	assert.Len(t, Search(products, "leafy"), 1)
	assert.Empty(t, Search(products, "quinoa"))
	// Blank query returns everything.
	assert.Len(t, Search(products, "  "), 4)
}

func TestCategoriesAndSubCategories(t *testing.T) {
	products := sampleProducts()

	assert.Equal(t, []string{"Fruits", "Grains", "Vegetables"}, Categories(products))
	assert.Equal(t, []string{"Daily Veggies", "Leafy Greens"}, SubCategories(products, "Vegetables"))
	assert.Empty(t, SubCategories(products, "Dairy"))
}

func TestFeaturedIsFirstInStock(t *testing.T) {
	var products []models.Product
	for i := 0; i < 10; i++ {
		products = append(products, models.Product{
			ID:      string(rune('a' + i)),
			InStock: i != 2, // one gap in the middle
		})
	}

	featured := Featured(products)
	require.Len(t, featured, FeaturedCount)
	for _, p := range featured {
		assert.True(t, p.InStock)
	}
	assert.NotContains(t, featured, products[2])
}

func TestClientAllProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"_id":"p1","name":"Desi Tomato","inStock":true}]`))
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, timeout: 2 * time.Second}
	products := c.AllProducts(context.Background())
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "Desi Tomato", products[0].Name)
}

func TestClientAllProductsNonArrayBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, timeout: 2 * time.Second}
	assert.Empty(t, c.AllProducts(context.Background()))
}

func TestClientAllProductsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, timeout: 2 * time.Second}
	assert.Empty(t, c.AllProducts(context.Background()))
}

func TestClientProductByIDFallsBackToScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			w.Write([]byte(`[{"_id":"p1","name":"Desi Tomato"},{"_id":"p2","name":"Spinach"}]`))
		default:
			// Direct product route not available on this deployment.
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := &Client{baseURL: srv.URL, timeout: 2 * time.Second}

	p, ok := c.ProductByID(context.Background(), "p2")
	require.True(t, ok)
	assert.Equal(t, "Spinach", p.Name)

	_, ok = c.ProductByID(context.Background(), "missing")
	assert.False(t, ok)
}
