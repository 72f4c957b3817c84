package catalog

import (
	"context"
	"time"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/http"
	"github.com/citizenjaivik/jaivik/pkg/logger"
)

// Client reads products from the hosted catalog API.
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient builds a Client against CATALOG_BASE_URL.
func NewClient() *Client {
	return &Client{
		baseURL: config.CatalogBaseURL(),
		timeout: 10 * time.Second,
	}
}

// AllProducts fetches the full product list. Any failure, non-2xx status, or
// a body that is not a JSON array yields an empty list.
func (c *Client) AllProducts(ctx context.Context) []models.Product {
	resp, err := http.Get(c.baseURL + "/products").
		Timeout(c.timeout).
		Retry(2, 500*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		logger.Warn("catalog: fetch products failed", "error", err)
		return nil
	}
	if !resp.OK() {
		logger.Warn("catalog: fetch products bad status", "status", resp.StatusCode)
		return nil
	}

	var products []models.Product
	if err := resp.JSON(&products); err != nil {
		// The API occasionally serves an error object instead of an array.
		logger.Warn("catalog: products payload not an array", "error", err)
		return nil
	}
	return products
}

// ProductByID fetches one product directly, falling back to a scan of the
// full list when the direct route fails.
func (c *Client) ProductByID(ctx context.Context, id string) (models.Product, bool) {
	resp, err := http.Get(c.baseURL + "/products/" + id).
		Timeout(c.timeout).
		WithContext(ctx).
		Send()
	if err == nil && resp.OK() {
		var p models.Product
		if err := resp.JSON(&p); err == nil && p.ID != "" {
			return p, true
		}
	}

	for _, p := range c.AllProducts(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
