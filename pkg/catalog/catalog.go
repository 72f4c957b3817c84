// Package catalog serves the product catalog. Two sources implement the same
// interface: Client fetches from the hosted catalog API, Local reads the
// products table. Filtering and search always run over the full product list
// so both sources behave identically.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/collection"
)

// Source yields products. Implementations never return errors on the read
// path: a failed fetch logs and yields an empty list so screens degrade to
// "no products" instead of breaking.
type Source interface {
	AllProducts(ctx context.Context) []models.Product
	ProductByID(ctx context.Context, id string) (models.Product, bool)
}

// FeaturedCount is how many in-stock products the featured shelf holds.
const FeaturedCount = 6

// ByCategory filters products by exact category match.
func ByCategory(products []models.Product, category string) []models.Product {
	return collection.Filter(products, func(p models.Product) bool {
		return p.Category == category
	})
}

// BySubCategory filters products by exact sub-category match.
func BySubCategory(products []models.Product, subCategory string) []models.Product {
	return collection.Filter(products, func(p models.Product) bool {
		return p.SubCategory == subCategory
	})
}

// Search matches the query case-insensitively against name, category,
// sub-category, and farmer name.
func Search(products []models.Product, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}
	return collection.Filter(products, func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.SubCategory), q) ||
			strings.Contains(strings.ToLower(p.FarmerName), q)
	})
}

// Categories returns the distinct categories, sorted.
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// SubCategories returns the distinct sub-categories within a category, sorted.
func SubCategories(products []models.Product, category string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range ByCategory(products, category) {
		if p.SubCategory != "" && !seen[p.SubCategory] {
			seen[p.SubCategory] = true
			out = append(out, p.SubCategory)
		}
	}
	sort.Strings(out)
	return out
}

// InStock filters out products currently marked out of stock.
func InStock(products []models.Product) []models.Product {
	return collection.Filter(products, func(p models.Product) bool {
		return p.InStock
	})
}

// Featured returns the first FeaturedCount in-stock products in catalog order.
func Featured(products []models.Product) []models.Product {
	return collection.Take(InStock(products), FeaturedCount)
}
