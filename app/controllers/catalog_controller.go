package controllers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/catalog"
	"github.com/citizenjaivik/jaivik/pkg/response"
	"github.com/citizenjaivik/jaivik/pkg/storage"
)

// CatalogController serves the product browse surface. Reads work the same
// against the remote client and the local table; writes exist only in local
// mode and are wired behind those routes by app/routes.
type CatalogController struct {
	source catalog.Source
	local  *catalog.Local // nil in remote mode
}

func NewCatalogController(source catalog.Source, local *catalog.Local) *CatalogController {
	return &CatalogController{source: source, local: local}
}

// Products lists products, optionally filtered by category, subCategory,
// search, and inStock query params.
func (c *CatalogController) Products(w http.ResponseWriter, r *http.Request) {
	products := c.source.AllProducts(r.Context())

	q := r.URL.Query()
	if category := q.Get("category"); category != "" {
		products = catalog.ByCategory(products, category)
	}
	if sub := q.Get("subCategory"); sub != "" {
		products = catalog.BySubCategory(products, sub)
	}
	if search := q.Get("search"); search != "" {
		products = catalog.Search(products, search)
	}
	if q.Get("inStock") == "true" {
		products = catalog.InStock(products)
	}

	if products == nil {
		products = []models.Product{}
	}
	response.Success(w, products)
}

// Product returns one product by id.
func (c *CatalogController) Product(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, ok := c.source.ProductByID(r.Context(), id)
	if !ok {
		response.NotFound(w)
		return
	}
	response.Success(w, product)
}

// Featured returns the home-screen shelf.
func (c *CatalogController) Featured(w http.ResponseWriter, r *http.Request) {
	featured := catalog.Featured(c.source.AllProducts(r.Context()))
	if featured == nil {
		featured = []models.Product{}
	}
	response.Success(w, featured)
}

// Categories lists the distinct categories.
func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	categories := catalog.Categories(c.source.AllProducts(r.Context()))
	if categories == nil {
		categories = []string{}
	}
	response.Success(w, categories)
}

// SubCategories lists the distinct sub-categories within a category.
func (c *CatalogController) SubCategories(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	subs := catalog.SubCategories(c.source.AllProducts(r.Context()), category)
	if subs == nil {
		subs = []string{}
	}
	response.Success(w, subs)
}

type productInput struct {
	Name           string  `json:"name"           validate:"required"`
	Category       string  `json:"category"       validate:"required"`
	SubCategory    string  `json:"subCategory"`
	Price          float64 `json:"price"          validate:"required,gt=0"`
	Unit           string  `json:"unit"           validate:"required"`
	FarmerName     string  `json:"farmerName"`
	FarmerDetails  string  `json:"farmerDetails"`
	ProductDetails string  `json:"productDetails"`
	InStock        bool    `json:"inStock"`
}

// CreateProduct adds a product to the local catalog.
func (c *CatalogController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p := models.Product{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Category:       in.Category,
		SubCategory:    in.SubCategory,
		Price:          in.Price,
		Unit:           in.Unit,
		FarmerName:     in.FarmerName,
		FarmerDetails:  in.FarmerDetails,
		ProductDetails: in.ProductDetails,
		InStock:        in.InStock,
	}
	if err := c.local.Save(r.Context(), &p); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save product")
		return
	}
	response.Created(w, p)
}

// UpdateProduct replaces a local product's fields.
func (c *CatalogController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := c.local.ProductByID(r.Context(), id)
	if !ok {
		response.NotFound(w)
		return
	}

	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	p.Name = in.Name
	p.Category = in.Category
	p.SubCategory = in.SubCategory
	p.Price = in.Price
	p.Unit = in.Unit
	p.FarmerName = in.FarmerName
	p.FarmerDetails = in.FarmerDetails
	p.ProductDetails = in.ProductDetails
	p.InStock = in.InStock

	if err := c.local.Save(r.Context(), &p); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save product")
		return
	}
	response.Success(w, p)
}

// DeleteProduct removes a local product.
func (c *CatalogController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.local.Delete(r.Context(), id); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not delete product")
		return
	}
	response.Success(w, map[string]string{"deleted": id})
}

// UploadImage stores a product image on the configured disk and records its
// URL on the product.
func (c *CatalogController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := c.local.ProductByID(r.Context(), id)
	if !ok {
		response.NotFound(w)
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	path := fmt.Sprintf("products/%s/%d%s", id, time.Now().UnixMilli(), filepath.Ext(header.Filename))
	if err := storage.PutStream(path, io.LimitReader(file, 8<<20)); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not store image")
		return
	}

	p.Image = storage.URL(path)
	if err := c.local.Save(r.Context(), &p); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save product")
		return
	}
	response.Success(w, p)
}
