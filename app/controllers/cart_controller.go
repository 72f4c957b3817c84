package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/response"
)

// CartController exposes the per-subject cart. Guests shop too, keyed by
// device id, so none of these routes require a session.
type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

func cartPayload(cart models.Cart) map[string]interface{} {
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return map[string]interface{}{
		"items":     items,
		"total":     cart.Total(),
		"itemCount": cart.ItemCount(),
	}
}

// Show returns the cart with its derived totals.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())
	response.Success(w, cartPayload(c.cart.Get(subject)))
}

// Add puts a product snapshot in the cart.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())

	var item models.CartItem
	if errs, err := bind.JSON(r, &item); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	if item.ID == "" {
		response.Error(w, http.StatusBadRequest, "Product id is required")
		return
	}

	cart, err := c.cart.Add(subject, item)
	if err != nil {
		if errors.Is(err, services.ErrOutOfStock) {
			response.Error(w, http.StatusConflict, "This product is out of stock")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update cart")
		return
	}
	response.Success(w, cartPayload(cart))
}

// UpdateQuantity sets a line's quantity; zero or below removes it.
func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())
	productID := chi.URLParam(r, "id")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if _, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cart, err := c.cart.UpdateQuantity(subject, productID, body.Quantity)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not update cart")
		return
	}
	response.Success(w, cartPayload(cart))
}

// Remove drops a line from the cart.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())
	productID := chi.URLParam(r, "id")

	cart, err := c.cart.Remove(subject, productID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not update cart")
		return
	}
	response.Success(w, cartPayload(cart))
}

// Clear empties the cart entirely.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())

	if err := c.cart.Clear(subject); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not clear cart")
		return
	}
	response.Success(w, cartPayload(models.Cart{}))
}
