package controllers

import (
	"errors"
	"net/http"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/response"
)

// OrderController handles checkout and order history.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Checkout records an order from the current cart.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())

	var in services.CheckoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Record(subject, in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			response.Error(w, http.StatusBadRequest, "Your cart is empty")
		case errors.Is(err, services.ErrInvalidCheckout):
			response.Error(w, http.StatusUnprocessableEntity, "Check your delivery details")
		default:
			response.Error(w, http.StatusInternalServerError, "Could not place order")
		}
		return
	}
	response.Created(w, order)
}

// History returns the subject's orders, newest first.
func (c *OrderController) History(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())

	orders := c.orders.History(subject)
	if orders == nil {
		orders = []models.Order{}
	}
	response.Success(w, orders)
}
