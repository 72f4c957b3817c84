package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/repositories"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/event"
	"github.com/citizenjaivik/jaivik/pkg/response"
	"github.com/citizenjaivik/jaivik/pkg/sse"
)

// AdminOrderController serves the shop team's view of the ledger. Status
// changes made here also patch the buyer's KV history so the feedback flow
// sees orders become Delivered.
type AdminOrderController struct {
	ledger *repositories.OrderLedgerRepository
	orders *services.OrderService
	feed   *sse.Broker
}

func NewAdminOrderController(ledger *repositories.OrderLedgerRepository, orders *services.OrderService) *AdminOrderController {
	c := &AdminOrderController{ledger: ledger, orders: orders, feed: sse.NewBroker()}
	event.Listen("order.placed", func(payload interface{}) {
		if order, ok := payload.(models.Order); ok {
			c.feed.Publish("order.placed", order)
		}
	})
	return c
}

// List returns recent ledger orders with pagination.
func (c *AdminOrderController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, total, err := c.ledger.Recent(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}
	if records == nil {
		records = []models.OrderRecord{}
	}
	response.Success(w, map[string]interface{}{
		"orders": records,
		"total":  total,
	})
}

// Show returns one ledger order with its items.
func (c *AdminOrderController) Show(w http.ResponseWriter, r *http.Request) {
	record, err := c.ledger.ByOrderID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	response.Success(w, record)
}

// Stream pushes newly placed orders to the dashboard as server-sent events,
// with a heartbeat comment every 30 seconds to keep proxies from closing the
// connection.
func (c *AdminOrderController) Stream(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	msgs, cancel := c.feed.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			stream.Comment("keepalive")
		case m := <-msgs:
			stream.Send(m.Event, m.Data)
		}
		if stream.IsClosed() {
			return
		}
	}
}

// UpdateStatus sets the order status in the ledger and mirrors it into the
// customer's KV copies.
func (c *AdminOrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status" validate:"required,oneof=Processing Delivered Cancelled"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	record, err := c.ledger.UpdateStatus(orderID, body.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update order")
		return
	}

	if record.Phone != "" {
		c.orders.PatchHistoryStatus(record.Phone, orderID, body.Status)
	}
	response.Success(w, record)
}
