package controllers

import (
	"fmt"
	"net/http"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/app/services"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/logger"
	"github.com/citizenjaivik/jaivik/pkg/mail"
	"github.com/citizenjaivik/jaivik/pkg/middleware"
	"github.com/citizenjaivik/jaivik/pkg/response"
)

// FeedbackController surfaces which orders still want a review and records
// submitted feedback.
type FeedbackController struct {
	feedback *services.FeedbackService
	orders   *services.OrderService
}

func NewFeedbackController(feedback *services.FeedbackService, orders *services.OrderService) *FeedbackController {
	return &FeedbackController{feedback: feedback, orders: orders}
}

// EligibleOrders lists orders the subject can still review.
func (c *FeedbackController) EligibleOrders(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())

	eligible := c.feedback.Eligible(subject, c.orders.History(subject))
	if eligible == nil {
		eligible = []models.Order{}
	}
	response.Success(w, eligible)
}

// Pending returns the subject's reminder document so the client can show
// in-app badges.
func (c *FeedbackController) Pending(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())

	pending := c.feedback.Pending(subject)
	if pending == nil {
		pending = []models.FeedbackNotification{}
	}
	response.Success(w, pending)
}

// Submit records feedback for an order, marks it reviewed, and forwards the
// text to the shop inbox.
func (c *FeedbackController) Submit(w http.ResponseWriter, r *http.Request) {
	subject := middleware.SubjectFromCtx(r.Context())

	var body struct {
		OrderID string `json:"orderId" validate:"required"`
		Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"max=2000"`
	}
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := c.feedback.MarkFeedbackGiven(subject, body.OrderID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not record feedback")
		return
	}

	// Best-effort forward; the recorded flag is what matters.
	go func() {
		err := mail.To(config.OrdersEmail()).
			Subject(fmt.Sprintf("Feedback for %s: %d/5", body.OrderID, body.Rating)).
			Text(fmt.Sprintf("Order: %s\nRating: %d/5\nFrom: %s\n\n%s",
				body.OrderID, body.Rating, subject, body.Comment)).
			Send()
		if err != nil {
			logger.Warn("feedback: mail forward failed", "order", body.OrderID, "error", err)
		}
	}()

	response.Success(w, map[string]bool{"recorded": true})
}
