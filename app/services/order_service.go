package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/citizenjaivik/jaivik/app/jobs"
	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/config"
	"github.com/citizenjaivik/jaivik/pkg/bind"
	"github.com/citizenjaivik/jaivik/pkg/collection"
	"github.com/citizenjaivik/jaivik/pkg/event"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/logger"
	"github.com/citizenjaivik/jaivik/pkg/metrics"
	"github.com/citizenjaivik/jaivik/pkg/queue"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidCheckout = errors.New("checkout form is invalid")
)

// CheckoutInput is the delivery form submitted at checkout.
type CheckoutInput struct {
	Name    string `json:"name"    validate:"required,fullname"`
	Email   string `json:"email"   validate:"required,email"`
	Mobile  string `json:"mobile"  validate:"required,mobile10"`
	Address string `json:"address" validate:"required,min=10"`
	Pincode string `json:"pincode" validate:"required,delivery_pincode"`
}

// OrderService records checkouts. The KV order history is the source of
// truth; everything after that write (profile copy, ledger row, email,
// feedback reminder) is best-effort and never reverses the order.
type OrderService struct {
	store    kv.Store
	cart     *CartService
	profiles *ProfileService
	feedback *FeedbackService
	ledger   *gorm.DB // nil when no database is configured

	now func() time.Time
}

func NewOrderService(store kv.Store, cart *CartService, profiles *ProfileService, feedback *FeedbackService, ledger *gorm.DB) *OrderService {
	return &OrderService{
		store:    store,
		cart:     cart,
		profiles: profiles,
		feedback: feedback,
		ledger:   ledger,
		now:      time.Now,
	}
}

// Record places an order from the subject's current cart.
func (s *OrderService) Record(subject string, in CheckoutInput) (*models.Order, error) {
	if errs, err := bind.Struct(&in); err != nil || len(errs) > 0 {
		metrics.OrdersPlaced.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckout, errs)
	}

	cart := s.cart.Get(subject)
	if len(cart.Items) == 0 {
		metrics.OrdersPlaced.WithLabelValues("rejected").Inc()
		return nil, ErrEmptyCart
	}

	order := s.build(cart, in)

	// The history write makes the order real. Everything below is
	// best-effort.
	if err := s.prependHistory(subject, order); err != nil {
		metrics.OrdersPlaced.WithLabelValues("rejected").Inc()
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues("ok").Inc()

	phone := PhonePrefix + in.Mobile
	if err := s.profiles.AppendOrder(phone, order); err != nil {
		logger.Warn("order: profile append failed", "order", order.ID, "error", err)
	}

	s.mirrorToLedger(order, phone)

	if err := s.feedback.Schedule(subject, order.ID, order.OrderDate); err != nil {
		logger.Warn("order: feedback schedule failed", "order", order.ID, "error", err)
	}

	if err := queue.Dispatch(&jobs.OrderEmailJob{Order: order}); err != nil {
		logger.Warn("order: email dispatch failed", "order", order.ID, "error", err)
	}
	event.FireAsync("order.placed", order)

	if err := s.cart.Clear(subject); err != nil {
		logger.Warn("order: cart clear failed", "order", order.ID, "error", err)
	}

	logger.Info("order: recorded", "order", order.ID, "subject", subject, "total", order.TotalAmount)
	return &order, nil
}

// History returns the subject's orders, newest first.
func (s *OrderService) History(subject string) []models.Order {
	var orders []models.Order
	if s.store.Get(orderHistoryKey(subject), &orders) {
		metrics.KVHits.WithLabelValues("orders").Inc()
	} else {
		metrics.KVMisses.WithLabelValues("orders").Inc()
	}
	return orders
}

// DeliveryFee applies the free-delivery rule to a subtotal.
func DeliveryFee(subtotal float64) float64 {
	if subtotal >= config.FreeDeliveryThreshold() {
		return 0
	}
	return config.DeliveryFee()
}

func (s *OrderService) build(cart models.Cart, in CheckoutInput) models.Order {
	now := s.now().UTC()
	subtotal := cart.Total()
	fee := DeliveryFee(subtotal)

	return models.Order{
		ID:        fmt.Sprintf("MOB-%d", now.UnixMilli()),
		OrderDate: now.Format(time.RFC3339),
		Items: collection.Map(cart.Items, func(i models.CartItem) models.OrderItem {
			return models.OrderItem{
				Name:     i.Name,
				Price:    i.Price,
				Quantity: i.Quantity,
				Total:    i.LineTotal(),
			}
		}),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		TotalAmount: subtotal + fee,
		Customer: models.Customer{
			Name:   in.Name,
			Email:  in.Email,
			Mobile: in.Mobile,
		},
		Address:  fmt.Sprintf("%s - %s", in.Address, in.Pincode),
		Status:   models.OrderStatusProcessing,
		Platform: models.OrderPlatform,
	}
}

func (s *OrderService) prependHistory(subject string, order models.Order) error {
	history := s.History(subject)
	history = append([]models.Order{order}, history...)
	if err := s.store.Set(orderHistoryKey(subject), history, 0); err != nil {
		return fmt.Errorf("order: write history %s: %w", subject, err)
	}
	return nil
}

// PatchHistoryStatus rewrites the stored status for one order in the
// customer's history document and the profile's embedded copy. Used when the
// shop team moves an order to Delivered or Cancelled.
func (s *OrderService) PatchHistoryStatus(phone, orderID, status string) {
	var orders []models.Order
	if s.store.Get(orderHistoryKey(phone), &orders) {
		changed := false
		for i := range orders {
			if orders[i].ID == orderID {
				orders[i].Status = status
				changed = true
			}
		}
		if changed {
			if err := s.store.Set(orderHistoryKey(phone), orders, 0); err != nil {
				logger.Warn("order: history status patch failed", "order", orderID, "error", err)
			}
		}
	}

	if p, ok := s.profiles.Get(phone); ok {
		changed := false
		for i := range p.Orders {
			if p.Orders[i].ID == orderID {
				p.Orders[i].Status = status
				changed = true
			}
		}
		if changed {
			if err := s.profiles.save(p); err != nil {
				logger.Warn("order: profile status patch failed", "order", orderID, "error", err)
			}
		}
	}
}

func (s *OrderService) mirrorToLedger(order models.Order, phone string) {
	if s.ledger == nil {
		return
	}

	record := models.OrderRecord{
		OrderID:     order.ID,
		Phone:       phone,
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
		Address:     order.Address,
		Platform:    order.Platform,
		Items: collection.Map(order.Items, func(i models.OrderItem) models.OrderItemRecord {
			return models.OrderItemRecord{
				Name:     i.Name,
				Price:    i.Price,
				Quantity: i.Quantity,
				Total:    i.Total,
			}
		}),
	}

	if err := s.ledger.Create(&record).Error; err != nil {
		logger.Warn("order: ledger mirror failed", "order", order.ID, "error", err)
	}
}
