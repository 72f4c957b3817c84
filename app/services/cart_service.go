package services

import (
	"errors"
	"fmt"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/event"
	"github.com/citizenjaivik/jaivik/pkg/kv"
	"github.com/citizenjaivik/jaivik/pkg/metrics"
)

// ErrOutOfStock rejects adds for products whose stock flag is off. The cart
// is not touched.
var ErrOutOfStock = errors.New("product is out of stock")

// CartService persists one cart document per subject. Every mutation is a
// whole-document read-modify-write; interleaved writers to the same subject
// can lose updates, which matches how the mobile client has always behaved.
type CartService struct {
	store kv.Store
}

func NewCartService(store kv.Store) *CartService {
	return &CartService{store: store}
}

// Get loads the subject's cart. An absent or unreadable document is an
// empty cart, never an error.
func (s *CartService) Get(subject string) models.Cart {
	var items []models.CartItem
	if s.store.Get(cartKey(subject), &items) {
		metrics.KVHits.WithLabelValues("cart").Inc()
	} else {
		metrics.KVMisses.WithLabelValues("cart").Inc()
	}
	return models.Cart{Items: items}
}

// Add puts a product snapshot in the cart. If a line for the same product
// already exists its quantity is incremented instead.
func (s *CartService) Add(subject string, item models.CartItem) (models.Cart, error) {
	if !item.InStock {
		return s.Get(subject), ErrOutOfStock
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart := s.Get(subject)
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(subject, cart); err != nil {
		return cart, err
	}
	metrics.CartOps.WithLabelValues("add").Inc()
	event.FireAsync("cart.updated", subject)
	return cart, nil
}

// UpdateQuantity sets a line's quantity to an absolute value. Zero or
// negative removes the line. Unknown product ids are a no-op.
func (s *CartService) UpdateQuantity(subject, productID string, quantity int) (models.Cart, error) {
	if quantity <= 0 {
		return s.Remove(subject, productID)
	}

	cart := s.Get(subject)
	changed := false
	for i := range cart.Items {
		if cart.Items[i].ID == productID {
			cart.Items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		return cart, nil
	}

	if err := s.save(subject, cart); err != nil {
		return cart, err
	}
	metrics.CartOps.WithLabelValues("set_quantity").Inc()
	event.FireAsync("cart.updated", subject)
	return cart, nil
}

// Remove drops a line from the cart. Unknown product ids are a no-op.
func (s *CartService) Remove(subject, productID string) (models.Cart, error) {
	cart := s.Get(subject)
	kept := cart.Items[:0:0]
	for _, item := range cart.Items {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return cart, nil
	}
	cart.Items = kept

	if err := s.save(subject, cart); err != nil {
		return cart, err
	}
	metrics.CartOps.WithLabelValues("remove").Inc()
	event.FireAsync("cart.updated", subject)
	return cart, nil
}

// Clear deletes the cart document entirely.
func (s *CartService) Clear(subject string) error {
	if err := s.store.Del(cartKey(subject)); err != nil {
		return fmt.Errorf("cart: clear %s: %w", subject, err)
	}
	metrics.CartOps.WithLabelValues("clear").Inc()
	event.FireAsync("cart.updated", subject)
	return nil
}

func (s *CartService) save(subject string, cart models.Cart) error {
	if err := s.store.Set(cartKey(subject), cart.Items, 0); err != nil {
		return fmt.Errorf("cart: save %s: %w", subject, err)
	}
	return nil
}
