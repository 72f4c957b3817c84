package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/kv"
)

func validCheckout() CheckoutInput {
	return CheckoutInput{
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Mobile:  testMobile,
		Address: "12 Boring Road, Patna",
		Pincode: "800001",
	}
}

func newOrderFixture() (*OrderService, *CartService, *ProfileService, *FeedbackService) {
	store := kv.NewMemory()
	cart := NewCartService(store)
	profiles := NewProfileService(store)
	feedback := NewFeedbackService(store, PrompterFunc(func(string, models.FeedbackNotification) {}))
	orders := NewOrderService(store, cart, profiles, feedback, nil)
	return orders, cart, profiles, feedback
}

func TestRecordWritesHistoryNewestFirst(t *testing.T) {
	orders, cart, _, _ := newOrderFixture()

	cart.Add("guest", testItem("p1", 100, 2))
	first, err := orders.Record("guest", validCheckout())
	require.NoError(t, err)

	cart.Add("guest", testItem("p2", 50, 1))
	// Order ids derive from a millisecond timestamp.
	time.Sleep(2 * time.Millisecond)
	second, err := orders.Record("guest", validCheckout())
	require.NoError(t, err)

	history := orders.History("guest")
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)
	assert.True(t, strings.HasPrefix(first.ID, "MOB-"))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRecordAppliesDeliveryFeeRule(t *testing.T) {
	orders, cart, _, _ := newOrderFixture()

	// Subtotal 450: flat fee applies, final total lands exactly on the
	// threshold but still pays it.
	cart.Add("guest", testItem("p1", 450, 1))
	order, err := orders.Record("guest", validCheckout())
	require.NoError(t, err)
	assert.InDelta(t, 450, order.Subtotal, 0.001)
	assert.InDelta(t, 50, order.DeliveryFee, 0.001)
	assert.InDelta(t, 500, order.TotalAmount, 0.001)

	// Subtotal 500: free delivery.
	cart.Add("guest", testItem("p2", 500, 1))
	order, err = orders.Record("guest", validCheckout())
	require.NoError(t, err)
	assert.InDelta(t, 0, order.DeliveryFee, 0.001)
	assert.InDelta(t, 500, order.TotalAmount, 0.001)
}

func TestRecordSnapshotsLineItems(t *testing.T) {
	orders, cart, _, _ := newOrderFixture()
	cart.Add("guest", testItem("p1", 40, 3))

	order, err := orders.Record("guest", validCheckout())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "Desi Tomato", order.Items[0].Name)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.InDelta(t, 120, order.Items[0].Total, 0.001)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, models.OrderPlatform, order.Platform)
	assert.Contains(t, order.Address, "800001")
}

func TestRecordClearsCartAndSchedulesFeedback(t *testing.T) {
	orders, cart, _, feedback := newOrderFixture()
	cart.Add("guest", testItem("p1", 40, 1))

	order, err := orders.Record("guest", validCheckout())
	require.NoError(t, err)

	assert.Empty(t, cart.Get("guest").Items)

	pending := feedback.Pending("guest")
	require.Len(t, pending, 1)
	assert.Equal(t, order.ID, pending[0].OrderID)
}

func TestRecordAppendsToExistingProfile(t *testing.T) {
	orders, cart, profiles, _ := newOrderFixture()
	signedUpProfile(t, profiles)

	cart.Add(testPhone, testItem("p1", 40, 1))
	order, err := orders.Record(testPhone, validCheckout())
	require.NoError(t, err)

	p, ok := profiles.Get(testPhone)
	require.True(t, ok)
	require.Len(t, p.Orders, 1)
	assert.Equal(t, order.ID, p.Orders[0].ID)
}

func TestRecordRejectsEmptyCart(t *testing.T) {
	orders, _, _, _ := newOrderFixture()

	_, err := orders.Record("guest", validCheckout())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestRecordRejectsInvalidForm(t *testing.T) {
	orders, cart, _, _ := newOrderFixture()
	cart.Add("guest", testItem("p1", 40, 1))

	cases := []func(*CheckoutInput){
		func(in *CheckoutInput) { in.Name = "Asha" },
		func(in *CheckoutInput) { in.Mobile = "12345" },
		func(in *CheckoutInput) { in.Email = "not-an-email" },
		func(in *CheckoutInput) { in.Address = "short" },
		func(in *CheckoutInput) { in.Pincode = "110001" },
	}

	for _, mutate := range cases {
		in := validCheckout()
		mutate(&in)
		_, err := orders.Record("guest", in)
		assert.ErrorIs(t, err, ErrInvalidCheckout)
	}

	// Nothing was written.
	assert.Empty(t, orders.History("guest"))
	assert.Len(t, cart.Get("guest").Items, 1)
}
