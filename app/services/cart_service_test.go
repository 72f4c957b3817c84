package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citizenjaivik/jaivik/app/models"
	"github.com/citizenjaivik/jaivik/pkg/kv"
)

func testItem(id string, price float64, qty int) models.CartItem {
	return models.CartItem{
		ID:       id,
		Name:     "Desi Tomato",
		Category: "Vegetables",
		Price:    price,
		Unit:     "kg",
		InStock:  true,
		Quantity: qty,
	}
}

func TestCartGetEmptyWhenAbsent(t *testing.T) {
	s := NewCartService(kv.NewMemory())

	cart := s.Get("guest")
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total())
	assert.Zero(t, cart.ItemCount())
}

func TestCartGetEmptyWhenMalformed(t *testing.T) {
	store := kv.NewMemory()
	store.SetRaw(cartKey("guest"), []byte("{not json"))
	s := NewCartService(store)

	assert.Empty(t, s.Get("guest").Items)
}

func TestCartAddMergesByProductID(t *testing.T) {
	s := NewCartService(kv.NewMemory())

	_, err := s.Add("guest", testItem("p1", 40, 1))
	require.NoError(t, err)
	cart, err := s.Add("guest", testItem("p1", 40, 2))
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 120, cart.Total(), 0.001)
}

func TestCartAddRejectsOutOfStock(t *testing.T) {
	s := NewCartService(kv.NewMemory())

	item := testItem("p1", 40, 1)
	item.InStock = false

	cart, err := s.Add("guest", item)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, cart.Items)
}

func TestCartUpdateQuantitySetsAbsolute(t *testing.T) {
	s := NewCartService(kv.NewMemory())
	s.Add("guest", testItem("p1", 40, 2))

	cart, err := s.UpdateQuantity("guest", "p1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartUpdateQuantityZeroRemovesLine(t *testing.T) {
	s := NewCartService(kv.NewMemory())
	s.Add("guest", testItem("p1", 40, 2))
	s.Add("guest", testItem("p2", 60, 1))

	cart, err := s.UpdateQuantity("guest", "p1", 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ID)

	cart, err = s.UpdateQuantity("guest", "p2", -3)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartRemoveUnknownIsNoOp(t *testing.T) {
	s := NewCartService(kv.NewMemory())
	s.Add("guest", testItem("p1", 40, 1))

	cart, err := s.Remove("guest", "missing")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestCartClearDeletesDocument(t *testing.T) {
	store := kv.NewMemory()
	s := NewCartService(store)
	s.Add("guest", testItem("p1", 40, 1))

	require.NoError(t, s.Clear("guest"))

	var raw []models.CartItem
	assert.False(t, store.Get(cartKey("guest"), &raw))
}

func TestCartsAreIsolatedPerSubject(t *testing.T) {
	s := NewCartService(kv.NewMemory())
	s.Add("device:abc", testItem("p1", 40, 1))
	s.Add("+919876543210", testItem("p2", 60, 2))

	assert.Len(t, s.Get("device:abc").Items, 1)
	assert.Len(t, s.Get("+919876543210").Items, 1)
	assert.Empty(t, s.Get("guest").Items)
}
