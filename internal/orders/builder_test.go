package orders

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahmentor/smi-payment-api/internal/catalog"
)

var testPrices = map[string]catalog.Product{
	"community": {ID: "community", Name: "Program Mentoring Community", Price: 50000},
	"private":   {ID: "private", Name: "Program Mentoring Private", Price: 150000},
}

var testCustomer = Customer{Name: "Budi", Email: "budi@mail.com", Phone: "0812"}

func TestBuild_GrossAmountFromServerPrices(t *testing.T) {
	order, items, err := Build(testCustomer,
		[]CartItem{{ProductID: "community", Qty: 1}}, testPrices, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(50000), order.GrossAmount)
	assert.Equal(t, StatusPending, order.Status)
	require.Len(t, items, 1)
	assert.Equal(t, int64(50000), items[0].Price)
	assert.Equal(t, "Program Mentoring Community", items[0].Name)
}

func TestBuild_MultipleItems(t *testing.T) {
	order, _, err := Build(testCustomer, []CartItem{
		{ProductID: "community", Qty: 2},
		{ProductID: "private", Qty: 1},
	}, testPrices, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2*50000+150000), order.GrossAmount)
}

func TestBuild_UnknownProduct(t *testing.T) {
	_, _, err := Build(testCustomer,
		[]CartItem{{ProductID: "platinum", Qty: 1}}, testPrices, 10)
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestBuild_InvalidQty(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, _, err := Build(testCustomer,
			[]CartItem{{ProductID: "community", Qty: qty}}, testPrices, 10)
		assert.ErrorIs(t, err, ErrInvalidQty, "qty %d", qty)
	}
}

func TestBuild_EmptyCart(t *testing.T) {
	_, _, err := Build(testCustomer, nil, testPrices, 10)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuild_OversizedCart(t *testing.T) {
	cart := make([]CartItem, 11)
	for i := range cart {
		cart[i] = CartItem{ProductID: "community", Qty: 1}
	}
	_, _, err := Build(testCustomer, cart, testPrices, 10)
	assert.ErrorIs(t, err, ErrCartTooLarge)
}

func TestNewOrderID_Pattern(t *testing.T) {
	pattern := regexp.MustCompile(`^SMI-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "order id collision: %s", id)
		seen[id] = true
	}
}
