package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sekolahmentor/smi-payment-api/internal/catalog"
)

// OrderIDPrefix memisahkan namespace order SMI dari order id lain di
// akun gateway yang sama.
const OrderIDPrefix = "SMI-"

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrCartTooLarge   = errors.New("too many cart items")
	ErrUnknownProduct = errors.New("unknown product")
	ErrInvalidQty     = errors.New("invalid quantity")
)

// CartItem: input dari client. Field harga yang mungkin ikut terkirim
// sudah dibuang di layer decode; di sini tinggal id + qty.
type CartItem struct {
	ProductID string
	Qty       int
}

// NewOrderID: prefix + uuid v4 (crypto/rand di baliknya), cukup entropi
// supaya order id tidak bisa ditebak/enumerasi.
func NewOrderID() string {
	return OrderIDPrefix + uuid.NewString()
}

// Build memvalidasi cart terhadap katalog server dan menghitung ulang
// gross amount dari harga server. Harga kiriman client tidak pernah dipakai.
func Build(cust Customer, cart []CartItem, prices map[string]catalog.Product, maxItems int) (*Order, []Item, error) {
	if len(cart) == 0 {
		return nil, nil, ErrEmptyCart
	}
	if maxItems > 0 && len(cart) > maxItems {
		return nil, nil, fmt.Errorf("%w: got %d, max %d", ErrCartTooLarge, len(cart), maxItems)
	}

	var gross int64
	items := make([]Item, 0, len(cart))
	for _, it := range cart {
		p, ok := prices[it.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProduct, it.ProductID)
		}
		if it.Qty <= 0 {
			return nil, nil, fmt.Errorf("%w: product %s qty %d", ErrInvalidQty, it.ProductID, it.Qty)
		}
		gross += p.Price * int64(it.Qty)
		items = append(items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       it.Qty,
			Price:     p.Price,
		})
	}

	now := time.Now().UTC()
	order := &Order{
		ID:          NewOrderID(),
		Customer:    cust,
		GrossAmount: gross,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return order, items, nil
}
