package orders

import "time"

// Customer: data kontak dari form checkout. Dipakai untuk transaksi Snap
// dan kuitansi, tidak pernah menentukan harga.
type Customer struct {
	Name  string `json:"first_name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Order struct {
	ID          string
	Customer    Customer
	GrossAmount int64
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item: line item dengan harga hasil resolve server (price authority).
type Item struct {
	ProductID string
	Name      string
	Qty       int
	Price     int64
}
