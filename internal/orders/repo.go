package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

// TransitionResult: hasil ApplyStatus. Webhook yang sama bisa datang lebih
// dari sekali, jadi no-op dan superseded bukan error.
type TransitionResult int

const (
	TransitionApplied TransitionResult = iota
	// TransitionNoOp: status tujuan sama dengan status sekarang (redelivery).
	TransitionNoOp
	// TransitionSuperseded: status sekarang lebih tinggi precedence-nya;
	// transisi ditolak, bukan overwrite.
	TransitionSuperseded
)

type Repo struct{ DB *pgxpool.Pool }

// Create menyimpan order + items dalam satu transaksi.
func (r *Repo) Create(ctx context.Context, o *Order, items []Item) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, customer_name, customer_email, customer_phone, gross_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.Customer.Name, o.Customer.Email, o.Customer.Phone, o.GrossAmount, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return err
	}

	for _, it := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, name, qty, price)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID, it.ProductID, it.Name, it.Qty, it.Price,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer_name, customer_email, customer_phone, gross_amount, status, created_at, updated_at
		FROM orders WHERE id=$1`, orderID).Scan(
		&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
		&o.GrossAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ApplyStatus: compare-and-set sesuai trust policy. UPDATE hanya kena kalau
// status sekarang termasuk predecessor yang sah; kalau tidak, baca status
// aktual untuk membedakan redelivery dari konflik precedence.
func (r *Repo) ApplyStatus(ctx context.Context, orderID string, next Status) (TransitionResult, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now()
		WHERE id=$1 AND status = ANY($3)`,
		orderID, next, allowedFrom(next),
	)
	if err != nil {
		return TransitionNoOp, err
	}
	if ct.RowsAffected() == 1 {
		return TransitionApplied, nil
	}

	var current Status
	err = r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return TransitionNoOp, ErrNotFound
	}
	if err != nil {
		return TransitionNoOp, err
	}
	if current == next {
		return TransitionNoOp, nil
	}
	return TransitionSuperseded, nil
}

// MarkEventProcessed: catatan idempoten per (order_id, transaction_status).
// Return false kalau notifikasi yang sama sudah pernah diproses.
func (r *Repo) MarkEventProcessed(ctx context.Context, notificationKey string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO payment_events(notification_key) VALUES ($1)
		ON CONFLICT (notification_key) DO NOTHING`, notificationKey)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// FindStuck: order yang masih PENDING/WAITING melewati threshold; kandidat
// reconciliation terhadap status gateway.
func (r *Repo) FindStuck(ctx context.Context, olderThan time.Duration, limit int) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, customer_name, customer_email, customer_phone, gross_amount, status, created_at, updated_at
		FROM orders
		WHERE status = ANY($1) AND updated_at < $2
		ORDER BY updated_at
		LIMIT $3`,
		[]string{string(StatusPending), string(StatusWaiting)},
		time.Now().UTC().Add(-olderThan),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone,
			&o.GrossAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
